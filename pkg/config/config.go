// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"

	"github.com/BurntSushi/toml"

	"github.com/matrixorigin/colflow/pkg/common/moerr"
	"github.com/matrixorigin/colflow/pkg/logutil"
)

const (
	// DefaultBatchRows is the processing window of operators that build
	// their own output batches.
	DefaultBatchRows = 8192
	// DefaultChannelBuffer is the number of batches buffered per receiver.
	DefaultChannelBuffer = 16
	// DefaultWorkers is the size of the task pool.
	DefaultWorkers = 64
)

// ExecParameters of the execution layer
type ExecParameters struct {
	// BatchRows max rows of a batch built by an operator.
	BatchRows int64 `toml:"batch-rows"`

	// ChannelBuffer capacity of every exchange receiver channel.
	ChannelBuffer int `toml:"channel-buffer"`

	// Workers max number of tasks running at the same time.
	Workers int `toml:"workers"`
}

// Config is the top level configuration of colflow.
type Config struct {
	Exec ExecParameters    `toml:"exec"`
	Log  logutil.LogConfig `toml:"log"`
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaultValues()
	return cfg
}

// SetDefaultValues fills every zero field.
func (c *Config) SetDefaultValues() {
	if c.Exec.BatchRows == 0 {
		c.Exec.BatchRows = DefaultBatchRows
	}
	if c.Exec.ChannelBuffer == 0 {
		c.Exec.ChannelBuffer = DefaultChannelBuffer
	}
	if c.Exec.Workers == 0 {
		c.Exec.Workers = DefaultWorkers
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// Validate checks the values that defaults cannot fix.
func (c *Config) Validate() error {
	ctx := context.TODO()
	if c.Exec.BatchRows < 0 {
		return moerr.NewBadConfig(ctx, "exec.batch-rows must be positive, got %d", c.Exec.BatchRows)
	}
	if c.Exec.ChannelBuffer < 0 {
		return moerr.NewBadConfig(ctx, "exec.channel-buffer can't be negative, got %d", c.Exec.ChannelBuffer)
	}
	if c.Exec.Workers < 0 {
		return moerr.NewBadConfig(ctx, "exec.workers must be positive, got %d", c.Exec.Workers)
	}
	return nil
}

// Parse decodes a toml document, applies defaults and validates it.
func Parse(data string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, moerr.NewBadConfig(context.TODO(), "decode toml: %v", err)
	}
	cfg.SetDefaultValues()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile decodes the toml file at path, applies defaults and validates it.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, moerr.NewBadConfig(context.TODO(), "decode toml file %s: %v", path, err)
	}
	cfg.SetDefaultValues()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
