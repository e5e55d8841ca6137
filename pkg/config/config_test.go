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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/colflow/pkg/common/moerr"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, int64(DefaultBatchRows), cfg.Exec.BatchRows)
	require.Equal(t, DefaultChannelBuffer, cfg.Exec.ChannelBuffer)
	require.Equal(t, DefaultWorkers, cfg.Exec.Workers)
	require.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[exec]
batch-rows = 4
channel-buffer = 2

[log]
level = "debug"
format = "json"
`)
	require.NoError(t, err)
	require.Equal(t, int64(4), cfg.Exec.BatchRows)
	require.Equal(t, 2, cfg.Exec.ChannelBuffer)
	require.Equal(t, DefaultWorkers, cfg.Exec.Workers)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse(`[exec]
batch-rows = -1`)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))

	_, err = Parse(`[exec`)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colflow.toml")
	require.NoError(t, os.WriteFile(path, []byte("[exec]\nworkers = 3\n"), 0o600))
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Exec.Workers)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))
}
