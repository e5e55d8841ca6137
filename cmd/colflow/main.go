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

package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/matrixorigin/colflow/pkg/config"
	"github.com/matrixorigin/colflow/pkg/container/batch"
	"github.com/matrixorigin/colflow/pkg/container/types"
	"github.com/matrixorigin/colflow/pkg/container/vector"
	"github.com/matrixorigin/colflow/pkg/logutil"
	"github.com/matrixorigin/colflow/pkg/pb/plan"
	"github.com/matrixorigin/colflow/pkg/sql/compile"
	v2 "github.com/matrixorigin/colflow/pkg/util/metric/v2"
	"github.com/matrixorigin/colflow/pkg/vm/process"
)

var (
	configFile = flag.String("cfg", "", "toml configuration, defaults are used if empty")
	dumpConfig = flag.Bool("dump-config", false, "print the effective configuration and exit")
	rows       = flag.Int("rows", 100000, "rows of the generated source")
	batchRows  = flag.Int("batch", 1000, "rows per generated batch")
	mode       = flag.String("mode", "hash", "exchange mode: single, broadcast, hash or round_robin")
	fanout     = flag.Int("fanout", 4, "receivers of the exchange")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dumpConfig {
		if err := toml.NewEncoder(os.Stdout).Encode(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode config: %v\n", err)
			os.Exit(1)
		}
		return
	}
	logutil.SetupMOLogger(&cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()
	if err := runDemo(ctx, cfg); err != nil {
		logutil.Error("demo query failed", zap.Error(err))
		os.Exit(1)
	}
	dumpMetrics()
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(path)
}

// runDemo sorts a generated relation: a producer scans it and sends it
// through an exchange, every receiver feeds its own sort.
func runDemo(ctx context.Context, cfg *config.Config) error {
	if *rows <= 0 {
		return fmt.Errorf("rows must be positive, got %d", *rows)
	}
	info, err := exchangeInfo(*mode, *fanout)
	if err != nil {
		return err
	}

	proc := process.New(ctx, process.NewLimitation(cfg.Exec))
	proc.SetQueryId(fmt.Sprintf("demo-%d", time.Now().UnixNano()))
	defer proc.Cancel()

	c := compile.New(proc, cfg.Exec.Workers)
	c.AddSource("t", generate(*rows, *batchRows)...)

	scan, err := plan.NewValueScanNode("t")
	if err != nil {
		return err
	}
	ex, err := c.AddProducer(scan, info)
	if err != nil {
		return err
	}

	spec := plan.NewOrderBySpec(plan.NewColumnExpr(0, "a", int32(types.T_int64)), plan.OrderBySpec_DESC)
	counts := make([]int, len(ex.Receivers))
	for i, in := range ex.Split() {
		i := i
		node, err := plan.NewOrderByNode(plan.NewMergeNode(), spec)
		if err != nil {
			return err
		}
		if err := c.AddConsumer(node, in, func(bat *batch.Batch) error {
			counts[i] += bat.VisibleCount()
			return nil
		}); err != nil {
			return err
		}
	}
	logutil.Infof("demo plan:\n%s", c.String())

	start := time.Now()
	if err := c.Run(); err != nil {
		return err
	}
	logutil.Info("demo query finished",
		zap.String("query", proc.QueryId()),
		zap.String("mode", info.Mode.String()),
		zap.Ints("rows", counts),
		zap.Duration("cost", time.Since(start)))
	return nil
}

func exchangeInfo(m string, n int) (*plan.ExchangeInfo, error) {
	v, ok := plan.ExchangeInfo_DistributionMode_value[strings.ToUpper(m)]
	if !ok {
		return nil, fmt.Errorf("unknown exchange mode %q", m)
	}
	info := &plan.ExchangeInfo{
		Mode:  plan.ExchangeInfo_DistributionMode(v),
		Count: uint32(n),
	}
	if info.Mode == plan.ExchangeInfo_HASH {
		info.HashColumns = []int32{0}
	}
	return info, nil
}

// generate builds n rows of (a int64, b varchar) in batches of size rows.
func generate(n, size int) []*batch.Batch {
	if size <= 0 {
		size = n
	}
	var bats []*batch.Batch
	for n > 0 {
		m := size
		if m > n {
			m = n
		}
		a := vector.NewVecWithCapacity(types.T_int64.ToType(), m)
		b := vector.NewVecWithCapacity(types.T_varchar.ToType(), m)
		for i := 0; i < m; i++ {
			v := rand.Int63n(int64(*rows))
			// one row in a hundred has a NULL key
			if err := vector.AppendFixed(a, v, rand.Intn(100) == 0); err != nil {
				panic(err)
			}
			if err := vector.AppendString(b, fmt.Sprintf("row-%d", v), false); err != nil {
				panic(err)
			}
		}
		bat, err := batch.NewWithVectors([]string{"a", "b"}, []*vector.Vector{a, b})
		if err != nil {
			panic(err)
		}
		bats = append(bats, bat)
		n -= m
	}
	return bats
}

func dumpMetrics() {
	mfs, err := v2.GetPrometheusGatherer().Gather()
	if err != nil {
		logutil.Warn("gather metrics failed", zap.Error(err))
		return
	}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			value := m.GetCounter().GetValue()
			if h := m.GetHistogram(); h != nil {
				value = h.GetSampleSum()
			}
			logutil.Info("metric",
				zap.String("name", mf.GetName()),
				zap.Strings("labels", labels),
				zap.Float64("value", value))
		}
	}
}
