// Copyright 2022 The Primkit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// map-tool drives the hash map engine through a configurable workload
// and reports timings, mostly for eyeballing layout and load-factor
// behavior on realistic key counts.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/primkit/primkit/pkg/common/parallel"
	"github.com/primkit/primkit/pkg/container/hashtable"
	"github.com/primkit/primkit/pkg/logutil"
)

var configFile = flag.String("config", "", "workload config file (toml)")

func main() {
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "map-tool: %v\n", err)
		os.Exit(1)
	}
	logutil.SetupLogger(&cfg.Log)

	if err := run(cfg); err != nil {
		logutil.Error("workload failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *Config) error {
	w := cfg.Workload
	layout, err := cfg.layout()
	if err != nil {
		return err
	}

	m := hashtable.New(
		hashtable.IntOps[int64](), hashtable.IntOps[int64](),
		hashtable.WithLayout(layout),
		hashtable.WithCapacity(uint64(w.Keys)),
	)
	rng := rand.New(rand.NewSource(w.Seed))

	start := time.Now()
	for i := int64(0); i < w.Keys; i++ {
		m.Put(rng.Int63(), i)
	}
	insertDur := time.Since(start)
	logutil.Info("inserted",
		zap.Int("size", m.Size()),
		zap.String("layout", w.Layout),
		zap.Duration("elapsed", insertDur))

	removeTarget := int64(float64(w.Keys) * w.RemoveRatio)
	start = time.Now()
	removed := int64(0)
	rng = rand.New(rand.NewSource(w.Seed))
	for i := int64(0); i < w.Keys && removed < removeTarget; i++ {
		if _, ok := m.RemoveKey(rng.Int63()); ok {
			removed++
		}
	}
	logutil.Info("removed",
		zap.Int64("count", removed),
		zap.Int("size", m.Size()),
		zap.Duration("elapsed", time.Since(start)))

	var sum int64
	start = time.Now()
	if err := parallel.ForEachKeyValue(m, w.Workers, w.BatchSize, func(_, v int64) {
		atomic.AddInt64(&sum, v)
	}); err != nil {
		return err
	}
	logutil.Info("parallel sum",
		zap.Int64("sum", sum),
		zap.Int("workers", w.Workers),
		zap.Duration("elapsed", time.Since(start)))

	keys := m.KeysView()
	maxKey, err := hashtable.Max[int64](keys, m.KeyOps().Less)
	if err != nil {
		return err
	}
	minKey, err := hashtable.Min[int64](keys, m.KeyOps().Less)
	if err != nil {
		return err
	}
	distinct, err := hashtable.EstimateDistinct[int64](m.ValuesView(), *m.ValOps())
	if err != nil {
		return err
	}
	logutil.Info("stats",
		zap.Int64("min-key", minKey),
		zap.Int64("max-key", maxKey),
		zap.Uint64("distinct-values-estimate", distinct))

	start = time.Now()
	m.Compact()
	logutil.Info("compacted",
		zap.Int("size", m.Size()),
		zap.Duration("elapsed", time.Since(start)))

	return nil
}
