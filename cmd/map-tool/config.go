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

package main

import (
	"github.com/BurntSushi/toml"

	"github.com/primkit/primkit/pkg/common/moerr"
	"github.com/primkit/primkit/pkg/common/parallel"
	"github.com/primkit/primkit/pkg/container/hashtable"
	"github.com/primkit/primkit/pkg/logutil"
)

// Config is the TOML workload description consumed by map-tool.
type Config struct {
	Log      logutil.LogConfig `toml:"log"`
	Workload WorkloadConfig    `toml:"workload"`
}

type WorkloadConfig struct {
	// Keys is the number of distinct keys to insert.
	Keys int64 `toml:"keys"`
	// RemoveRatio is the fraction of inserted keys to remove afterwards.
	RemoveRatio float64 `toml:"remove-ratio"`
	// Layout selects the slot representation: tagged or sentinel.
	Layout string `toml:"layout"`
	// Workers is the goroutine pool size for the parallel passes.
	Workers int `toml:"workers"`
	// BatchSize is the number of pairs per parallel task.
	BatchSize int `toml:"batch-size"`
	// Seed makes the generated key sequence reproducible.
	Seed int64 `toml:"seed"`
}

func defaultConfig() *Config {
	return &Config{
		Log: logutil.LogConfig{Level: "info", Format: "console"},
		Workload: WorkloadConfig{
			Keys:        1_000_000,
			RemoveRatio: 0.2,
			Layout:      "tagged",
			Workers:     4,
			BatchSize:   parallel.DefaultBatchSize(),
			Seed:        1,
		},
	}
}

func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, moerr.NewBadConfigNoCtx("cannot parse %s: %v", path, err)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	w := &c.Workload
	if w.Keys <= 0 {
		return moerr.NewBadConfigNoCtx("keys must be positive, got %d", w.Keys)
	}
	if w.RemoveRatio < 0 || w.RemoveRatio >= 1 {
		return moerr.NewBadConfigNoCtx("remove-ratio must be in [0, 1), got %v", w.RemoveRatio)
	}
	if w.Workers <= 0 {
		return moerr.NewBadConfigNoCtx("workers must be positive, got %d", w.Workers)
	}
	if w.BatchSize <= 0 {
		return moerr.NewBadConfigNoCtx("batch-size must be positive, got %d", w.BatchSize)
	}
	if _, err := c.layout(); err != nil {
		return err
	}
	return nil
}

func (c *Config) layout() (hashtable.Layout, error) {
	switch c.Workload.Layout {
	case "", "tagged":
		return hashtable.LayoutTagged, nil
	case "sentinel":
		return hashtable.LayoutSentinel, nil
	default:
		return 0, moerr.NewBadConfigNoCtx("unknown layout %q", c.Workload.Layout)
	}
}
