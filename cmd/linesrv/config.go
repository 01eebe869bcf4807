package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/linesrv/linesrv"
)

// config is the resolved daemon configuration: defaults, then the TOML
// file, then command-line flags.
type config struct {
	Addr        string
	AdminAddr   string // empty disables the admin endpoint
	Corpus      string
	IndexCache  bool
	ReadTimeout time.Duration
	LogLevel    string
}

func defaultConfig() config {
	return config{
		Addr:       linesrv.DefaultAddr,
		IndexCache: true,
		LogLevel:   "info",
	}
}

type fileConfig struct {
	Addr        string `toml:"addr"`
	AdminAddr   string `toml:"admin_addr"`
	Corpus      string `toml:"corpus"`
	IndexCache  bool   `toml:"index_cache"`
	ReadTimeout string `toml:"read_timeout"`
	LogLevel    string `toml:"log_level"`
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("admin_addr") {
		cfg.AdminAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("corpus") {
		cfg.Corpus = strings.TrimSpace(raw.Corpus)
	}
	if meta.IsDefined("index_cache") {
		cfg.IndexCache = raw.IndexCache
	}
	if meta.IsDefined("read_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReadTimeout))
		if err != nil {
			return config{}, fmt.Errorf("parse read_timeout: %w", err)
		}
		cfg.ReadTimeout = d
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	return cfg, nil
}
