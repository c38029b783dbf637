// Package config holds the tuning knobs an engine instance starts with:
// block size, buffer pool size, lock/buffer timeouts, and catalog name
// limits, loadable from a YAML file or defaulted.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full set of tunables one Database instance is built
// from.
type Config struct {
	BlockSize  int           `yaml:"block_size"`
	BufferSize int           `yaml:"buffer_size"`
	LogFile    string        `yaml:"log_file"`
	LockWait   time.Duration `yaml:"lock_wait"`
	BufferWait time.Duration `yaml:"buffer_wait"`

	TableMgr struct {
		MaxName int `yaml:"max_name"`
	} `yaml:"table_mgr"`

	ViewMgr struct {
		MaxViewDef int `yaml:"max_viewdef"`
	} `yaml:"view_mgr"`
}

// Default returns the configuration used when no file is supplied: a
// 512-byte block, an eight-buffer pool, a ten-second lock/buffer
// timeout, and the catalogs' original name limits.
func Default() Config {
	var c Config
	c.BlockSize = 512
	c.BufferSize = 8
	c.LogFile = "simpledb.log"
	c.LockWait = 10 * time.Second
	c.BufferWait = 10 * time.Second
	c.TableMgr.MaxName = 16
	c.ViewMgr.MaxViewDef = 100
	return c
}

// Load reads path as YAML over the default configuration, so a partial
// file only needs to override what differs.
func Load(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}
