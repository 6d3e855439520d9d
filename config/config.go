package config

import (
	"errors"
	"fmt"
	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidParam = errors.New("invalid parameter")

// NodeCacheModeOf maps a signed node cache capacity to its mode and warning threshold.
func NodeCacheModeOf(slots int) (mode NodeCacheMode, warnThreshold int) {
	switch {
	case slots > 0:
		return NodeCacheBounded, 0
	case slots < 0:
		return NodeCacheUnbounded, -slots
	default:
		return NodeCacheDisabled, 0
	}
}

func (cfg *Params) AdjustConfig() {
	cfg.NodeCacheMode, cfg.NodeWarnThreshold = NodeCacheModeOf(cfg.NodeMaxSlots)

	if cfg.Telemetry.Enabled() && cfg.Telemetry.Interval <= 0 {
		cfg.Telemetry.Interval = DefaultTelemetryInterval
	}
}

// Validate reports every parameter that no collaborator could work with.
// NodeMaxSlots is never invalid: each sign selects a cache mode.
func (cfg *Params) Validate() error {
	var errs []error
	positive := func(name string, v int64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidParam, name, v))
		}
	}

	positive("max_tree_depth", int64(cfg.MaxTreeDepth))
	positive("max_group_width", int64(cfg.MaxGroupWidth))
	positive("max_node_attrs", int64(cfg.MaxNodeAttrs))
	positive("max_undo_path_length", int64(cfg.MaxUndoPathLength))
	positive("max_columns", int64(cfg.MaxColumns))
	positive("table_max_size", cfg.TableMaxSize)
	positive("expected_rows_table", cfg.ExpectedRowsTable)
	positive("expected_rows_earray", cfg.ExpectedRowsEArray)
	positive("chunk_times", int64(cfg.ChunkTimes))
	positive("buffer_times", int64(cfg.BufferTimes))

	if cfg.MetadataCacheSize < 0 {
		errs = append(errs, fmt.Errorf("%w: metadata_cache_size must not be negative, got %d", ErrInvalidParam, cfg.MetadataCacheSize))
	}

	return errors.Join(errs...)
}

// LoadConfig reads parameters from a YAML or TOML (by ".toml" extension) file.
// Keys absent from the file keep their Default values.
func LoadConfig(path string) (*Params, error) {
	path, err := homedir.Expand(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("expand config path: %w", err)
	}

	if _, err = os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err = toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal toml from %s: %w", path, err)
		}
	} else {
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
		}
	}
	cfg.AdjustConfig()

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}

	return cfg, nil
}

// Marshal renders cfg as YAML, the format LoadConfig reads by default.
func (cfg *Params) Marshal() ([]byte, error) {
	return yaml.Marshal(cfg)
}
