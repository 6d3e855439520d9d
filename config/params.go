package config

import "time"

// Defaults of every tunable. Limits are somewhat arbitrary and may be raised.
const (
	// DefaultNodeMaxSlots is a compromise between CPU spent on LRU reordering and memory held by loaded nodes.
	// It must not be lower than the number of indexes on the tables in use, so keep it at 128 or 256 at least.
	DefaultNodeMaxSlots = 256

	DefaultMaxTreeDepth      = 2048
	DefaultMaxGroupWidth     = 4096
	DefaultMaxNodeAttrs      = 4096
	DefaultMaxUndoPathLength = 10240

	// DefaultMetadataCacheSize matches the engine's own default (1MiB).
	DefaultMetadataCacheSize int64 = 1 << 20

	DefaultMaxColumns         = 512
	DefaultTableMaxSize int64 = 1 << 20

	DefaultExpectedRowsTable  int64 = 10000
	DefaultExpectedRowsEArray int64 = 1000

	// DefaultChunkTimes makes large sequential writes and reads very fast.
	DefaultChunkTimes  = 8
	DefaultBufferTimes = 100

	DefaultTelemetryInterval = 5 * time.Second
)

// NodeCacheMode is derived from the sign of Params.NodeMaxSlots.
type NodeCacheMode string

const (
	// NodeCacheBounded keeps at most NodeMaxSlots unreferenced nodes, evicting the least recently used.
	NodeCacheBounded NodeCacheMode = "bounded"

	// NodeCacheUnbounded keeps every touched node and warns once -NodeMaxSlots nodes are loaded.
	NodeCacheUnbounded NodeCacheMode = "unbounded"

	// NodeCacheDisabled keeps nothing: every lookup is a miss.
	NodeCacheDisabled NodeCacheMode = "disabled"
)

// Params is the parameter set of one open store.
// It is built once (Default, LoadConfig) and must not be mutated after being handed to a store.
// NodeCacheMode and NodeWarnThreshold are derived from NodeMaxSlots by AdjustConfig and are not
// updated by assignment: call AdjustConfig again after changing NodeMaxSlots.
type Params struct {
	// NodeMaxSlots is the signed capacity of the node metadata cache.
	//   > 0: number of *unreferenced* nodes kept in memory; least recently used ones are unloaded.
	//         Nodes referenced by open handles are not taken into account nor unloaded.
	//   < 0: every touched node is kept; a warning is issued when -NodeMaxSlots nodes are loaded.
	//   = 0: the cache is disabled.
	NodeMaxSlots int `yaml:"node_max_slots" toml:"node_max_slots"`

	// MaxTreeDepth is the maximum nesting depth of the node hierarchy.
	MaxTreeDepth int `yaml:"max_tree_depth" toml:"max_tree_depth"`

	// MaxGroupWidth is the maximum number of children hanging from a group.
	MaxGroupWidth int `yaml:"max_group_width" toml:"max_group_width"`

	// MaxNodeAttrs is the maximum number of attributes of a node.
	MaxNodeAttrs int `yaml:"max_node_attrs" toml:"max_node_attrs"`

	// MaxUndoPathLength is the maximum length of paths recorded by undo/redo.
	MaxUndoPathLength int `yaml:"max_undo_path_length" toml:"max_undo_path_length"`

	// MetadataCacheSize is a size hint (bytes) for the storage engine's own metadata cache.
	MetadataCacheSize int64 `yaml:"metadata_cache_size" toml:"metadata_cache_size"`

	// MaxColumns is the number of table columns above which a performance warning is issued.
	MaxColumns int `yaml:"max_columns" toml:"max_columns"`

	// TableMaxSize is the maximum size (bytes) of table rows cached during one read.
	TableMaxSize int64 `yaml:"table_max_size" toml:"table_max_size"`

	// ExpectedRowsTable and ExpectedRowsEArray are the default row-count hints for chunk pre-allocation.
	ExpectedRowsTable  int64 `yaml:"expected_rows_table" toml:"expected_rows_table"`
	ExpectedRowsEArray int64 `yaml:"expected_rows_earray" toml:"expected_rows_earray"`

	// ChunkTimes is the buffer size to chunk size ratio of chunked datasets.
	ChunkTimes int `yaml:"chunk_times" toml:"chunk_times"`

	// BufferTimes is the buffer size to row size ratio above which a performance warning is issued.
	BufferTimes int `yaml:"buffer_times" toml:"buffer_times"`

	// Telemetry configures periodic stat logs of the node cache.
	// If nil, no stat logs are written.
	Telemetry *TelemetryCfg `yaml:"telemetry" toml:"telemetry"`

	// NodeCacheMode is derived from NodeMaxSlots during AdjustConfig.
	// It is not read from YAML.
	NodeCacheMode NodeCacheMode `yaml:"-" toml:"-"` // virtual: computed during init

	// NodeWarnThreshold is abs(NodeMaxSlots) in NodeCacheUnbounded mode, 0 otherwise.
	NodeWarnThreshold int `yaml:"-" toml:"-"` // virtual: computed during init
}

type TelemetryCfg struct {
	// Interval between two stat log lines. Zero means DefaultTelemetryInterval.
	Interval time.Duration `yaml:"interval" toml:"interval"`
}

func (cfg *TelemetryCfg) Enabled() bool {
	return cfg != nil
}

// Default returns the stock parameter set, already adjusted.
func Default() *Params {
	p := &Params{
		NodeMaxSlots:       DefaultNodeMaxSlots,
		MaxTreeDepth:       DefaultMaxTreeDepth,
		MaxGroupWidth:      DefaultMaxGroupWidth,
		MaxNodeAttrs:       DefaultMaxNodeAttrs,
		MaxUndoPathLength:  DefaultMaxUndoPathLength,
		MetadataCacheSize:  DefaultMetadataCacheSize,
		MaxColumns:         DefaultMaxColumns,
		TableMaxSize:       DefaultTableMaxSize,
		ExpectedRowsTable:  DefaultExpectedRowsTable,
		ExpectedRowsEArray: DefaultExpectedRowsEArray,
		ChunkTimes:         DefaultChunkTimes,
		BufferTimes:        DefaultBufferTimes,
	}
	p.AdjustConfig()
	return p
}
