package config

// Alignment parameters
const (
	DefaultWildcard byte = '*' // matches any base during extension
	NoMaxEditDistance    = -1  // derive the score ceiling from the query and graph
)

// Graph construction parameters
const (
	DefaultMaxGraphWidth  = 64
	DefaultGraphCacheSize = 16
)

// Environment overrides applied after the run file is read
const (
	EnvMaxGraphWidth   = "GRAPH_ALIGN_MAX_GRAPH_WIDTH"
	EnvWildcard        = "GRAPH_ALIGN_WILDCARD"
	EnvMaxEditDistance = "GRAPH_ALIGN_MAX_EDIT_DISTANCE"
	EnvCacheSize       = "GRAPH_ALIGN_CACHE_SIZE"
)
