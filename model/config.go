package model

// QueryConfig represents configuration for one retrieval query.
// Both fields are always caller-configurable; the defaults below only apply
// when the caller passes nil.
type QueryConfig struct {
	TopK                int     `json:"top_k"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
}

// DefaultQueryConfig returns the default retrieval configuration.
func DefaultQueryConfig() *QueryConfig {
	return &QueryConfig{
		TopK:                5,
		SimilarityThreshold: 0.7,
	}
}

// ChunkConfig configures how document text is split into chunks.
// TargetSize bounds each chunk's length in runes; Overlap is the number of
// trailing runes of a chunk repeated at the start of the next one.
type ChunkConfig struct {
	TargetSize int `json:"target_size"`
	Overlap    int `json:"overlap"`
}

// DefaultChunkConfig returns the default chunking configuration.
func DefaultChunkConfig() *ChunkConfig {
	return &ChunkConfig{
		TargetSize: 1000,
		Overlap:    200,
	}
}
