package retrieval

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mlewan/grounder/model"
)

// CosineSimilarity computes the cosine similarity of two equal-length
// vectors in float64 arithmetic. Callers must check dimensions beforehand;
// a zero-norm vector yields a similarity of 0 rather than NaN.
func CosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// RankResult holds the chunks that passed ranking together with the
// candidates that were skipped for recoverable reasons.
type RankResult struct {
	Ranked  []*model.ScoredChunk
	Skipped []*model.SkippedChunk
}

// Rank scores all candidates against the query vector and returns at most
// topK chunks scoring strictly above the threshold, ordered by descending
// score with ties broken by ascending chunk ID. Candidates with missing
// fields are skipped and reported; a candidate whose embedding dimension
// differs from the query vector aborts the whole ranking.
func Rank(queryVector []float32, candidates []*model.Chunk, threshold float64, topK int) (*RankResult, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: topK must be at least 1, got %d", model.ErrInvalidConfig, topK)
	}
	if threshold < -1 || threshold > 1 {
		return nil, fmt.Errorf("%w: similarity threshold must be in [-1, 1], got %v", model.ErrInvalidConfig, threshold)
	}
	if len(queryVector) == 0 {
		return nil, fmt.Errorf("%w: query vector must not be empty", model.ErrInvalidConfig)
	}

	result := &RankResult{
		Ranked:  []*model.ScoredChunk{},
		Skipped: []*model.SkippedChunk{},
	}

	for _, candidate := range candidates {
		if reason, ok := skipReason(candidate); ok {
			result.Skipped = append(result.Skipped, &model.SkippedChunk{Chunk: candidate, Reason: reason})
			continue
		}
		if len(candidate.Embedding) != len(queryVector) {
			return nil, &model.DimensionMismatchError{
				ChunkID:  candidate.ID,
				Expected: len(queryVector),
				Got:      len(candidate.Embedding),
			}
		}

		score := CosineSimilarity(queryVector, candidate.Embedding)
		if score > threshold {
			result.Ranked = append(result.Ranked, &model.ScoredChunk{Chunk: candidate, Score: score})
		}
	}

	sort.SliceStable(result.Ranked, func(i, j int) bool {
		if result.Ranked[i].Score != result.Ranked[j].Score {
			return result.Ranked[i].Score > result.Ranked[j].Score
		}
		return result.Ranked[i].Chunk.ID < result.Ranked[j].Chunk.ID
	})

	if len(result.Ranked) > topK {
		result.Ranked = result.Ranked[:topK]
	}

	return result, nil
}

func skipReason(chunk *model.Chunk) (string, bool) {
	switch {
	case chunk.ID == "":
		return "missing id", true
	case strings.TrimSpace(chunk.Content) == "":
		return "missing content", true
	case chunk.Source == "":
		return "missing source", true
	case len(chunk.Embedding) == 0:
		return "missing embedding", true
	}
	return "", false
}
