package pipeline

import (
	"fmt"
	"strings"

	"github.com/mlewan/grounder/model"
)

// ChunkFunc splits document text into ordered chunks. Implementations assign
// sequence indexes starting at 0 and build chunk IDs from the document ID.
type ChunkFunc func(text, documentID, source string) ([]*model.Chunk, error)

// separators in coarse-to-fine priority order: paragraph breaks, line breaks,
// sentence breaks, spaces, raw rune boundaries.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// RecursiveChunker creates a chunker that splits on the coarsest separator
// that still yields segments within targetSize runes, falling back to finer
// separators only for oversized segments. The trailing overlap runes of each
// chunk are repeated at the start of the next one, so stripping the overlap
// prefixes reconstructs the input exactly.
func RecursiveChunker(targetSize, overlap int) (ChunkFunc, error) {
	if targetSize <= 0 {
		return nil, fmt.Errorf("%w: target size must be positive, got %d", model.ErrInvalidConfig, targetSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must not be negative, got %d", model.ErrInvalidConfig, overlap)
	}
	if overlap >= targetSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than target size %d", model.ErrInvalidConfig, overlap, targetSize)
	}

	return func(text, documentID, source string) ([]*model.Chunk, error) {
		if text == "" {
			return []*model.Chunk{}, nil
		}

		// A short document is one chunk regardless of overlap.
		if len([]rune(text)) <= targetSize {
			return []*model.Chunk{newChunk(documentID, source, 0, text)}, nil
		}

		// Fresh text per chunk is capped at targetSize-overlap so that the
		// overlap prefix never pushes a chunk past targetSize.
		segments := splitRecursive(text, 0, targetSize-overlap)

		chunks := make([]*model.Chunk, 0, len(segments))
		previous := ""
		for i, segment := range segments {
			content := segment
			if i > 0 && overlap > 0 {
				content = tailRunes(previous, overlap) + segment
			}
			chunks = append(chunks, newChunk(documentID, source, i, content))
			previous = content
		}

		return chunks, nil
	}, nil
}

func newChunk(documentID, source string, sequenceIndex int, content string) *model.Chunk {
	return &model.Chunk{
		ID:            model.ChunkID(documentID, sequenceIndex),
		DocumentID:    documentID,
		Content:       content,
		Source:        source,
		SequenceIndex: sequenceIndex,
	}
}

// splitRecursive splits text into segments of at most limit runes using the
// separator at sepIdx, recursing to the next-finer separator only for pieces
// that still exceed the limit. Separators stay attached to the preceding
// piece so that concatenating all segments yields the input unchanged.
func splitRecursive(text string, sepIdx, limit int) []string {
	if len([]rune(text)) <= limit {
		return []string{text}
	}

	sep := separators[sepIdx]
	if sep == "" {
		return splitRunes(text, limit)
	}

	var segments []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if current.Len() > 0 {
			segments = append(segments, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, piece := range strings.SplitAfter(text, sep) {
		if piece == "" {
			continue
		}
		pieceLen := len([]rune(piece))

		if pieceLen > limit {
			flush()
			segments = append(segments, splitRecursive(piece, sepIdx+1, limit)...)
			continue
		}
		if currentLen+pieceLen > limit {
			flush()
		}
		current.WriteString(piece)
		currentLen += pieceLen
	}
	flush()

	return segments
}

// splitRunes splits text into consecutive groups of at most limit runes.
func splitRunes(text string, limit int) []string {
	runes := []rune(text)
	segments := make([]string, 0, (len(runes)+limit-1)/limit)
	for start := 0; start < len(runes); start += limit {
		end := start + limit
		if end > len(runes) {
			end = len(runes)
		}
		segments = append(segments, string(runes[start:end]))
	}
	return segments
}

// tailRunes returns the last n runes of s, or all of s if it is shorter.
func tailRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
