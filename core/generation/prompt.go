package generation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mlewan/grounder/model"
)

const systemInstruction = `You are a careful assistant that answers questions about documents.

Rules:
- Answer using only the information in the context below.
- Cite the sources you rely on with their [source] markers.
- If the context does not contain enough information to answer, say so explicitly.
- You provide general information, not legal or professional advice.`

// NoContextAnswer is returned verbatim when retrieval finds nothing above
// the similarity threshold.
const NoContextAnswer = "No relevant information was found in the ingested documents for this question."

// BuildPrompt renders the grounded prompt: system instruction, the retrieved
// chunks in rank order with their source markers, then the question. The
// output is deterministic for a given input.
func BuildPrompt(question string, chunks []*model.ScoredChunk) string {
	var b strings.Builder
	b.WriteString(systemInstruction)
	b.WriteString("\n\nContext:\n")

	for i, scored := range chunks {
		marker := scored.Chunk.Source
		if scored.Chunk.PageNumber != nil {
			marker = fmt.Sprintf("%s, page %d", scored.Chunk.Source, *scored.Chunk.PageNumber)
		}
		b.WriteString(fmt.Sprintf("\n[%d] [%s]\n%s\n", i+1, marker, scored.Chunk.Content))
	}

	b.WriteString(fmt.Sprintf("\nQuestion: %s\n\nAnswer the question using only the context above and cite the sources you used.", question))
	return b.String()
}

// Citations returns the distinct sources of the given chunks in ascending
// order. It reflects what was offered to the model, not what the model
// chose to cite.
func Citations(chunks []*model.ScoredChunk) []string {
	seen := map[string]bool{}
	citations := []string{}
	for _, scored := range chunks {
		if !seen[scored.Chunk.Source] {
			seen[scored.Chunk.Source] = true
			citations = append(citations, scored.Chunk.Source)
		}
	}
	sort.Strings(citations)
	return citations
}
