package model

// GroundedAnswer is the final product of one query: generated text plus the
// distinct source identifiers of the chunks that were offered as context.
// Citations reflect what was offered to the model, not what the model chose
// to cite in its output, and are sorted ascending for determinism.
type GroundedAnswer struct {
	Text      string   `json:"text"`
	Citations []string `json:"citations"`
}
