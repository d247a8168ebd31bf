package search

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	// ApplicantsPerSlotField is the export key for the competition ratio.
	ApplicantsPerSlotField = "_applicants_per_slot"
	// AcceptanceProbField is the export key for the acceptance probability.
	AcceptanceProbField = "_acceptance_prob"
)

// Annotate returns an export copy of the record's original fields plus the
// derived acceptance fields. Undefined values are omitted, never written as
// null, and the source record is left untouched.
func Annotate(result *Result) map[string]any {
	out := make(map[string]any, len(result.Vacancy.Raw)+2)
	for k, v := range result.Vacancy.Raw {
		out[k] = v
	}

	if result.Estimate.ApplicantsPerSlotDefined {
		out[ApplicantsPerSlotField] = result.Estimate.ApplicantsPerSlot
	}
	if result.Estimate.AcceptanceProbDefined {
		out[AcceptanceProbField] = result.Estimate.AcceptanceProb
	}

	return out
}

// Document is the serializable form of a result set.
type Document struct {
	Data []map[string]any `json:"data"`
}

// NewDocument annotates every result in order.
func NewDocument(results []*Result) Document {
	doc := Document{Data: make([]map[string]any, 0, len(results))}
	for _, result := range results {
		doc.Data = append(doc.Data, Annotate(result))
	}
	return doc
}

// WriteFile saves the document as indented JSON, creating parent directories
// as needed.
func (d Document) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
