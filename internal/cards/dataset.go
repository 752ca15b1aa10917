// internal/cards/dataset.go
package cards

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrCardNotFound is returned by Dataset.Find for an unknown card id.
var ErrCardNotFound = errors.New("card not found")

// Dataset is the immutable, transformed view of the static record file.
type Dataset struct {
	Path    string
	Records []Record
	Samples []Sample
	byID    map[string]int
}

// recordSchema describes the accepted record shape. Every field is optional;
// only the types are enforced.
var recordSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"video_name":  map[string]any{"type": []string{"string", "null"}},
			"video_path":  map[string]any{"type": []string{"string", "null"}},
			"inputImage":  map[string]any{"type": []string{"string", "null"}},
			"videoFrames": map[string]any{"type": []string{"array", "null"}, "items": map[string]any{"type": "string"}},
			"scores": map[string]any{
				"type": []string{"array", "null"},
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":        map[string]any{"type": []string{"string", "null"}},
						"raw_score": map[string]any{"type": []string{"number", "null"}},
					},
				},
			},
			"sample_score": map[string]any{"type": []string{"number", "null"}},
			"total_score":  map[string]any{"type": []string{"number", "null"}},
			"categories": map[string]any{
				"type": []string{"object", "null"},
				"properties": map[string]any{
					"category1": map[string]any{"type": []string{"string", "null"}},
					"category2": map[string]any{"type": []string{"string", "null"}},
					"category3": map[string]any{"type": []string{"string", "null"}},
				},
			},
			"prompt_text":      map[string]any{"type": []string{"string", "null"}},
			"strict_prompt":    map[string]any{"type": []string{"string", "null"}},
			"relax_prompt":     map[string]any{"type": []string{"string", "null"}},
			"prompt_type":      map[string]any{"type": []string{"string", "null"}},
			"generation_model": map[string]any{"type": []string{"string", "null"}},
			"checklist_length": map[string]any{"type": []string{"integer", "null"}},
			"eval_method":      map[string]any{"type": []string{"string", "null"}},
			"judge_model":      map[string]any{"type": []string{"string", "null"}},
			"id":               map[string]any{"type": []string{"integer", "null"}},
		},
	},
}

// ValidateRecords checks raw dataset JSON against the record schema.
func ValidateRecords(data []byte) error {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(recordSchema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("dataset validation failed: %s", strings.Join(errs, ", "))
}

// ParseDataset validates and decodes raw dataset JSON and transforms every
// record in order.
func ParseDataset(data []byte, icons IconTable) (*Dataset, error) {
	if err := ValidateRecords(data); err != nil {
		return nil, err
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return NewDataset(records, icons), nil
}

// LoadDataset reads the dataset file at path.
func LoadDataset(path string, icons IconTable) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	ds, err := ParseDataset(data, icons)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ds.Path = path
	return ds, nil
}

// NewDataset wraps already-decoded records.
func NewDataset(records []Record, icons IconTable) *Dataset {
	samples := TransformAll(records, icons)
	byID := make(map[string]int, len(samples))
	for i, s := range samples {
		if _, dup := byID[s.CardID]; !dup {
			byID[s.CardID] = i
		}
	}
	return &Dataset{Records: records, Samples: samples, byID: byID}
}

// Len returns the number of cards.
func (d *Dataset) Len() int { return len(d.Samples) }

// Find returns the first sample with the given card id.
func (d *Dataset) Find(cardID string) (Sample, error) {
	if i, ok := d.byID[cardID]; ok {
		return d.Samples[i], nil
	}
	return Sample{}, fmt.Errorf("%w: %s", ErrCardNotFound, cardID)
}

// CheckIDs reports duplicate card identifiers and identifiers that would need
// escaping inside a CSS attribute selector. It returns nil when every id is
// usable.
func CheckIDs(samples []Sample) error {
	var errs []error
	seen := make(map[string]int, len(samples))
	for i, s := range samples {
		if first, ok := seen[s.CardID]; ok {
			errs = append(errs, fmt.Errorf("duplicate card id %q (records %d and %d)", s.CardID, first+1, i+1))
			continue
		}
		seen[s.CardID] = i
		if !selectorSafe(s.CardID) {
			errs = append(errs, fmt.Errorf("card id %q (record %d) is not selector-safe", s.CardID, i+1))
		}
	}
	return errors.Join(errs...)
}

func selectorSafe(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		switch {
		case r == '"' || r == '\\':
			return false
		case r < 0x20 || r == 0x7f:
			return false
		case r == ' ' || r == '\t':
			return false
		}
	}
	return true
}
