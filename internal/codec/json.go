package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"bioroute/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// ContentType returns the MIME type of exported documents
func (c *JSONCodec) ContentType() string {
	return "application/json"
}

// Parse imports a scenario from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.Scenario, error) {
	var doc document
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return doc.toScenario()
}

// Export exports a scenario to JSON
func (c *JSONCodec) Export(s *domain.Scenario, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(toDocument(s)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
