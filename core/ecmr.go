package core

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// The e-CMR document format is defined externally by the Open Logistics
// Foundation (electronic consignment note). The document is validated
// against the embedded JSON Schema and then carried opaquely: no Go struct
// mirrors its fields and the original bytes are preserved on serialization.

//go:embed ecmr_schema.json
var ecmrSchemaJSON []byte

var ecmrSchema = mustCompileECMRSchema()

func mustCompileECMRSchema() *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(ecmrSchemaJSON))
	if err != nil {
		panic(fmt.Sprintf("compile embedded e-CMR schema: %v", err))
	}
	return schema
}

// MaxECMRSize bounds a single e-CMR document to protect against memory
// exhaustion from a hostile data source.
const MaxECMRSize = 1024 * 1024 // 1MB

// ECMRDocument holds one e-CMR document as validated raw JSON.
type ECMRDocument json.RawMessage

// MarshalJSON preserves the original document bytes.
func (d ECMRDocument) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return json.RawMessage(d).MarshalJSON()
}

// UnmarshalJSON stores the document bytes verbatim.
func (d *ECMRDocument) UnmarshalJSON(data []byte) error {
	return (*json.RawMessage)(d).UnmarshalJSON(data)
}

// ValidateECMR checks a raw e-CMR document against the embedded schema.
// Failures list every schema violation, not just the first.
func ValidateECMR(doc []byte) error {
	if len(doc) == 0 {
		return fmt.Errorf("empty e-CMR document")
	}
	if len(doc) > MaxECMRSize {
		return fmt.Errorf("e-CMR document exceeds maximum size of %d bytes", MaxECMRSize)
	}
	result, err := ecmrSchema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("e-CMR document is not valid JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			msgs = append(msgs, re.String())
		}
		return fmt.Errorf("e-CMR schema violations: %s", strings.Join(msgs, "; "))
	}
	return nil
}
