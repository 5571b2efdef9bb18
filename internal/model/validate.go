package model

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume.schema.json
var resumeSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(resumeSchema)

// ValidateJSON validates a raw resumeData payload against resume.schema.json.
func ValidateJSON(raw []byte) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}

// DecodeDocument validates and decodes a persisted document. Missing lists
// are normalized to empty ones.
func DecodeDocument(raw []byte) (ResumeDocument, error) {
	if err := ValidateJSON(raw); err != nil {
		return ResumeDocument{}, err
	}
	var doc ResumeDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ResumeDocument{}, err
	}
	doc.Normalize()
	return doc, nil
}
