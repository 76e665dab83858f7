package api

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ByLCY/papyrus-cv/resume"
)

//go:embed resume.schema.json
var resumeSchema []byte

// ValidationError 列出请求体违反 schema 的全部位置。
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("resume document failed validation (%d errors)", len(e.Details))
}

// Validator 使用内嵌的 JSON schema 校验简历请求体。
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator 编译内嵌 schema。
func NewValidator() (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(resumeSchema))
	if err != nil {
		return nil, fmt.Errorf("compile resume schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Decode 校验 body 并解码为文档。schema 不通过时返回 *ValidationError。
func (v *Validator) Decode(body []byte) (resume.Document, error) {
	var doc resume.Document
	res, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return doc, &ValidationError{Details: []string{"body is not valid JSON: " + err.Error()}}
	}
	if !res.Valid() {
		details := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			details = append(details, e.String())
		}
		return doc, &ValidationError{Details: details}
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return doc, &ValidationError{Details: []string{err.Error()}}
	}
	return doc, nil
}
