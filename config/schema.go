package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	gojson "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://xdao.co/charsniff/config.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// validateDocument checks a decoded config file against the embedded schema.
// The settings are round-tripped through JSON so numbers and lists take the
// shapes the validator expects.
func validateDocument(settings map[string]any) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	raw, err := gojson.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	var payload any
	if err := gojson.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}
	return s.Validate(payload)
}
