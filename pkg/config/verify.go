package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema.
// Every string property declaring a default in the schema must be non-empty.
// Numeric zeros are legitimate values (no pacing, no delay, zero temperature) and are not reported.
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	return verifyAgainstSchema(cfg, embeddedSchema)
}

func verifyAgainstSchema(cfg *Config, schemaData string) error {
	var schema map[string]any
	if err := json.Unmarshal([]byte(schemaData), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// convert config to JSON for validation
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	defs, _ := schema["$defs"].(map[string]any)
	root, ok := resolveRef(schema, defs)
	if !ok {
		return fmt.Errorf("schema has no root definition")
	}
	return checkDefaults(root, defs, configMap, "")
}

// checkDefaults walks schema properties and reports the first property with a default but zero value
func checkDefaults(def map[string]any, defs, values map[string]any, path string) error {
	props, _ := def["properties"].(map[string]any)
	for name, p := range props {
		prop, ok := p.(map[string]any)
		if !ok {
			continue
		}
		fullName := strings.TrimPrefix(path+"."+name, ".")
		if nested, ok := resolveRef(prop, defs); ok {
			sub, _ := values[name].(map[string]any)
			if err := checkDefaults(nested, defs, sub, fullName); err != nil {
				return err
			}
			continue
		}
		if _, hasDefault := prop["default"]; hasDefault && isZero(values[name]) {
			return fmt.Errorf("%s is required", fullName)
		}
	}
	return nil
}

func resolveRef(node, defs map[string]any) (map[string]any, bool) {
	ref, ok := node["$ref"].(string)
	if !ok {
		return nil, false
	}
	def, ok := defs[strings.TrimPrefix(ref, "#/$defs/")].(map[string]any)
	return def, ok
}

func isZero(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	}
	return false
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() *jsonschema.Schema {
	return jsonschema.Reflect(&Config{})
}
