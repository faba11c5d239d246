// Package config defines the Aud interpreter's JSON configuration schema
// (spec.md §6) and its defaults. Loading a configuration file is the
// embedding application's job; this package only decodes, schema-validates,
// and fills in defaults for whatever bytes it is handed.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Configuration holds every recognized option from spec.md §6. Unknown keys
// in the source JSON are ignored; missing keys take the defaults below.
type Configuration struct {
	MaxFuncDepth        int `json:"MAX_FUNC_DEPTH"`
	MaxRecDepth         int `json:"MAX_REC_DEPTH"`
	MaxStringLength     int `json:"MAX_STRING_LENGTH"`
	MaxIdentifierLength int `json:"MAX_IDENTIFIER_LENGTH"`
	MaxCommentLength    int `json:"MAX_COMMENT_LENGTH"`
	MaxFolderDepth      int `json:"MAX_FOLDER_DEPTH"`
}

// Default returns the suggested defaults from spec.md §6.
func Default() Configuration {
	return Configuration{
		MaxFuncDepth:        200,
		MaxRecDepth:         100,
		MaxStringLength:     10000,
		MaxIdentifierLength: 64,
		MaxCommentLength:    10000,
		MaxFolderDepth:      16,
	}
}

// schema describes the shape spec.md §6 documents. It is intentionally
// permissive (additionalProperties implied true) since unknown keys must be
// ignored rather than rejected.
var schema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"MAX_FUNC_DEPTH":        {Type: "integer"},
		"MAX_REC_DEPTH":         {Type: "integer"},
		"MAX_STRING_LENGTH":     {Type: "integer"},
		"MAX_IDENTIFIER_LENGTH": {Type: "integer"},
		"MAX_COMMENT_LENGTH":    {Type: "integer"},
		"MAX_FOLDER_DEPTH":      {Type: "integer"},
	},
}

var resolved = mustResolve(schema)

func mustResolve(s *jsonschema.Schema) *jsonschema.Resolved {
	r, err := s.Resolve(nil)
	if err != nil {
		// The schema above is a static literal; a resolve failure is a bug
		// in this package, not a runtime condition.
		panic(fmt.Sprintf("config: invalid built-in schema: %v", err))
	}
	return r
}

// Load decodes raw JSON bytes into a Configuration, validating recognized
// keys against the schema and filling every unset key with its default.
// An empty or all-whitespace input is valid and yields Default().
func Load(data []byte) (Configuration, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("config: invalid JSON: %w", err)
	}

	known := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		if _, ok := schema.Properties[k]; ok {
			known[k] = v
		}
	}

	if err := resolved.Validate(known); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: invalid JSON: %w", err)
	}
	applyDefaultsForZero(&cfg, raw)
	return cfg, nil
}

// applyDefaultsForZero sets the default value for any field whose key was
// absent from the source JSON. Load decodes into a Configuration that
// already holds Default(), so this re-asserts values json.Unmarshal left
// untouched.
func applyDefaultsForZero(cfg *Configuration, raw map[string]interface{}) {
	def := Default()
	if _, ok := raw["MAX_FUNC_DEPTH"]; !ok {
		cfg.MaxFuncDepth = def.MaxFuncDepth
	}
	if _, ok := raw["MAX_REC_DEPTH"]; !ok {
		cfg.MaxRecDepth = def.MaxRecDepth
	}
	if _, ok := raw["MAX_STRING_LENGTH"]; !ok {
		cfg.MaxStringLength = def.MaxStringLength
	}
	if _, ok := raw["MAX_IDENTIFIER_LENGTH"]; !ok {
		cfg.MaxIdentifierLength = def.MaxIdentifierLength
	}
	if _, ok := raw["MAX_COMMENT_LENGTH"]; !ok {
		cfg.MaxCommentLength = def.MaxCommentLength
	}
	if _, ok := raw["MAX_FOLDER_DEPTH"]; !ok {
		cfg.MaxFolderDepth = def.MaxFolderDepth
	}
}
