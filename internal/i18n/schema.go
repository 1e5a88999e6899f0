package i18n

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/BurntSushi/toml"
)

// ErrDataInvalid indicates a locale data file failed structural validation.
var ErrDataInvalid = errors.New("i18n: locale data invalid")

// Locale data documents are free-form translation trees, but the path
// section consumed by the localizer must map segment names to scalars.
const localeDataSchema = `{
	"type": "object",
	"properties": {
		"paths": {
			"type": "object",
			"additionalProperties": {
				"type": ["string", "number", "boolean"]
			}
		}
	}
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func compiledDataSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("locale-data.json", bytes.NewReader([]byte(localeDataSchema))); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("locale-data.json")
	})
	return compiledSchema, schemaErr
}

// ValidateDataFile checks the structural shape of a locale data file. The
// document is unwrapped from a Rails-style locale root before validation so
// both layouts are accepted.
func ValidateDataFile(fsys fs.FS, file DataFile) error {
	raw, err := fs.ReadFile(fsys, file.Path)
	if err != nil {
		return fmt.Errorf("i18n: read %s: %w", file.Path, err)
	}

	doc := map[string]any{}
	switch strings.ToLower(path.Ext(file.Path)) {
	case ".toml":
		if err := toml.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrDataInvalid, file.Path, err)
		}
	default:
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrDataInvalid, file.Path, err)
		}
	}
	doc = unwrapLocaleRoot(file.Stem, doc)

	schema, err := compiledDataSchema()
	if err != nil {
		return fmt.Errorf("%w: compile schema: %v", ErrDataInvalid, err)
	}

	normalized, err := jsonRoundTrip(doc)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDataInvalid, file.Path, err)
	}
	if err := schema.Validate(normalized); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDataInvalid, file.Path, err)
	}
	return nil
}

// jsonRoundTrip coerces decoder-specific types (yaml map keys, toml dates)
// into the plain JSON value space jsonschema validates against.
func jsonRoundTrip(doc map[string]any) (any, error) {
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return out, nil
}
