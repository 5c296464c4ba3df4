package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Registry indexes schemas by URI (spec §4.A). A Registry built by
// LoadBuiltin or LoadDir is safe for unsynchronized concurrent reads; Add
// must not race with concurrent readers (spec §5 "Shared resource policy").
type Registry struct {
	schemas map[string]Schema
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]Schema)}
}

// LoadBuiltin returns a registry pre-populated with the embedded core User
// and Group schemas plus the bundled Enterprise User extension.
func LoadBuiltin() (*Registry, error) {
	r := NewRegistry()
	for _, name := range builtinSchemaFiles {
		data, err := builtinFS.ReadFile("builtin/" + name)
		if err != nil {
			return nil, fmt.Errorf("schema: read embedded %s: %w", name, err)
		}
		s, err := parseSchema(data)
		if err != nil {
			return nil, fmt.Errorf("schema: parse embedded %s: %w", name, err)
		}
		if err := r.Add(s); err != nil {
			return nil, fmt.Errorf("schema: register embedded %s: %w", name, err)
		}
	}
	return r, nil
}

// LoadDir loads every *.json file in dir as a schema document and adds it
// to a fresh registry seeded with the builtin schemas. Each file is
// meta-validated for document shape with jsonschema/v6 before structural
// validation (spec §4.A, §6 "Schema file format").
func LoadDir(dir string) (*Registry, error) {
	r, err := LoadBuiltin()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("schema: read dir %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("schema: read %s: %w", path, err)
		}
		if err := metaValidateDocument(path, data); err != nil {
			return nil, fmt.Errorf("schema: %s: %w", path, err)
		}
		s, err := parseSchema(data)
		if err != nil {
			return nil, fmt.Errorf("schema: parse %s: %w", path, err)
		}
		if err := r.Add(s); err != nil {
			return nil, fmt.Errorf("schema: register %s: %w", path, err)
		}
	}
	return r, nil
}

func parseSchema(data []byte) (Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return Schema{}, err
	}
	s.defaults()
	if err := s.validateShape(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// schemaDocumentMetaSchema is a minimal JSON Schema describing the shape a
// schema-definition file must have: required top-level keys and the shape
// of each attribute object. It catches malformed files (missing "id",
// attributes that aren't objects, etc.) with a JSON-pointer-located error
// before structural validation runs (SPEC_FULL.md §3).
const schemaDocumentMetaSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["id", "name", "attributes"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"name": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"attributes": {
			"type": "array",
			"minItems": 1,
			"items": {"$ref": "#/$defs/attribute"}
		}
	},
	"$defs": {
		"attribute": {
			"type": "object",
			"required": ["name", "type"],
			"properties": {
				"name": {"type": "string", "minLength": 1},
				"type": {"type": "string"},
				"multiValued": {"type": "boolean"},
				"required": {"type": "boolean"},
				"caseExact": {"type": "boolean"},
				"mutability": {"type": "string"},
				"uniqueness": {"type": "string"},
				"canonicalValues": {"type": "array", "items": {"type": "string"}},
				"returned": {"type": "string"},
				"referenceTypes": {"type": "array", "items": {"type": "string"}},
				"description": {"type": "string"},
				"subAttributes": {"type": "array", "items": {"$ref": "#/$defs/attribute"}}
			}
		}
	}
}`

var metaSchemaCompiled = func() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema-document.json", mustUnmarshalAny(schemaDocumentMetaSchema)); err != nil {
		panic(err)
	}
	s, err := c.Compile("schema-document.json")
	if err != nil {
		panic(err)
	}
	return s
}()

func mustUnmarshalAny(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		panic(err)
	}
	return v
}

func metaValidateDocument(path string, data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := metaSchemaCompiled.Validate(doc); err != nil {
		return fmt.Errorf("schema document does not match required shape: %w", err)
	}
	return nil
}

// Add registers a schema, rejecting duplicate IDs.
func (r *Registry) Add(s Schema) error {
	if _, exists := r.schemas[s.ID]; exists {
		return fmt.Errorf("schema: duplicate schema id %q", s.ID)
	}
	if r.schemas == nil {
		r.schemas = make(map[string]Schema)
	}
	r.schemas[s.ID] = s
	r.order = append(r.order, s.ID)
	return nil
}

// Get returns the schema registered under uri, if any.
func (r *Registry) Get(uri string) (Schema, bool) {
	s, ok := r.schemas[uri]
	return s, ok
}

// Iter returns every registered schema in registration order.
func (r *Registry) Iter() []Schema {
	out := make([]Schema, 0, len(r.order))
	for _, uri := range r.order {
		out = append(out, r.schemas[uri])
	}
	return out
}

// AttributeDef resolves a dotted path against a schema's attribute tree,
// descending into sub-attributes (spec §4.A).
func (r *Registry) AttributeDef(schemaURI, path string) (AttributeDefinition, bool) {
	s, ok := r.Get(schemaURI)
	if !ok {
		return AttributeDefinition{}, false
	}
	parts := strings.Split(path, ".")
	attr, ok := s.Attribute(parts[0])
	if !ok {
		return AttributeDefinition{}, false
	}
	for _, part := range parts[1:] {
		var next AttributeDefinition
		found := false
		for _, sa := range attr.SubAttributes {
			if strings.EqualFold(sa.Name, part) {
				next = sa
				found = true
				break
			}
		}
		if !found {
			return AttributeDefinition{}, false
		}
		attr = next
	}
	return attr, true
}
