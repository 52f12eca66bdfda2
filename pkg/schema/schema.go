package schema

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"github.com/xeipuuv/gojsonschema"
)

var (
	cache   = make(map[reflect.Type]*Schema)
	cacheMu sync.Mutex
)

// Schema is the parameters schema of a Go type.
type Schema struct {
	RawSchema *jsonschema.Schema
	// Parameters is the flattened object schema, with all references resolved
	Parameters *jsonschema.Schema

	validator *gojsonschema.Schema
}

// New creates a new schema from the given type
func New(t reflect.Type) (*Schema, error) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if s, ok := cache[t]; ok {
		return s, nil
	}

	s, err := buildSchema(t)
	if err != nil {
		return nil, err
	}
	cache[t] = s

	return s, nil
}

func (s *Schema) String() string {
	js, _ := json.MarshalIndent(s.Parameters, "", "\t")
	return string(js)
}

// Validate checks the document against the parameters schema.
func (s *Schema) Validate(doc any) error {
	res, err := s.validator.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return errors.Wrap(err, "validation failed")
	}
	if res.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.Newf("validation failed: %s", strings.Join(msgs, "; "))
}

func buildSchema(t reflect.Type) (*Schema, error) {
	raw := JSONSchema(t)

	params, err := ToParameters(raw)
	if err != nil {
		return nil, errors.WithMessagef(err, "unable to build schema for %s", t.String())
	}

	v, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(params))
	if err != nil {
		return nil, errors.Wrapf(err, "unable to compile schema for %s", t.String())
	}

	return &Schema{
		RawSchema:  raw,
		Parameters: params,
		validator:  v,
	}, nil
}

// ToParameters returns the root object of the schema with definitions inlined.
func ToParameters(tSchema *jsonschema.Schema) (*jsonschema.Schema, error) {
	refID := strings.TrimPrefix(tSchema.Ref, "#/$defs/")

	defs := make(map[string]*jsonschema.Schema)
	root := tSchema

	for name, def := range tSchema.Definitions {
		if name == refID {
			root = def
		} else {
			defs[name] = def
		}
	}

	res := &jsonschema.Schema{
		Type:       root.Type,
		Properties: root.Properties,
		Required:   root.Required,
	}
	if res.Properties == nil {
		return res, nil
	}
	if err := resolveRefs(res.Properties, defs); err != nil {
		return nil, err
	}
	return res, nil
}

func resolveRefs(props *orderedmap.OrderedMap[string, *jsonschema.Schema], defs map[string]*jsonschema.Schema) error {
	lookup := func(ref string) (*jsonschema.Schema, error) {
		name := strings.TrimPrefix(ref, "#/$defs/")
		def, ok := defs[name]
		if !ok {
			return nil, errors.Errorf("definition %q not found", name)
		}
		return def, nil
	}

	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		child := pair.Value
		if child.Ref != "" {
			def, err := lookup(child.Ref)
			if err != nil {
				return err
			}
			pair.Value = def
			child = def
		}
		if child.Properties != nil {
			if err := resolveRefs(child.Properties, defs); err != nil {
				return err
			}
		}
		if child.Items != nil && child.Items.Ref != "" {
			def, err := lookup(child.Items.Ref)
			if err != nil {
				return err
			}
			child.Items = def
		}
	}
	return nil
}

// JSONSchema returns the JSON schema of the type
func JSONSchema(t reflect.Type) *jsonschema.Schema {
	r := new(jsonschema.Reflector)
	r.ExpandedStruct = true
	r.DoNotReference = true
	r.AllowAdditionalProperties = true

	// Types with the same name in different packages would share a `$ref`,
	// so the namer qualifies struct names with a hash of the package path.
	// See https://github.com/invopop/jsonschema/issues/42
	r.Namer = func(t reflect.Type) string {
		name := t.Name()
		if t.Kind() == reflect.Struct {
			fullname := t.PkgPath() + "/" + t.Name()
			name = t.Name() + "@" + strconv.FormatUint(xxhash.Sum64String(fullname), 10)
		}
		return name
	}

	return r.ReflectFromType(t)
}

// FromAny creates a JSON schema from a schema-shaped value,
// such as a map decoded from a tool catalog.
func FromAny(t any) (*jsonschema.Schema, error) {
	js, err := json.Marshal(t)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	schema := &jsonschema.Schema{}
	err = json.Unmarshal(js, schema)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return schema, nil
}
