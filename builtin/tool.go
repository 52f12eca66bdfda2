package builtin

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolpilot/pkg/schema"
	"github.com/effective-security/toolpilot/tools"
	"github.com/go-playground/validator/v10"
)

// Func is the handler of a typed tool.
type Func[I any, O any] func(ctx context.Context, input *I) (*O, error)

// Tool is a builtin tool with typed input and output.
type Tool[I any, O any] struct {
	name        string
	description string
	schema      *schema.Schema
	validate    *validator.Validate
	run         Func[I, O]
}

// ensure Tool implements the tools.ITool interface
var _ tools.ITool = (*Tool[struct{}, struct{}])(nil)

// NewTool returns a tool that decodes parameters into I and calls fn.
// I must be a struct type.
func NewTool[I any, O any](name, description string, fn Func[I, O]) (*Tool[I, O], error) {
	if name == "" {
		return nil, errors.New("invalid tool: name is required")
	}
	if fn == nil {
		return nil, errors.Errorf("invalid tool %s: handler is required", name)
	}
	sc, err := schema.New(reflect.TypeFor[I]())
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to create schema for tool %s", name)
	}
	return &Tool[I, O]{
		name:        name,
		description: description,
		schema:      sc,
		validate:    validator.New(),
		run:         fn,
	}, nil
}

// MustTool returns a tool, and panics if it cannot be created.
func MustTool[I any, O any](name, description string, fn Func[I, O]) *Tool[I, O] {
	t, err := NewTool(name, description, fn)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the name of the tool.
func (t *Tool[I, O]) Name() string {
	return t.name
}

// Description returns the description of the tool.
func (t *Tool[I, O]) Description() string {
	return t.description
}

// Parameters returns the JSON schema of the tool input.
func (t *Tool[I, O]) Parameters() any {
	return t.schema.Parameters
}

// Run validates the input and calls the handler.
func (t *Tool[I, O]) Run(ctx context.Context, input *I) (*O, error) {
	if input == nil {
		return nil, errors.Errorf("validation failed: tool %s requires input", t.name)
	}
	if err := t.validate.StructCtx(ctx, input); err != nil {
		return nil, errors.WithMessage(err, "validation failed")
	}
	return t.run(ctx, input)
}

// Call checks the parameters against the schema, decodes them and runs the tool.
func (t *Tool[I, O]) Call(ctx context.Context, parameters map[string]any) (any, error) {
	if parameters == nil {
		parameters = map[string]any{}
	}
	if err := t.schema.Validate(parameters); err != nil {
		return nil, err
	}

	js, err := json.Marshal(parameters)
	if err != nil {
		return nil, errors.Wrap(err, "validation failed: unable to encode parameters")
	}
	var input I
	if err = json.Unmarshal(js, &input); err != nil {
		return nil, errors.Wrap(err, "validation failed: unable to decode parameters")
	}

	out, err := t.Run(ctx, &input)
	if err != nil {
		return nil, err
	}
	return out, nil
}
