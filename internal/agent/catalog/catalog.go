// Package catalog holds the fixed registry of operations the assistant
// can run, their argument contracts, and the uniform result envelope.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/texfolio/stockroom/internal/llm"
)

// Error codes carried in failed results so the summarizing round can
// explain what went wrong.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeDuplicateKey      = "DUPLICATE_KEY"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeExternalService   = "EXTERNAL_SERVICE_ERROR"
	CodeUnknownOperation  = "UNKNOWN_OPERATION"
)

// Result is the envelope every operation returns. Data is set on
// success only; Suggestions carries candidate names when an identifier
// did not resolve cleanly.
type Result struct {
	Success     bool     `json:"success"`
	Data        any      `json:"data,omitempty"`
	Error       string   `json:"error,omitempty"`
	ErrorCode   string   `json:"error_code,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// OK wraps an operation payload in a successful result.
func OK(data any) Result {
	return Result{Success: true, Data: data}
}

// Fail builds a failed result with a code and message.
func Fail(code, msg string) Result {
	return Result{Error: msg, ErrorCode: code}
}

// FailWithSuggestions is Fail plus candidate product names.
func FailWithSuggestions(code, msg string, suggestions []string) Result {
	return Result{Error: msg, ErrorCode: code, Suggestions: suggestions}
}

// Field is one property of an argument contract, in JSON-schema form.
type Field struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
	Items       *Field   `json:"items,omitempty"`
}

// Min is a convenience for Field.Minimum literals.
func Min(v float64) *float64 { return &v }

// Contract is the JSON-schema object describing an operation's
// arguments, advertised verbatim to the reasoning service.
type Contract struct {
	Type       string           `json:"type"`
	Properties map[string]Field `json:"properties"`
	Required   []string         `json:"required,omitempty"`
}

// Operation is one registry entry. Decode turns the raw argument JSON
// into the operation's typed argument struct; Handle runs it.
type Operation struct {
	Name        string
	Description string
	Contract    Contract
	Decode      func(raw json.RawMessage) (any, error)
	Handle      func(ctx context.Context, args any) Result
}

// DecodeInto returns a Decode func producing *T. Unknown fields are
// rejected so a drifting reasoning service fails loudly instead of
// silently dropping arguments.
func DecodeInto[T any]() func(raw json.RawMessage) (any, error) {
	return func(raw json.RawMessage) (any, error) {
		var v T
		if len(raw) == 0 {
			return &v, nil
		}
		dec := json.NewDecoder(strings.NewReader(string(raw)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		return &v, nil
	}
}

// Registry is the fixed operation set. It never grows after New.
type Registry struct {
	ops      map[string]Operation
	order    []string
	validate *validator.Validate
}

// NewRegistry indexes the given operations. Duplicate names are a
// programming error and reported immediately.
func NewRegistry(ops ...Operation) (*Registry, error) {
	r := &Registry{
		ops:      make(map[string]Operation, len(ops)),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, op := range ops {
		if _, exists := r.ops[op.Name]; exists {
			return nil, fmt.Errorf("duplicate operation %q", op.Name)
		}
		r.ops[op.Name] = op
		r.order = append(r.order, op.Name)
	}
	return r, nil
}

// Names lists the registered operations in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Specs renders the registry as tool specs for the planning round.
func (r *Registry) Specs() []llm.ToolSpec {
	specs := make([]llm.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		op := r.ops[name]
		specs = append(specs, llm.ToolSpec{
			Name:        op.Name,
			Description: op.Description,
			Parameters:  op.Contract,
		})
	}
	return specs
}

// Execute runs one named operation against raw argument JSON. Unknown
// names and bad arguments come back as failed results, never as
// errors: the summarizing round explains them to the user.
func (r *Registry) Execute(ctx context.Context, name string, raw json.RawMessage) Result {
	op, ok := r.ops[name]
	if !ok {
		return Fail(CodeUnknownOperation, fmt.Sprintf("unknown operation %q", name))
	}

	args, err := op.Decode(raw)
	if err != nil {
		return Fail(CodeValidation, fmt.Sprintf("invalid arguments for %s: %v", name, err))
	}
	if err := r.validate.Struct(args); err != nil {
		return Fail(CodeValidation, validationMessage(name, err))
	}
	return op.Handle(ctx, args)
}

func validationMessage(name string, err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Sprintf("invalid arguments for %s: %v", name, err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Sprintf("invalid arguments for %s: %s", name, strings.Join(parts, ", "))
}
