// Package classify maps heterogeneous LLM provider failures onto a small set
// of user-safe categories with fixed messages and HTTP statuses. Raw provider
// error text never leaves this package's Result values.
package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/open-policy-agent/opa/rego"
)

// Category identifies one classification bucket.
type Category string

const (
	CategoryServiceUnavailable Category = "service_unavailable"
	CategoryConfigError        Category = "config_error"
	CategoryRateLimited        Category = "rate_limited"
	CategoryTimeout            Category = "timeout"
	CategoryContentBlocked     Category = "content_blocked"
	CategoryInternal           Category = "internal"
)

// Result is a classified failure: the category, the HTTP status to respond
// with, and the fixed message shown to the user.
type Result struct {
	Category Category
	Status   int
	Message  string
}

// internalResult is the fallback when no rule matches or evaluation fails.
var internalResult = Result{
	Category: CategoryInternal,
	Status:   500,
	Message:  "Something went wrong. Please try again.",
}

// Error attaches a classification to the underlying provider failure so the
// transport layer can pick the right status without inspecting provider text.
type Error struct {
	Result Result
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Result.Category, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// statusCoder is implemented by errors that carry an upstream HTTP status.
type statusCoder interface {
	StatusCode() int
}

// Classifier evaluates the ordered rule table.
type Classifier struct {
	query rego.PreparedEvalQuery
}

// New creates a classifier with the default rule table.
func New(ctx context.Context) (*Classifier, error) {
	return NewWithRules(ctx, DefaultRules)
}

// NewWithRules creates a classifier from the given rego rule document.
func NewWithRules(ctx context.Context, rules string) (*Classifier, error) {
	r := rego.New(
		rego.Query("data.llm_errors.decision"),
		rego.Module("llm_errors.rego", rules),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Classifier{query: query}, nil
}

// Classify maps a provider failure to a Result. It is total: any error,
// including a nil one or a rego evaluation failure, yields a usable Result.
func (c *Classifier) Classify(ctx context.Context, err error) Result {
	status := 0
	var sc statusCoder
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	message := ""
	if err != nil {
		message = strings.ToLower(err.Error())
	}

	input := map[string]interface{}{
		"message": message,
		"status":  status,
	}

	results, evalErr := c.query.Eval(ctx, rego.EvalInput(input))
	if evalErr != nil || len(results) == 0 || len(results[0].Expressions) == 0 {
		return internalResult
	}

	decision, ok := results[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return internalResult
	}
	return resultFromDecision(decision)
}

func resultFromDecision(decision map[string]interface{}) Result {
	out := internalResult
	if v, ok := decision["category"].(string); ok {
		out.Category = Category(v)
	}
	if v, ok := decision["message"].(string); ok {
		out.Message = v
	}
	switch v := decision["status"].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			out.Status = int(n)
		}
	case float64:
		out.Status = int(v)
	case int64:
		out.Status = int(v)
	}
	return out
}
