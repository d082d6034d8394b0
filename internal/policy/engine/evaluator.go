package engine

import "context"

// Input is what a route-guard policy sees for one request.
type Input struct {
	Role     string `json:"role"`
	Action   string `json:"action"`
	Resource string `json:"resource"`
}

// Evaluator decides route-guard policy using OPA or other engines.
type Evaluator interface {
	// Evaluate reports whether the request described by in is allowed.
	Evaluate(ctx context.Context, in Input) (bool, error)
}
