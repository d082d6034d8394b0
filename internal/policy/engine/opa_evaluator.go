package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
)

const allowQuery = "data.console.route_guard.allow"

// Default Rego policy: viewers are read-only, members may not manage users, roles or workspaces.
// Any other role is left to the backend.
const defaultRegoPolicy = `package console.route_guard

default allow := true

write_actions := {"create", "update", "delete"}

admin_resources := {"user", "role", "workspace"}

allow := false if {
	input.role == "viewer"
	write_actions[input.action]
}

allow := false if {
	input.role == "member"
	write_actions[input.action]
	admin_resources[input.resource]
}
`

var _ Evaluator = (*OPAEvaluator)(nil)

// OPAEvaluator evaluates the route-guard policy using OPA Rego. The policy is compiled once.
// When compilation fails every request is allowed and a warning is logged.
type OPAEvaluator struct {
	query    rego.PreparedEvalQuery
	compiled bool
}

// NewOPAEvaluator compiles modules (name -> Rego source). No modules means the built-in policy.
func NewOPAEvaluator(ctx context.Context, modules map[string]string) *OPAEvaluator {
	if len(modules) == 0 {
		modules = map[string]string{"route_guard.rego": defaultRegoPolicy}
	}
	e := &OPAEvaluator{}
	compiler, err := ast.CompileModules(modules)
	if err != nil {
		slog.Warn("policy: compile failed, route guard disabled", "err", err)
		return e
	}
	pq, err := rego.New(rego.Query(allowQuery), rego.Compiler(compiler)).PrepareForEval(ctx)
	if err != nil {
		slog.Warn("policy: prepare failed, route guard disabled", "err", err)
		return e
	}
	e.query, e.compiled = pq, true
	return e
}

// LoadModules reads every *.rego file in dir. An empty dir argument returns nil.
func LoadModules(dir string) (map[string]string, error) {
	if dir == "" {
		return nil, nil
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.rego"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	modules := make(map[string]string, len(paths))
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read policy %s: %w", p, err)
		}
		modules[filepath.Base(p)] = string(b)
	}
	return modules, nil
}

// Compiled reports whether a policy is active.
func (e *OPAEvaluator) Compiled() bool { return e.compiled }

// HealthCheck verifies the in-process OPA engine can compile and evaluate the built-in policy.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	compiler, err := ast.CompileModules(map[string]string{"route_guard.rego": defaultRegoPolicy})
	if err != nil {
		return fmt.Errorf("compile default policy: %w", err)
	}
	rs, err := rego.New(
		rego.Query(allowQuery),
		rego.Compiler(compiler),
		rego.Input(Input{Role: "admin", Action: "list", Resource: "user"}),
	).Eval(ctx)
	if err != nil {
		return fmt.Errorf("eval default policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return fmt.Errorf("policy query returned no result")
	}
	return nil
}

// Evaluate runs the policy for in. An undefined result allows.
func (e *OPAEvaluator) Evaluate(ctx context.Context, in Input) (bool, error) {
	if !e.compiled {
		return true, nil
	}
	rs, err := e.query.Eval(ctx, rego.EvalInput(map[string]interface{}{
		"role":     in.Role,
		"action":   in.Action,
		"resource": in.Resource,
	}))
	if err != nil {
		return true, fmt.Errorf("eval route guard: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return true, nil
	}
	if v, ok := rs[0].Expressions[0].Value.(bool); ok {
		return v, nil
	}
	return true, nil
}

// Allow adapts Evaluate to the transport guard. Evaluation errors allow and are logged.
func (e *OPAEvaluator) Allow(ctx context.Context, role, action, resource string) bool {
	ok, err := e.Evaluate(ctx, Input{Role: role, Action: action, Resource: resource})
	if err != nil {
		slog.Warn("policy: evaluation failed, allowing", "err", err, "action", action, "resource", resource)
	}
	if !ok {
		slog.Debug("policy: request denied", "role", role, "action", action, "resource", resource)
	}
	return ok
}
