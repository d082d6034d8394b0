package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOPAEvaluator_HealthCheck(t *testing.T) {
	e := NewOPAEvaluator(context.Background(), nil)
	if err := e.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestOPAEvaluator_DefaultPolicy(t *testing.T) {
	ctx := context.Background()
	e := NewOPAEvaluator(ctx, nil)
	if !e.Compiled() {
		t.Fatal("default policy should compile")
	}
	tests := []struct {
		in   Input
		want bool
	}{
		{Input{Role: "admin", Action: "delete", Resource: "user"}, true},
		{Input{Role: "owner", Action: "create", Resource: "role"}, true},
		{Input{Role: "member", Action: "list", Resource: "user"}, true},
		{Input{Role: "member", Action: "delete", Resource: "user"}, false},
		{Input{Role: "member", Action: "update", Resource: "workspace"}, false},
		{Input{Role: "member", Action: "create", Resource: "security_incident"}, true},
		{Input{Role: "viewer", Action: "get", Resource: "audit_log"}, true},
		{Input{Role: "viewer", Action: "create", Resource: "security_incident"}, false},
		{Input{Role: "auditor", Action: "delete", Resource: "user"}, true},
	}
	for _, tt := range tests {
		got, err := e.Evaluate(ctx, tt.in)
		if err != nil {
			t.Fatalf("Evaluate(%+v): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Evaluate(%+v) = %v, want %v", tt.in, got, tt.want)
		}
		if e.Allow(ctx, tt.in.Role, tt.in.Action, tt.in.Resource) != tt.want {
			t.Errorf("Allow(%+v) disagrees with Evaluate", tt.in)
		}
	}
}

func TestOPAEvaluator_CustomPolicy(t *testing.T) {
	ctx := context.Background()
	e := NewOPAEvaluator(ctx, map[string]string{"custom.rego": `package console.route_guard

default allow := false

allow if input.role == "admin"
`})
	if ok, _ := e.Evaluate(ctx, Input{Role: "member", Action: "list", Resource: "user"}); ok {
		t.Error("custom policy should deny members")
	}
	if ok, _ := e.Evaluate(ctx, Input{Role: "admin", Action: "delete", Resource: "user"}); !ok {
		t.Error("custom policy should allow admins")
	}
}

func TestOPAEvaluator_CompileFailureAllows(t *testing.T) {
	ctx := context.Background()
	e := NewOPAEvaluator(ctx, map[string]string{"broken.rego": "package console.route_guard\nallow if {"})
	if e.Compiled() {
		t.Fatal("broken policy should not compile")
	}
	ok, err := e.Evaluate(ctx, Input{Role: "viewer", Action: "delete", Resource: "user"})
	if err != nil || !ok {
		t.Errorf("Evaluate = %v, %v; want allow", ok, err)
	}
}

func TestLoadModules(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.rego"), []byte(defaultRegoPolicy), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600); err != nil {
		t.Fatal(err)
	}
	mods, err := LoadModules(dir)
	if err != nil {
		t.Fatalf("LoadModules: %v", err)
	}
	if len(mods) != 1 || mods["a.rego"] == "" {
		t.Errorf("modules = %v", mods)
	}
	if mods, err := LoadModules(""); err != nil || mods != nil {
		t.Errorf("LoadModules(\"\") = %v, %v", mods, err)
	}
}
