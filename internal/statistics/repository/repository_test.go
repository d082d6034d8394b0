package repository

import (
	"context"
	"errors"
	"testing"

	"admin-console/desktop/internal/apierror"
	"admin-console/desktop/internal/transport/transporttest"
)

var _ Repository = (*HTTPRepository)(nil)

func TestHTTPRepository_Overview(t *testing.T) {
	fake := transporttest.New().Respond("GET", "/statistics/overview",
		`{"totalUsers":12,"activeUsers":9,"totalWorkspaces":3,"openIncidents":1,"auditEvents24h":240}`)
	o, err := NewHTTPRepository(fake).Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if o.TotalUsers != 12 || o.ActiveUsers != 9 || o.TotalWorkspaces != 3 || o.OpenIncidents != 1 || o.AuditEvents24h != 240 {
		t.Errorf("overview = %+v", o)
	}
}

func TestHTTPRepository_OverviewError(t *testing.T) {
	want := &apierror.Error{Code: apierror.CodeServer, Message: "boom", Status: 500}
	fake := transporttest.New().Fail("GET", "/statistics/overview", want)
	_, err := NewHTTPRepository(fake).Overview(context.Background())
	if !errors.Is(err, want) {
		t.Errorf("err = %v, want %v", err, want)
	}
}
