package domain

import (
	"net/url"
	"time"
)

// AuditLog represents an audit event recorded by the backend.
type AuditLog struct {
	ID          string            `json:"id"`
	WorkspaceID string            `json:"workspaceId,omitempty"`
	UserID      string            `json:"userId,omitempty"`
	Action      string            `json:"action"`
	Resource    string            `json:"resource"`
	IP          string            `json:"ip,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// Filter narrows an audit log listing. Zero fields are not sent.
type Filter struct {
	WorkspaceID string
	UserID      string
	Action      string
	Resource    string
	From        time.Time
	To          time.Time
}

// Values encodes f as query parameters; times are RFC 3339 in UTC.
func (f Filter) Values() url.Values {
	v := url.Values{}
	v.Set("workspaceId", f.WorkspaceID)
	v.Set("userId", f.UserID)
	v.Set("action", f.Action)
	v.Set("resource", f.Resource)
	if !f.From.IsZero() {
		v.Set("from", f.From.UTC().Format(time.RFC3339))
	}
	if !f.To.IsZero() {
		v.Set("to", f.To.UTC().Format(time.RFC3339))
	}
	return v
}
