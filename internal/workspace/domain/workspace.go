package domain

import (
	"errors"
	"strings"
	"time"
)

// Workspace is a tenant the console administers.
type Workspace struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Status      WorkspaceStatus `json:"status,omitempty"`
	CreatedAt   time.Time       `json:"createdAt,omitzero"`
}

type WorkspaceStatus string

const (
	WorkspaceStatusActive    WorkspaceStatus = "active"
	WorkspaceStatusSuspended WorkspaceStatus = "suspended"
)

// Validate validates the workspace before it is sent. Returns an error describing the first validation failure.
func (w *Workspace) Validate() error {
	w.Name = strings.TrimSpace(w.Name)
	if w.Name == "" {
		return errors.New("name is required")
	}
	switch w.Status {
	case "":
		w.Status = WorkspaceStatusActive
	case WorkspaceStatusActive, WorkspaceStatusSuspended:
	default:
		return errors.New("status must be active or suspended")
	}
	return nil
}
