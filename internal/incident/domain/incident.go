package domain

import "time"

// Severity of a security incident, lowest to highest.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities; unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

// Incident is a security incident raised by the backend.
type Incident struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Severity    Severity  `json:"severity"`
	Status      string    `json:"status"`
	WorkspaceID string    `json:"workspaceId,omitempty"`
	DetectedAt  time.Time `json:"detectedAt"`
	ResolvedAt  time.Time `json:"resolvedAt,omitzero"`
}

// Open reports whether the incident has not been resolved.
func (i *Incident) Open() bool {
	return i.ResolvedAt.IsZero()
}
