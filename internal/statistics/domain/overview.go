package domain

// Overview holds the dashboard counters.
type Overview struct {
	TotalUsers      int `json:"totalUsers"`
	ActiveUsers     int `json:"activeUsers"`
	TotalWorkspaces int `json:"totalWorkspaces"`
	OpenIncidents   int `json:"openIncidents"`
	AuditEvents24h  int `json:"auditEvents24h"`
}
