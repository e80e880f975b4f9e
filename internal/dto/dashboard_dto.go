package dto

import "legalaid-intake-be/pkg/dashboard"

type DashboardResponse struct {
	Cases []dashboard.Case `json:"cases"`
}

// Push message types sent over /api/ws.
const (
	PushDashboardState = "dashboard.state"
)
