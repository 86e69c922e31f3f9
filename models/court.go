package models

type CourtStatus string

const (
	CourtAvailable   CourtStatus = "available"
	CourtInUse       CourtStatus = "in_use"
	CourtMaintenance CourtStatus = "maintenance"
)

// Court is a playing surface. CurrentMatchID is a denormalized back-reference:
// it is set exactly when Status is in_use, and the referenced match's
// CourtNumber equals Number. A court in maintenance is never auto-assigned.
type Court struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Number         int         `json:"number"`
	Status         CourtStatus `json:"status"`
	CurrentMatchID *string     `json:"current_match_id,omitempty"`
}
