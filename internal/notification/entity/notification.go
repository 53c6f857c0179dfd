package entity

import "time"

type Type string

const (
	TypeApplicationStatus Type = "application_status"
	TypeNewJob            Type = "new_job"
	TypeSystem            Type = "system"
)

// Notification is an in-app message addressed to one user.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
