// AngelaMos | 2026
// entity.go

package project

import (
	"time"
)

const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusDelayed    = "DELAYED"
	StatusCompleted  = "COMPLETED"
)

type Project struct {
	ID             string    `db:"id"`
	Title          string    `db:"title"`
	Description    *string   `db:"description"`
	Status         string    `db:"status"`
	ClientID       string    `db:"client_id"`
	ClientUsername string    `db:"client_username"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}
