// AngelaMos | 2026
// entity.go

package admin

import (
	"time"
)

type Admin struct {
	ID                  string     `db:"id"`
	Email               string     `db:"email"`
	PasswordHash        string     `db:"password_hash"`
	ResetTokenHash      *string    `db:"reset_token_hash"`
	ResetTokenExpiresAt *time.Time `db:"reset_token_expires_at"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

// Overview is the dashboard summary shown on the admin console.
type Overview struct {
	Clients          int            `json:"clients"`
	BlockedClients   int            `json:"blockedClients"`
	Projects         int            `json:"projects"`
	ProjectsByStatus map[string]int `json:"projectsByStatus"`
	Entries          int            `json:"entries"`
}
