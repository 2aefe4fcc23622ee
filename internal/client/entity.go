// AngelaMos | 2026
// entity.go

package client

import (
	"time"
)

type Client struct {
	ID        string    `db:"id"`
	Username  string    `db:"username"`
	PinHash   string    `db:"pin_hash"`
	IsBlocked bool      `db:"is_blocked"`
	CreatedAt time.Time `db:"created_at"`
}

type PinHash struct {
	ID      string `db:"id"`
	PinHash string `db:"pin_hash"`
}
