// AngelaMos | 2026
// pins.go

package client

import (
	"context"
	"fmt"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/core"
)

// PinIndex answers whether a PIN is already in use by another client.
type PinIndex interface {
	Taken(ctx context.Context, pin, excludeID string) (bool, error)
}

// ScanPinIndex compares the PIN against every stored hash. PINs are salted,
// so there is no key to look them up by; cost grows linearly with clients.
type ScanPinIndex struct {
	repo Repository
}

func NewScanPinIndex(repo Repository) *ScanPinIndex {
	return &ScanPinIndex{repo: repo}
}

func (x *ScanPinIndex) Taken(ctx context.Context, pin, excludeID string) (bool, error) {
	hashes, err := x.repo.ListPinHashes(ctx, excludeID)
	if err != nil {
		return false, err
	}

	for _, h := range hashes {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		match, err := core.VerifyPassword(pin, h.PinHash)
		if err != nil {
			return false, fmt.Errorf("compare pin for client %s: %w", h.ID, err)
		}
		if match {
			return true, nil
		}
	}

	return false, nil
}
