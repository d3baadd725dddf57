// Package entitlement decides whether an export is permitted and tracks
// usage. Two interchangeable quota policies exist: a lifetime single free
// export and a rolling daily quota. VIP and owner users bypass both and are
// never charged.
package entitlement

import (
	"context"
	"strings"
)

// Policy is one quota strategy over persisted counters.
type Policy interface {
	Allowed(ctx context.Context, userID int64) (bool, error)
	Record(ctx context.Context, userID int64) error
}

// VIPChecker reports whether a user carries the persisted VIP flag.
type VIPChecker interface {
	IsVIP(ctx context.Context, userID int64) (bool, error)
}

// Gate wraps a Policy with the privileged-user bypass.
type Gate struct {
	policy        Policy
	vips          VIPChecker
	ownerID       int64
	ownerUsername string
}

func NewGate(policy Policy, vips VIPChecker, ownerID int64, ownerUsername string) *Gate {
	return &Gate{
		policy:        policy,
		vips:          vips,
		ownerID:       ownerID,
		ownerUsername: strings.TrimPrefix(ownerUsername, "@"),
	}
}

// Privileged reports whether the user bypasses quota entirely.
func (g *Gate) Privileged(ctx context.Context, userID int64, username string) (bool, error) {
	if g.ownerID != 0 && userID == g.ownerID {
		return true, nil
	}
	if g.ownerUsername != "" && username != "" && strings.EqualFold(username, g.ownerUsername) {
		return true, nil
	}
	return g.vips.IsVIP(ctx, userID)
}

// Allowed reports whether the user may export now. It is checked before any
// rendering or conversion work begins.
func (g *Gate) Allowed(ctx context.Context, userID int64, username string) (bool, error) {
	priv, err := g.Privileged(ctx, userID, username)
	if err != nil {
		return false, err
	}
	if priv {
		return true, nil
	}
	return g.policy.Allowed(ctx, userID)
}

// Record charges the user one export. Callers invoke it only after a
// successful artifact delivery; privileged users are never charged.
func (g *Gate) Record(ctx context.Context, userID int64, username string) error {
	priv, err := g.Privileged(ctx, userID, username)
	if err != nil {
		return err
	}
	if priv {
		return nil
	}
	return g.policy.Record(ctx, userID)
}
