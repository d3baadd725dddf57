package entitlement

import (
	"context"
	"time"
)

const dayLayout = "2006-01-02"

// OnceStore persists the lifetime "used" flag.
type OnceStore interface {
	Used(ctx context.Context, userID int64) (bool, error)
	MarkUsed(ctx context.Context, userID int64) error
}

// QuotaStore persists the daily counter keyed by calendar date. A stored date
// different from the requested one counts as zero usage.
type QuotaStore interface {
	UsedOn(ctx context.Context, userID int64, day string) (int, error)
	IncrementOn(ctx context.Context, userID int64, day string) error
}

// LifetimeOnce allows exactly one free export, forever.
type LifetimeOnce struct {
	Store OnceStore
}

func (p *LifetimeOnce) Allowed(ctx context.Context, userID int64) (bool, error) {
	used, err := p.Store.Used(ctx, userID)
	if err != nil {
		return false, err
	}
	return !used, nil
}

func (p *LifetimeOnce) Record(ctx context.Context, userID int64) error {
	return p.Store.MarkUsed(ctx, userID)
}

// DailyQuota allows up to Limit free exports per calendar date.
type DailyQuota struct {
	Store QuotaStore
	Limit int
	Now   func() time.Time
}

func (p *DailyQuota) today() string {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return now().UTC().Format(dayLayout)
}

func (p *DailyQuota) Allowed(ctx context.Context, userID int64) (bool, error) {
	used, err := p.Store.UsedOn(ctx, userID, p.today())
	if err != nil {
		return false, err
	}
	return used < p.Limit, nil
}

func (p *DailyQuota) Record(ctx context.Context, userID int64) error {
	return p.Store.IncrementOn(ctx, userID, p.today())
}
