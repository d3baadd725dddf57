package entitlement

import (
	"context"
	"testing"
	"time"
)

type staticVIPs map[int64]bool

func (s staticVIPs) IsVIP(ctx context.Context, userID int64) (bool, error) {
	return s[userID], nil
}

func TestLifetimeOnceAllowsExactlyOnce(t *testing.T) {
	ctx := context.Background()
	gate := NewGate(&LifetimeOnce{Store: NewMemoryOnceStore()}, staticVIPs{}, 0, "")

	ok, err := gate.Allowed(ctx, 1, "")
	if err != nil || !ok {
		t.Fatalf("first Allowed = %v, %v", ok, err)
	}
	if err := gate.Record(ctx, 1, ""); err != nil {
		t.Fatalf("Record: %v", err)
	}
	for i := 0; i < 3; i++ {
		ok, err = gate.Allowed(ctx, 1, "")
		if err != nil {
			t.Fatalf("Allowed: %v", err)
		}
		if ok {
			t.Fatal("lifetime quota re-granted after use")
		}
	}
}

func TestDailyQuotaResetsOnDateChange(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	policy := &DailyQuota{
		Store: NewMemoryQuotaStore(),
		Limit: 1,
		Now:   func() time.Time { return day },
	}
	gate := NewGate(policy, staticVIPs{}, 0, "")

	ok, _ := gate.Allowed(ctx, 2, "")
	if !ok {
		t.Fatal("fresh user denied")
	}
	if err := gate.Record(ctx, 2, ""); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if ok, _ = gate.Allowed(ctx, 2, ""); ok {
		t.Fatal("second export the same day allowed")
	}

	day = day.Add(24 * time.Hour)
	if ok, _ = gate.Allowed(ctx, 2, ""); !ok {
		t.Fatal("quota did not reset on date change")
	}
}

func TestLifetimeOnceSurvivesDateChanges(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryOnceStore()
	gate := NewGate(&LifetimeOnce{Store: store}, staticVIPs{}, 0, "")
	if err := gate.Record(ctx, 3, ""); err != nil {
		t.Fatalf("Record: %v", err)
	}
	// The lifetime flag carries no date; any later check stays denied.
	if ok, _ := gate.Allowed(ctx, 3, ""); ok {
		t.Fatal("lifetime flag reset")
	}
}

func TestPrivilegedBypassNeverCharges(t *testing.T) {
	ctx := context.Background()
	once := NewMemoryOnceStore()
	quota := NewMemoryQuotaStore()
	policies := []Policy{
		&LifetimeOnce{Store: once},
		&DailyQuota{Store: quota, Limit: 1, Now: time.Now},
	}
	for _, policy := range policies {
		gate := NewGate(policy, staticVIPs{9: true}, 100, "boss")

		for i := 0; i < 5; i++ {
			for _, tc := range []struct {
				id   int64
				name string
			}{
				{9, ""},       // VIP flag
				{100, ""},     // owner id
				{5, "boss"},   // owner handle
				{5, "@other"}, // not privileged until quota used
			} {
				ok, err := gate.Allowed(ctx, tc.id, tc.name)
				if err != nil {
					t.Fatalf("Allowed(%d,%q): %v", tc.id, tc.name, err)
				}
				if tc.id != 5 && !ok {
					t.Fatalf("privileged user %d denied", tc.id)
				}
				if tc.id != 5 {
					if err := gate.Record(ctx, tc.id, tc.name); err != nil {
						t.Fatalf("Record: %v", err)
					}
				}
			}
		}
	}
	// Privileged records must not have touched the counters.
	if used, _ := once.Used(ctx, 9); used {
		t.Fatal("VIP charged on lifetime store")
	}
	if used, _ := once.Used(ctx, 100); used {
		t.Fatal("owner charged on lifetime store")
	}
}
