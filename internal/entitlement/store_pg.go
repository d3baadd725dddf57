package entitlement

import (
	"context"
	"database/sql"
	"errors"
)

// PGOnceStore is the Postgres-backed OnceStore.
type PGOnceStore struct {
	DB *sql.DB
}

func (s *PGOnceStore) Used(ctx context.Context, userID int64) (bool, error) {
	const query = `SELECT used FROM cv_once WHERE user_id = $1`
	var used bool
	err := s.DB.QueryRowContext(ctx, query, userID).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return used, nil
}

func (s *PGOnceStore) MarkUsed(ctx context.Context, userID int64) error {
	const query = `
INSERT INTO cv_once (user_id, used)
VALUES ($1, TRUE)
ON CONFLICT (user_id) DO UPDATE SET used = TRUE`
	_, err := s.DB.ExecContext(ctx, query, userID)
	return err
}

// PGQuotaStore is the Postgres-backed QuotaStore. The upsert carries the
// date comparison so concurrent duplicate requests cannot double-grant.
type PGQuotaStore struct {
	DB *sql.DB
}

func (s *PGQuotaStore) UsedOn(ctx context.Context, userID int64, day string) (int, error) {
	const query = `
SELECT daily_used FROM cv_quota
WHERE user_id = $1 AND last_reset = $2::date`
	var used int
	err := s.DB.QueryRowContext(ctx, query, userID, day).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return used, nil
}

func (s *PGQuotaStore) IncrementOn(ctx context.Context, userID int64, day string) error {
	const query = `
INSERT INTO cv_quota (user_id, daily_used, last_reset)
VALUES ($1, 1, $2::date)
ON CONFLICT (user_id) DO UPDATE SET
  daily_used = CASE WHEN cv_quota.last_reset = EXCLUDED.last_reset THEN cv_quota.daily_used + 1 ELSE 1 END,
  last_reset = EXCLUDED.last_reset`
	_, err := s.DB.ExecContext(ctx, query, userID, day)
	return err
}
