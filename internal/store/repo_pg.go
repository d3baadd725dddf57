package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Ferpoks/telegram-cv-bot/internal/resume"
)

// PGRepo is the Postgres-backed Repo.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) EnsureUser(ctx context.Context, userID int64, lang resume.Lang) error {
	const query = `
INSERT INTO users (user_id, lang)
VALUES ($1, $2)
ON CONFLICT (user_id) DO NOTHING`
	_, err := r.DB.ExecContext(ctx, query, userID, string(lang))
	return err
}

func (r *PGRepo) IsVIP(ctx context.Context, userID int64) (bool, error) {
	const query = `SELECT vip FROM users WHERE user_id = $1`
	var vip bool
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&vip)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return vip, nil
}

func (r *PGRepo) SetVIP(ctx context.Context, userID int64, vip bool) error {
	const query = `
INSERT INTO users (user_id, vip)
VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE SET vip = EXCLUDED.vip`
	_, err := r.DB.ExecContext(ctx, query, userID, vip)
	return err
}

func (r *PGRepo) CreateProfile(ctx context.Context, userID int64, lang resume.Lang, template string) (int64, error) {
	const query = `
INSERT INTO cv_profile (user_id, lang, template)
VALUES ($1, $2, $3)
RETURNING id`
	var id int64
	if err := r.DB.QueryRowContext(ctx, query, userID, string(lang), template).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PGRepo) UpdateHeader(ctx context.Context, profileID int64, h resume.Header) error {
	const query = `
UPDATE cv_profile SET
  full_name = $1, title = $2, phone = $3, email = $4,
  city = $5, links = $6, summary = $7, updated_at = now()
WHERE id = $8`
	res, err := r.DB.ExecContext(ctx, query,
		h.FullName, h.Title, h.Phone, h.Email, h.City, h.Links, h.Summary, profileID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) SetTemplate(ctx context.Context, profileID int64, template string) error {
	const query = `UPDATE cv_profile SET template = $1, updated_at = now() WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, template, profileID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) AppendExperience(ctx context.Context, profileID int64, exp resume.Experience) error {
	bullets, err := json.Marshal(exp.Bullets)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO cv_experience (profile_id, company, role, start_date, end_date, bullets)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.DB.ExecContext(ctx, query, profileID, exp.Company, exp.Role, exp.Start, exp.End, bullets)
	return err
}

func (r *PGRepo) AppendEducation(ctx context.Context, profileID int64, edu resume.Education) error {
	const query = `
INSERT INTO cv_education (profile_id, degree, major, school, year)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query, profileID, edu.Degree, edu.Major, edu.School, edu.Year)
	return err
}

func (r *PGRepo) ReplaceSkills(ctx context.Context, profileID int64, skills string) error {
	const query = `
INSERT INTO cv_skills (profile_id, skills)
VALUES ($1, $2)
ON CONFLICT (profile_id) DO UPDATE SET skills = EXCLUDED.skills`
	_, err := r.DB.ExecContext(ctx, query, profileID, skills)
	return err
}

func (r *PGRepo) FetchFull(ctx context.Context, profileID int64) (resume.Record, error) {
	const profileQuery = `
SELECT id, user_id, lang, template, full_name, title, phone, email, city, links, summary
FROM cv_profile
WHERE id = $1
LIMIT 1`
	var rec resume.Record
	var lang string
	err := r.DB.QueryRowContext(ctx, profileQuery, profileID).Scan(
		&rec.ID, &rec.UserID, &lang, &rec.Template,
		&rec.Header.FullName, &rec.Header.Title, &rec.Header.Phone, &rec.Header.Email,
		&rec.Header.City, &rec.Header.Links, &rec.Header.Summary,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return resume.Record{}, ErrNotFound
	}
	if err != nil {
		return resume.Record{}, err
	}
	rec.Lang = resume.ParseLang(lang)

	const expQuery = `
SELECT company, role, start_date, end_date, bullets
FROM cv_experience
WHERE profile_id = $1
ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, expQuery, profileID)
	if err != nil {
		return resume.Record{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var exp resume.Experience
		var bullets []byte
		if err := rows.Scan(&exp.Company, &exp.Role, &exp.Start, &exp.End, &bullets); err != nil {
			return resume.Record{}, err
		}
		if len(bullets) > 0 {
			if err := json.Unmarshal(bullets, &exp.Bullets); err != nil {
				return resume.Record{}, err
			}
		}
		rec.Experiences = append(rec.Experiences, exp)
	}
	if err := rows.Err(); err != nil {
		return resume.Record{}, err
	}

	const eduQuery = `
SELECT degree, major, school, year
FROM cv_education
WHERE profile_id = $1
ORDER BY id`
	eduRows, err := r.DB.QueryContext(ctx, eduQuery, profileID)
	if err != nil {
		return resume.Record{}, err
	}
	defer eduRows.Close()
	for eduRows.Next() {
		var edu resume.Education
		if err := eduRows.Scan(&edu.Degree, &edu.Major, &edu.School, &edu.Year); err != nil {
			return resume.Record{}, err
		}
		rec.Educations = append(rec.Educations, edu)
	}
	if err := eduRows.Err(); err != nil {
		return resume.Record{}, err
	}

	const skillsQuery = `SELECT skills FROM cv_skills WHERE profile_id = $1`
	err = r.DB.QueryRowContext(ctx, skillsQuery, profileID).Scan(&rec.Skills)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return resume.Record{}, err
	}

	return rec, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
