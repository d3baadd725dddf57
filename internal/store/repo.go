package store

import (
	"context"

	"github.com/Ferpoks/telegram-cv-bot/internal/resume"
)

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "record not found" }

// Repo is the persistence surface for users and resume records.
//
// Experience and education are append-only rows: a failed append never rolls
// back previously appended ones. Skills are a full replace.
type Repo interface {
	EnsureUser(ctx context.Context, userID int64, lang resume.Lang) error
	IsVIP(ctx context.Context, userID int64) (bool, error)
	SetVIP(ctx context.Context, userID int64, vip bool) error

	CreateProfile(ctx context.Context, userID int64, lang resume.Lang, template string) (int64, error)
	UpdateHeader(ctx context.Context, profileID int64, h resume.Header) error
	SetTemplate(ctx context.Context, profileID int64, template string) error
	AppendExperience(ctx context.Context, profileID int64, exp resume.Experience) error
	AppendEducation(ctx context.Context, profileID int64, edu resume.Education) error
	ReplaceSkills(ctx context.Context, profileID int64, skills string) error
	FetchFull(ctx context.Context, profileID int64) (resume.Record, error)
}
