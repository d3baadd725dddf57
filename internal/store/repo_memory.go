package store

import (
	"context"
	"sync"
	"time"

	"github.com/Ferpoks/telegram-cv-bot/internal/resume"
)

type memUser struct {
	lang      resume.Lang
	vip       bool
	createdAt time.Time
}

type memProfile struct {
	record resume.Record
}

// MemoryRepo is an in-memory Repo used when DATABASE_URL is unset.
type MemoryRepo struct {
	mu       sync.RWMutex
	users    map[int64]*memUser
	profiles map[int64]*memProfile
	nextID   int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users:    make(map[int64]*memUser),
		profiles: make(map[int64]*memProfile),
		nextID:   1,
	}
}

func (r *MemoryRepo) EnsureUser(ctx context.Context, userID int64, lang resume.Lang) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		r.users[userID] = &memUser{lang: lang, createdAt: time.Now().UTC()}
	}
	return nil
}

func (r *MemoryRepo) IsVIP(ctx context.Context, userID int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[userID]
	return ok && u.vip, nil
}

func (r *MemoryRepo) SetVIP(ctx context.Context, userID int64, vip bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		u = &memUser{lang: resume.LangArabic, createdAt: time.Now().UTC()}
		r.users[userID] = u
	}
	u.vip = vip
	return nil
}

func (r *MemoryRepo) CreateProfile(ctx context.Context, userID int64, lang resume.Lang, template string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.profiles[id] = &memProfile{record: resume.Record{
		ID:       id,
		UserID:   userID,
		Lang:     lang,
		Template: template,
	}}
	return id, nil
}

func (r *MemoryRepo) UpdateHeader(ctx context.Context, profileID int64, h resume.Header) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[profileID]
	if !ok {
		return ErrNotFound
	}
	p.record.Header = h
	return nil
}

func (r *MemoryRepo) SetTemplate(ctx context.Context, profileID int64, template string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[profileID]
	if !ok {
		return ErrNotFound
	}
	p.record.Template = template
	return nil
}

func (r *MemoryRepo) AppendExperience(ctx context.Context, profileID int64, exp resume.Experience) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[profileID]
	if !ok {
		return ErrNotFound
	}
	p.record.Experiences = append(p.record.Experiences, exp)
	return nil
}

func (r *MemoryRepo) AppendEducation(ctx context.Context, profileID int64, edu resume.Education) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[profileID]
	if !ok {
		return ErrNotFound
	}
	p.record.Educations = append(p.record.Educations, edu)
	return nil
}

func (r *MemoryRepo) ReplaceSkills(ctx context.Context, profileID int64, skills string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[profileID]
	if !ok {
		return ErrNotFound
	}
	p.record.Skills = skills
	return nil
}

func (r *MemoryRepo) FetchFull(ctx context.Context, profileID int64) (resume.Record, error) {
	if err := ctx.Err(); err != nil {
		return resume.Record{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[profileID]
	if !ok {
		return resume.Record{}, ErrNotFound
	}
	rec := p.record
	rec.Experiences = append([]resume.Experience(nil), p.record.Experiences...)
	rec.Educations = append([]resume.Education(nil), p.record.Educations...)
	return rec, nil
}
