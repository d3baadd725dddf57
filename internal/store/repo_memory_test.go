package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/Ferpoks/telegram-cv-bot/internal/resume"
)

func TestMemoryRepoHeaderRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	if err := repo.EnsureUser(ctx, 42, resume.LangEnglish); err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}
	pid, err := repo.CreateProfile(ctx, 42, resume.LangEnglish, "Navy")
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	header := resume.Header{
		FullName: "Sara Ali",
		Title:    "Data Analyst",
		Phone:    "0500000000",
		Email:    "sara@example.com",
		City:     "Riyadh",
		Links:    "-",
		Summary:  "3 years in analytics.",
	}
	if err := repo.UpdateHeader(ctx, pid, header); err != nil {
		t.Fatalf("UpdateHeader: %v", err)
	}

	rec, err := repo.FetchFull(ctx, pid)
	if err != nil {
		t.Fatalf("FetchFull: %v", err)
	}
	if rec.Header != header {
		t.Fatalf("header = %+v, want %+v", rec.Header, header)
	}
	if rec.Lang != resume.LangEnglish || rec.Template != "Navy" {
		t.Fatalf("lang/template = %s/%s", rec.Lang, rec.Template)
	}
	if len(rec.Experiences) != 0 || len(rec.Educations) != 0 || rec.Skills != "" {
		t.Fatalf("fresh record not empty: %+v", rec)
	}
}

func TestMemoryRepoAppendOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	pid, err := repo.CreateProfile(ctx, 7, resume.LangArabic, "Modern")
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	const n = 5
	for i := 0; i < n; i++ {
		exp := resume.Experience{Role: fmt.Sprintf("role-%d", i), Company: fmt.Sprintf("co-%d", i)}
		if err := repo.AppendExperience(ctx, pid, exp); err != nil {
			t.Fatalf("AppendExperience %d: %v", i, err)
		}
		// Interleave education rows; they must not disturb experience order.
		if err := repo.AppendEducation(ctx, pid, resume.Education{Degree: fmt.Sprintf("deg-%d", i)}); err != nil {
			t.Fatalf("AppendEducation %d: %v", i, err)
		}
	}

	rec, err := repo.FetchFull(ctx, pid)
	if err != nil {
		t.Fatalf("FetchFull: %v", err)
	}
	if len(rec.Experiences) != n {
		t.Fatalf("experience count = %d, want %d", len(rec.Experiences), n)
	}
	for i, exp := range rec.Experiences {
		if exp.Role != fmt.Sprintf("role-%d", i) {
			t.Fatalf("experience %d out of order: %+v", i, exp)
		}
	}
}

func TestMemoryRepoNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	if _, err := repo.FetchFull(ctx, 99); err != ErrNotFound {
		t.Fatalf("FetchFull err = %v, want ErrNotFound", err)
	}
	if err := repo.UpdateHeader(ctx, 99, resume.Header{}); err != ErrNotFound {
		t.Fatalf("UpdateHeader err = %v, want ErrNotFound", err)
	}
}
