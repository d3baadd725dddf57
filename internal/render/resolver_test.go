package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Ferpoks/telegram-cv-bot/internal/resume"
)

func TestResolveFindsAsset(t *testing.T) {
	dir := t.TempDir()
	htmlDir := filepath.Join(dir, "html")
	if err := os.MkdirAll(htmlDir, 0o755); err != nil {
		t.Fatal(err)
	}
	asset := filepath.Join(htmlDir, "Navy_en.html")
	if err := os.WriteFile(asset, []byte("<html>{{.FullName}}</html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(dir)
	resolved := r.Resolve("Navy", resume.LangEnglish, KindMarkup)
	if resolved.BuiltIn {
		t.Fatal("existing asset resolved as built-in")
	}
	if resolved.Path != asset {
		t.Fatalf("path = %q, want %q", resolved.Path, asset)
	}
}

func TestResolveFallbackTotality(t *testing.T) {
	r := NewResolver(t.TempDir())
	rec := resume.Record{
		Lang:     resume.LangEnglish,
		Template: "NoSuchTemplate",
		Header:   resume.Header{FullName: "Sara Ali", Title: "Data Analyst"},
	}
	for _, lang := range []resume.Lang{resume.LangArabic, resume.LangEnglish} {
		for _, kind := range []Kind{KindMarkup, KindDocument} {
			resolved := r.Resolve("NoSuchTemplate", lang, kind)
			if !resolved.BuiltIn {
				t.Fatalf("missing asset not resolved as built-in (%s/%s)", lang, kind)
			}
			rec.Lang = lang
			switch kind {
			case KindMarkup:
				if markup := RenderMarkup(rec, resolved); markup == "" {
					t.Fatalf("empty markup fallback (%s)", lang)
				}
			case KindDocument:
				out, err := RenderDocument(rec, resolved)
				if err != nil {
					t.Fatalf("RenderDocument: %v", err)
				}
				if len(out) == 0 {
					t.Fatalf("empty document fallback (%s)", lang)
				}
			}
		}
	}
}
