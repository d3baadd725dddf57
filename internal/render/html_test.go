package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Ferpoks/telegram-cv-bot/internal/resume"
)

func sampleRecord() resume.Record {
	return resume.Record{
		ID:       1,
		Lang:     resume.LangEnglish,
		Template: "Navy",
		Header: resume.Header{
			FullName: "Sara Ali",
			Title:    "Data Analyst",
			Phone:    "0500000000",
			Email:    "sara@example.com",
			City:     "Riyadh",
			Summary:  "3 years in analytics.",
		},
		Experiences: []resume.Experience{{
			Company: "Acme",
			Role:    "Analyst",
			Start:   "01/2023",
			End:     "Present",
			Bullets: []string{"b1", "b2", "b3", "b4", "b5", "b6", "b7", "b8"},
		}},
		Skills: "SQL, Python؛ Excel",
	}
}

func TestRenderMarkupInlinesCSS(t *testing.T) {
	dir := t.TempDir()
	htmlDir := filepath.Join(dir, "html")
	if err := os.MkdirAll(htmlDir, 0o755); err != nil {
		t.Fatal(err)
	}
	tpl := `<html><head><link rel="stylesheet" href="base.css"></head>` +
		`<body><h1>{{.FullName}}</h1><p>{{.Labels.Skills}}: {{range .SkillsList}}{{.}} {{end}}</p></body></html>`
	if err := os.WriteFile(filepath.Join(htmlDir, "Navy_en.html"), []byte(tpl), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(htmlDir, "base.css"), []byte("body{margin:0}"), 0o644); err != nil {
		t.Fatal(err)
	}

	resolved := NewResolver(dir).Resolve("Navy", resume.LangEnglish, KindMarkup)
	markup := RenderMarkup(sampleRecord(), resolved)

	if strings.Contains(markup, "<link") {
		t.Fatal("stylesheet link not inlined")
	}
	if !strings.Contains(markup, "<style>\nbody{margin:0}\n</style>") {
		t.Fatal("css content missing")
	}
	if !strings.Contains(markup, "Sara Ali") {
		t.Fatal("record fields not merged")
	}
	for _, skill := range []string{"SQL", "Python", "Excel"} {
		if !strings.Contains(markup, skill) {
			t.Fatalf("skill %q missing", skill)
		}
	}
}

func TestRenderMarkupBuiltinOmitsEmptyFields(t *testing.T) {
	rec := sampleRecord()
	rec.Header.Phone = ""
	rec.Header.City = ""
	resolved := Resolved{Template: "Ghost", Lang: rec.Lang, Kind: KindMarkup, BuiltIn: true}
	markup := RenderMarkup(rec, resolved)
	if strings.Contains(markup, "<p></p>") {
		t.Fatal("empty placeholder line emitted")
	}
	if !strings.Contains(markup, "sara@example.com") {
		t.Fatal("present field dropped")
	}
}

func TestMarkupDataCapsBullets(t *testing.T) {
	data := markupData(sampleRecord())
	if got := len(data.Experiences[0].Bullets); got != resume.MaxRenderedBullets {
		t.Fatalf("bullets rendered = %d, want %d", got, resume.MaxRenderedBullets)
	}
}
