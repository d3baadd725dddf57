package render

import (
	"fmt"
	"html"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Ferpoks/telegram-cv-bot/internal/resume"
	"github.com/Ferpoks/telegram-cv-bot/internal/shared/telemetry"
)

// MarkupData is the merge context handed to HTML template assets.
type MarkupData struct {
	FullName    string
	Title       string
	Phone       string
	Email       string
	City        string
	Links       string
	Summary     string
	Skills      string
	SkillsList  []string
	Experiences []resume.Experience
	Educations  []resume.Education
	Labels      Labels
	RTL         bool
}

func markupData(rec resume.Record) MarkupData {
	exps := make([]resume.Experience, 0, len(rec.Experiences))
	for _, exp := range rec.Experiences {
		if len(exp.Bullets) > resume.MaxRenderedBullets {
			exp.Bullets = exp.Bullets[:resume.MaxRenderedBullets]
		}
		exps = append(exps, exp)
	}
	return MarkupData{
		FullName:    rec.Header.FullName,
		Title:       rec.Header.Title,
		Phone:       rec.Header.Phone,
		Email:       rec.Header.Email,
		City:        rec.Header.City,
		Links:       rec.Header.Links,
		Summary:     rec.Header.Summary,
		Skills:      rec.Skills,
		SkillsList:  resume.SplitSkills(rec.Skills),
		Experiences: exps,
		Educations:  rec.Educations,
		Labels:      LabelsFor(rec.Lang),
		RTL:         rec.Lang == resume.LangArabic,
	}
}

// RenderMarkup merges the record into the resolved markup template and
// inlines local stylesheet references so the output is self-contained.
// Template errors degrade to the built-in minimal markup rather than failing.
func RenderMarkup(rec resume.Record, resolved Resolved) string {
	data := markupData(rec)
	if resolved.BuiltIn {
		return builtinMarkup(data)
	}

	src, err := os.ReadFile(resolved.Path)
	if err != nil {
		telemetry.Warn("markup template read failed", map[string]any{"path": resolved.Path, "err": err.Error()})
		return builtinMarkup(data)
	}
	tpl, err := template.New(filepath.Base(resolved.Path)).Parse(string(src))
	if err != nil {
		telemetry.Warn("markup template parse failed", map[string]any{"path": resolved.Path, "err": err.Error()})
		return builtinMarkup(data)
	}
	var out strings.Builder
	if err := tpl.Execute(&out, data); err != nil {
		telemetry.Warn("markup template execute failed", map[string]any{"path": resolved.Path, "err": err.Error()})
		return builtinMarkup(data)
	}
	return inlineLocalCSS(out.String(), filepath.Dir(resolved.Path))
}

func builtinMarkup(data MarkupData) string {
	dir := "ltr"
	if data.RTL {
		dir = "rtl"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<!doctype html><html dir=%q><meta charset=\"utf-8\">\n", dir)
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(data.FullName))
	fmt.Fprintf(&b, "<h1 style=\"font-family:Arial\">%s — %s</h1>\n",
		html.EscapeString(data.FullName), html.EscapeString(data.Title))
	for _, field := range []string{data.Phone, data.Email, data.City} {
		if field != "" {
			fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(field))
		}
	}
	b.WriteString("</html>")
	return b.String()
}

var cssLinkPattern = regexp.MustCompile(`(?i)<link\s+[^>]*href=["']([^"']+\.css)["'][^>]*>`)

// inlineLocalCSS replaces stylesheet links with the referenced file's content
// so the downstream conversion service needs no asset fetches. Unreadable
// references are left untouched.
func inlineLocalCSS(markup, baseDir string) string {
	return cssLinkPattern.ReplaceAllStringFunc(markup, func(match string) string {
		groups := cssLinkPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		css, err := os.ReadFile(filepath.Join(baseDir, groups[1]))
		if err != nil {
			return match
		}
		return "<style>\n" + string(css) + "\n</style>"
	})
}
