package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Ferpoks/telegram-cv-bot/internal/resume"
)

// Kind selects the target output representation of a template.
type Kind string

const (
	// KindMarkup resolves an HTML template for remote conversion.
	KindMarkup Kind = "markup"
	// KindDocument resolves a DOCX merge template for native rendering.
	KindDocument Kind = "document"
)

// Catalog is the fixed template catalog offered to users.
var Catalog = []string{"Navy", "Modern", "ATS", "Minimal", "Elegant"}

// CatalogNames maps template ids to display names per language.
var CatalogNames = map[resume.Lang]map[string]string{
	resume.LangArabic: {
		"Navy":    "احترافي (شريط جانبي أزرق)",
		"Modern":  "حديث",
		"ATS":     "مطابق ATS",
		"Minimal": "بسيط",
		"Elegant": "أنيق",
	},
	resume.LangEnglish: {
		"Navy":    "Professional (Navy Sidebar)",
		"Modern":  "Modern",
		"ATS":     "ATS",
		"Minimal": "Minimal",
		"Elegant": "Elegant",
	},
}

// InCatalog reports whether id is a known template.
func InCatalog(id string) bool {
	for _, t := range Catalog {
		if t == id {
			return true
		}
	}
	return false
}

// Resolved is the outcome of template resolution. When BuiltIn is set the
// renderer uses its programmatic default instead of an asset file.
type Resolved struct {
	Template string
	Lang     resume.Lang
	Kind     Kind
	Path     string
	BuiltIn  bool
}

// Resolver locates template assets under a base directory by the
// `{Template}_{lang}.{ext}` convention. Resolution never fails: a missing
// asset degrades to a built-in default.
type Resolver struct {
	assetsDir string
}

func NewResolver(assetsDir string) *Resolver {
	return &Resolver{assetsDir: assetsDir}
}

func (r *Resolver) Resolve(template string, lang resume.Lang, kind Kind) Resolved {
	resolved := Resolved{Template: template, Lang: lang, Kind: kind}

	var path string
	switch kind {
	case KindDocument:
		path = filepath.Join(r.assetsDir, "templates", fmt.Sprintf("%s_%s.docx", template, lang))
	default:
		path = filepath.Join(r.assetsDir, "html", fmt.Sprintf("%s_%s.html", template, lang))
	}

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		resolved.Path = path
		return resolved
	}
	resolved.BuiltIn = true
	return resolved
}
