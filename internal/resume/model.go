package resume

// Lang is a resume language variant.
type Lang string

const (
	LangArabic  Lang = "ar"
	LangEnglish Lang = "en"
)

// ParseLang normalizes a raw language value, defaulting to Arabic.
func ParseLang(raw string) Lang {
	if raw == string(LangEnglish) {
		return LangEnglish
	}
	return LangArabic
}

// Header holds the fields collected by the linear header flow.
type Header struct {
	FullName string
	Title    string
	Phone    string
	Email    string
	City     string
	Links    string
	Summary  string
}

// Experience is one work entry with its achievement bullets.
type Experience struct {
	Company string
	Role    string
	Start   string
	End     string
	Bullets []string
}

// Education is one education entry.
type Education struct {
	Degree string
	Major  string
	School string
	Year   string
}

// Record is the full resume aggregate as fetched from the store.
type Record struct {
	ID          int64
	UserID      int64
	Lang        Lang
	Template    string
	Header      Header
	Experiences []Experience
	Educations  []Education
	Skills      string
}

// MaxRenderedBullets caps achievement lines per experience entry when
// rendering. Extra lines stay in storage.
const MaxRenderedBullets = 6
