package render

import "github.com/Ferpoks/telegram-cv-bot/internal/resume"

// Labels are the section headings for one language variant.
type Labels struct {
	Contact    string
	Education  string
	Skills     string
	Summary    string
	Experience string
}

var labelSets = map[resume.Lang]Labels{
	resume.LangArabic: {
		Contact:    "التواصل",
		Education:  "التعليم",
		Skills:     "المهارات",
		Summary:    "الملخص",
		Experience: "الخبرات",
	},
	resume.LangEnglish: {
		Contact:    "Contact",
		Education:  "Education",
		Skills:     "Skills",
		Summary:    "Summary",
		Experience: "Work Experience",
	},
}

// LabelsFor returns the heading set for lang.
func LabelsFor(lang resume.Lang) Labels {
	if l, ok := labelSets[lang]; ok {
		return l
	}
	return labelSets[resume.LangArabic]
}
