package render

import (
	"fmt"

	"github.com/Ferpoks/telegram-cv-bot/internal/resume"
)

// CoverLetter builds a fixed-form application letter from the record header.
func CoverLetter(rec resume.Record) string {
	h := rec.Header
	if rec.Lang == resume.LangArabic {
		return fmt.Sprintf(
			"السادة المحترمون،\n\n"+
				"أتقدم لوظيفة %s ولدي خبرات ذات صلة.\n"+
				"أرفقت سيرتي الذاتية وأتطلع لفرصة مقابلة.\n\n"+
				"تحياتي،\n%s\n%s • %s",
			h.Title, h.FullName, h.Phone, h.Email)
	}
	return fmt.Sprintf(
		"Dear Hiring Team,\n\nI am applying for the %s role. "+
			"Please find my resume attached. I would welcome the opportunity to discuss my fit.\n\n"+
			"Kind regards,\n%s\n%s • %s",
		h.Title, h.FullName, h.Phone, h.Email)
}
