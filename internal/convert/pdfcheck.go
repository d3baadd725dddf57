package convert

import (
	"bytes"
	"errors"

	"github.com/ledongthuc/pdf"
)

// validatePDF rejects responses that claim to be PDF but don't parse or have
// no pages. The fallback chain treats such artifacts as a service rejection.
func validatePDF(data []byte) error {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return err
	}
	if reader.NumPage() < 1 {
		return errors.New("pdf has no pages")
	}
	return nil
}
