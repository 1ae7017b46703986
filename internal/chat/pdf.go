package chat

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDF returns the plain text of every page in the PDF at path.
func ExtractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	text, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf %s: %w", path, err)
	}
	var b strings.Builder
	if _, err := io.Copy(&b, text); err != nil {
		return "", fmt.Errorf("read pdf %s: %w", path, err)
	}
	return strings.TrimSpace(b.String()), nil
}
