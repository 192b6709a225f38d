package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// TextExtractorService pulls plain text out of an uploaded document. The
// ML service owns the real parsing; local extraction is the sanity check
// that rejects corrupt or empty files before they are shipped upstream,
// and the fallback for extracted text when the ML response omits it.
type TextExtractorService interface {
	ExtractText(filePath string) (string, error)
}

type textExtractorService struct{}

func NewTextExtractorService() TextExtractorService {
	return &textExtractorService{}
}

func (t *textExtractorService) ExtractText(filePath string) (string, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		return t.extractPDF(filePath)
	case ".docx":
		return t.extractDocx(filePath)
	default:
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(filePath))
	}
}

func (t *textExtractorService) extractPDF(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text content found in PDF")
	}

	return text, nil
}

func (t *textExtractorService) extractDocx(filePath string) (string, error) {
	doc, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("no text content found in docx")
	}

	return content, nil
}
