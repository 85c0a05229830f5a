package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ledongthuc/pdf"

	"paper-digest-be/pkg/utils"
)

// MinTextLength is the smallest extraction considered usable. Scanned PDFs
// with no text layer yield a handful of bytes at most.
const MinTextLength = 100

// ExtractText pulls the plain-text layer out of a PDF on disk.
func ExtractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	return ExtractTextFromBytes(data)
}

// ExtractTextFromBytes parses PDF content already held in memory.
func ExtractTextFromBytes(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}

	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read text stream: %w", err)
	}

	text := utils.CleanText(string(raw))
	if len(text) < MinTextLength {
		return "", fmt.Errorf("pdf produced %d characters of text, likely scanned without a text layer", len(text))
	}

	return text, nil
}
