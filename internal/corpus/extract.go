package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

// ExtractText converts a fetched corpus file into plain text. Markdown and
// plaintext pass through; pdf/docx go through the extraction libraries,
// which want a file on disk, so binary content takes a temp-file detour.
func ExtractText(path string, content []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractViaTempFile(path, content, extractPDF)
	case ".docx", ".rtf", ".odt":
		return extractViaTempFile(path, content, cat.File)
	default:
		return string(content), nil
	}
}

func extractViaTempFile(path string, content []byte, extract func(string) (string, error)) (string, error) {
	tmp, err := os.CreateTemp("", "corpus-*"+filepath.Ext(path))
	if err != nil {
		return "", fmt.Errorf("temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err = tmp.Write(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file for %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return "", err
	}

	return extract(tmpPath)
}

func extractPDF(path string) (string, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var builder strings.Builder
	numPages := f.NumPage()
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// a single broken page should not sink the document
			continue
		}
		builder.WriteString(content)
		builder.WriteString("\n\n")
	}
	return builder.String(), nil
}

// protectExtract guards against the pdf library hanging on malformed pages.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		return "", errors.New("timeout")
	}
}
