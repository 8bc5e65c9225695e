package normalize

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	// Extraction budget: caps memory use on hostile or degenerate documents.
	maxPages     = 30
	maxTextBytes = 256 << 10
)

// ErrUnsupportedFormat rejects any document that is not PDF or DOCX.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ErrParseFailure marks extraction failures; the concrete cause is wrapped.
var ErrParseFailure = errors.New("document parse failure")

// ParseError carries the underlying extraction failure.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string { return fmt.Sprintf("document parse failure: %v", e.Cause) }
func (e *ParseError) Unwrap() error { return ErrParseFailure }

// extractedText is the bounded plain-text form of a document.
type extractedText struct {
	Text      string
	Truncated bool
}

// extractText pulls plain text from an in-memory payload.
// Libraries used: github.com/ledongthuc/pdf (PDF); DOCX is read as its zip container.
func extractText(ctx context.Context, data []byte, mimeType string, fileName string) (extractedText, error) {
	if err := ctx.Err(); err != nil {
		return extractedText{}, err
	}
	normalized := normalizeMimeType(mimeType, fileName, data)
	switch normalized {
	case mimePDF:
		return extractPDF(data)
	case mimeDOCX:
		return extractDOCX(data)
	default:
		return extractedText{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, normalized)
	}
}

func extractPDF(data []byte) (extractedText, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return extractedText{}, &ParseError{Cause: err}
	}

	truncated := false
	pages := pdfReader.NumPage()
	if pages > maxPages {
		pages = maxPages
		truncated = true
	}

	var buf strings.Builder
	for i := 1; i <= pages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return extractedText{}, &ParseError{Cause: err}
		}
		buf.WriteString(text)
		buf.WriteString("\n")
		if buf.Len() > maxTextBytes {
			truncated = true
			break
		}
	}

	text, clipped := clipText(buf.String())
	return extractedText{Text: text, Truncated: truncated || clipped}, nil
}

func extractDOCX(data []byte) (extractedText, error) {
	if len(data) == 0 {
		return extractedText{}, &ParseError{Cause: errors.New("empty docx data")}
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return extractedText{}, &ParseError{Cause: err}
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return extractedText{}, &ParseError{Cause: errors.New("document.xml file not found")}
	}

	rc, err := docFile.Open()
	if err != nil {
		return extractedText{}, &ParseError{Cause: err}
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, 4*maxTextBytes))
	if err != nil {
		return extractedText{}, &ParseError{Cause: err}
	}

	text, clipped := clipText(stripDocxXML(string(raw)))
	return extractedText{Text: text, Truncated: clipped}, nil
}

func clipText(text string) (string, bool) {
	if len(text) <= maxTextBytes {
		return text, false
	}
	clipped := text[:maxTextBytes]
	// Back off to a rune boundary.
	for len(clipped) > 0 && clipped[len(clipped)-1] >= 0x80 && clipped[len(clipped)-1] < 0xC0 {
		clipped = clipped[:len(clipped)-1]
	}
	return clipped, true
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if last := buf.Len(); last > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// normalizeMimeType resolves the effective document type. Browsers send
// DOCX as application/zip or omit the Content-Type entirely, so generic
// and missing declarations fall back to content sniffing.
func normalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case "", "application/zip", "application/octet-stream":
	default:
		return clean
	}

	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return mimePDF
	}
	if mapped := mapOOXMLFromZip(data); mapped != "" {
		return mapped
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".docx":
		return mimeDOCX
	case ".pdf":
		return mimePDF
	}
	return clean
}

func mapOOXMLFromZip(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			return mimeDOCX
		}
	}
	return ""
}

// SupportedMimeType reports whether a payload would be accepted by Normalize.
// Upload validation and the normalizer share this single gate.
func SupportedMimeType(mimeType string, fileName string, data []byte) bool {
	switch normalizeMimeType(mimeType, fileName, data) {
	case mimePDF, mimeDOCX:
		return true
	default:
		return false
	}
}
