// Package textinput turns uploaded .txt and .md files into plain topic text.
package textinput

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

// MaxUploadSize bounds the accepted file size
const MaxUploadSize = 1 << 20

var (
	// ErrUnsupportedFile is returned for extensions other than .txt and .md
	ErrUnsupportedFile = errors.New("only .txt and .md files are supported")

	// ErrEmptyFile is returned when nothing readable remains after extraction
	ErrEmptyFile = errors.New("file contains no text")
)

// Extractor implements ports.TopicExtractor
type Extractor struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewExtractor creates a new extractor
func NewExtractor() *Extractor {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
	)
	return &Extractor{
		md:     md,
		policy: bluemonday.StrictPolicy(),
	}
}

// Supports reports whether filename has an accepted extension
func (e *Extractor) Supports(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md", ".markdown":
		return true
	}
	return false
}

// Extract converts content named filename into plain text
func (e *Extractor) Extract(ctx context.Context, filename string, content []byte) (string, error) {
	if !e.Supports(filename) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(filename))
	}
	if len(content) > MaxUploadSize {
		return "", fmt.Errorf("file is larger than %d bytes", MaxUploadSize)
	}
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(content) {
		return "", errors.New("file is not valid UTF-8 text")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var text string
	if strings.ToLower(filepath.Ext(filename)) == ".txt" {
		text = e.Sanitize(string(content))
	} else {
		var err error
		if text, err = e.markdownText(content); err != nil {
			return "", err
		}
	}

	if text == "" {
		return "", ErrEmptyFile
	}
	return text, nil
}

// Sanitize strips markup from s and normalizes whitespace, keeping line breaks
func (e *Extractor) Sanitize(s string) string {
	return normalize(html.UnescapeString(e.policy.Sanitize(s)))
}

func (e *Extractor) markdownText(content []byte) (string, error) {
	frontmatter, body := extractFrontmatter(content)

	var buf bytes.Buffer
	if err := e.md.Convert(body, &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	text := e.Sanitize(buf.String())
	if title, ok := frontmatter["title"].(string); ok && strings.TrimSpace(title) != "" {
		text = strings.TrimSpace(strings.TrimSpace(title) + "\n" + text)
	}
	return text, nil
}

// extractFrontmatter splits a leading YAML block from markdown content
func extractFrontmatter(content []byte) (map[string]interface{}, []byte) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(content, []byte("---\n")) {
		return nil, content
	}

	lines := bytes.Split(content, []byte("\n"))
	endIndex := -1
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			endIndex = i
			break
		}
	}
	if endIndex == -1 {
		return nil, content
	}

	var frontmatter map[string]interface{}
	if err := yaml.Unmarshal(bytes.Join(lines[1:endIndex], []byte("\n")), &frontmatter); err != nil {
		return nil, content
	}

	return frontmatter, bytes.Join(lines[endIndex+1:], []byte("\n"))
}

// normalize trims each line, collapses runs of blank lines and trims the result
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

var _ ports.TopicExtractor = (*Extractor)(nil)
