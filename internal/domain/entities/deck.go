package entities

import (
	"encoding/base64"
	"strings"
	"time"
	"unicode"
)

// PPTXContentType is the MIME type of exported decks
const PPTXContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

const filenameTopicRunes = 30

// Deck is an exported presentation. It is built whole from a snapshot of
// slide records and style and is never modified afterwards.
type Deck struct {
	ID         string        `json:"id"`
	Topic      string        `json:"topic"`
	Filename   string        `json:"filename"`
	SlideCount int           `json:"slide_count"`
	Slides     []SlideRecord `json:"slides"`
	Style      StyleConfig   `json:"style"`
	CreatedAt  time.Time     `json:"created_at"`
	Data       []byte        `json:"-"`
}

// Base64 returns the deck bytes encoded for embedding in a data URI
func (d *Deck) Base64() string {
	return base64.StdEncoding.EncodeToString(d.Data)
}

// DataURI returns a data URI suitable for a direct browser download
func (d *Deck) DataURI() string {
	return "data:" + PPTXContentType + ";base64," + d.Base64()
}

// Summary returns the listing view of the deck
func (d *Deck) Summary() DeckSummary {
	return DeckSummary{
		ID:         d.ID,
		Topic:      d.Topic,
		Filename:   d.Filename,
		SlideCount: d.SlideCount,
		Size:       len(d.Data),
		CreatedAt:  d.CreatedAt,
	}
}

// DeckSummary describes a stored deck without its payload
type DeckSummary struct {
	ID         string    `json:"id"`
	Topic      string    `json:"topic"`
	Filename   string    `json:"filename"`
	SlideCount int       `json:"slide_count"`
	Size       int       `json:"size"`
	CreatedAt  time.Time `json:"created_at"`
}

// DeckFilename derives the download name from the first 30 runes of topic.
// Whitespace and path separators become underscores.
func DeckFilename(topic string) string {
	// Trimmed first so edge whitespace never becomes leading or trailing underscores.
	runes := []rune(strings.TrimSpace(topic))
	if len(runes) > filenameTopicRunes {
		runes = runes[:filenameTopicRunes]
	}
	if len(runes) == 0 {
		return "presentation.pptx"
	}

	for i, r := range runes {
		if unicode.IsSpace(r) || r == '/' || r == '\\' {
			runes[i] = '_'
		}
	}
	return "presentation_" + string(runes) + ".pptx"
}
