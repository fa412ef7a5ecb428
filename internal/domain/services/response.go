package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// stripCodeFence removes a surrounding ```json ... ``` block some models add
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

type outlineItem struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
}

type contentItem struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

var errEmptyOutline = errors.New("model returned no slide topics")

func decodeOutline(raw string) ([]outlineItem, error) {
	var items []outlineItem
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &items); err != nil {
		return nil, fmt.Errorf("decoding outline: %w", err)
	}
	if len(items) == 0 {
		return nil, errEmptyOutline
	}
	for i, item := range items {
		if item.Title == nil || strings.TrimSpace(*item.Title) == "" {
			return nil, fmt.Errorf("outline entry %d has no title", i+1)
		}
	}
	return items, nil
}

func decodeContent(raw string) (contentItem, error) {
	var item contentItem
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &item); err != nil {
		return item, fmt.Errorf("decoding slide content: %w", err)
	}
	if item.Title == nil || item.Content == nil {
		return item, errors.New("slide content is missing title or content")
	}
	return item, nil
}
