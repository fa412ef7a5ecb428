package ports

import "context"

// TopicExtractor turns an uploaded document into plain topic text
type TopicExtractor interface {
	// Extract converts content named filename; unsupported extensions are an error
	Extract(ctx context.Context, filename string, content []byte) (string, error)

	// Supports reports whether filename has an accepted extension
	Supports(filename string) bool
}
