package fetcher

import "context"

// ContentFetcher is the narrow boundary to the document store collaborator.
// The sync engine depends on this interface, never on a concrete client.
type ContentFetcher interface {
	// GetFile returns the raw content of path at the given revision.
	GetFile(ctx context.Context, path string, revision string) ([]byte, error)
	// ListFiles enumerates all file paths at the given revision.
	ListFiles(ctx context.Context, revision string) ([]string, error)
	// SourceURL returns a human-facing link for a path at a revision.
	SourceURL(path string, revision string) string
}
