package corpus

import (
	"path"
	"strings"

	"github.com/akolanti/PolicyRAG/internal/config"
	"github.com/akolanti/PolicyRAG/internal/domain/syncModel"
)

// FilterChanges keeps only in-scope change entries: tracked extension, no
// denylisted name fragment, not under an excluded directory. Entries are
// deduplicated by path with the last status winning. Output order is the
// order of last occurrence and carries no meaning.
func FilterChanges(changes []syncModel.ChangeEntry) []syncModel.ChangeEntry {
	lastStatus := make(map[string]syncModel.ChangeStatus)
	order := make([]string, 0, len(changes))

	for _, change := range changes {
		if !InScope(change.Path) {
			continue
		}
		if _, seen := lastStatus[change.Path]; !seen {
			order = append(order, change.Path)
		}
		lastStatus[change.Path] = change.Status
	}

	result := make([]syncModel.ChangeEntry, 0, len(order))
	for _, p := range order {
		result = append(result, syncModel.ChangeEntry{Path: p, Status: lastStatus[p]})
	}
	return result
}

// FilterListing applies the same scope rules to a full corpus listing.
func FilterListing(paths []string) []string {
	var result []string
	seen := make(map[string]bool)
	for _, p := range paths {
		if !InScope(p) || seen[p] {
			continue
		}
		seen[p] = true
		result = append(result, p)
	}
	return result
}

// InScope reports whether a corpus path should be indexed.
func InScope(filePath string) bool {
	lower := strings.ToLower(filePath)

	if !hasTrackedExtension(lower) {
		return false
	}
	if strings.Contains(lower, config.DenylistNameFragment) {
		return false
	}

	segments := strings.Split(lower, "/")
	for _, dir := range segments[:len(segments)-1] {
		if strings.HasPrefix(dir, ".") {
			return false
		}
		for _, denied := range config.DenylistDirNames {
			if dir == denied {
				return false
			}
		}
	}
	return true
}

func hasTrackedExtension(lowerPath string) bool {
	ext := path.Ext(lowerPath)
	for _, tracked := range config.TrackedExtensions {
		if ext == tracked {
			return true
		}
	}
	return false
}
