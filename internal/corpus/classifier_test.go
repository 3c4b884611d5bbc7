package corpus

import (
	"testing"

	"github.com/akolanti/PolicyRAG/internal/domain/syncModel"
)

func TestInScope(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"policies/travel.md", true},
		{"policies/expense.txt", true},
		{"policies/handbook.pdf", true},
		{"policies/contract.docx", true},
		{"policies/logo.png", false},
		{"README.md", false},
		{"policies/readme-first.md", false},
		{"build/notes.md", false},
		{"docs/build/notes.md", false},
		{".github/workflows/guide.md", false},
		{"docs/.hidden/guide.md", false},
		{"node_modules/pkg/doc.md", false},
	}

	for _, tt := range tests {
		if got := InScope(tt.path); got != tt.expected {
			t.Errorf("InScope(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}

func TestFilterChanges_LastStatusWins(t *testing.T) {
	changes := []syncModel.ChangeEntry{
		{Path: "policies/travel.md", Status: syncModel.ChangeAdded},
		{Path: "policies/expense.md", Status: syncModel.ChangeModified},
		{Path: "policies/travel.md", Status: syncModel.ChangeRemoved},
		{Path: "assets/logo.png", Status: syncModel.ChangeAdded},
	}

	filtered := FilterChanges(changes)

	if len(filtered) != 2 {
		t.Fatalf("Expected 2 entries after filtering+dedupe, got %d", len(filtered))
	}

	byPath := make(map[string]syncModel.ChangeStatus)
	for _, c := range filtered {
		byPath[c.Path] = c.Status
	}
	if byPath["policies/travel.md"] != syncModel.ChangeRemoved {
		t.Errorf("Expected last status (removed) to win, got %s", byPath["policies/travel.md"])
	}
	if byPath["policies/expense.md"] != syncModel.ChangeModified {
		t.Errorf("Unexpected status for expense.md: %s", byPath["policies/expense.md"])
	}
}

func TestFilterListing(t *testing.T) {
	paths := []string{
		"policies/a.md",
		"policies/a.md", //duplicate
		"build/b.md",
		"policies/c.txt",
		"policies/readme.md",
	}

	filtered := FilterListing(paths)

	if len(filtered) != 2 {
		t.Fatalf("Expected 2 paths, got %d: %v", len(filtered), filtered)
	}
	if filtered[0] != "policies/a.md" || filtered[1] != "policies/c.txt" {
		t.Errorf("Unexpected listing: %v", filtered)
	}
}
