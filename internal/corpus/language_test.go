package corpus

import (
	"strings"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"english", "Employees must file expense reports within 30 days.", "en"},
		{"russian", "Сотрудники обязаны подавать отчёты о расходах в течение 30 дней.", "ru"},
		{"mixed mostly latin", "Policy update: см. раздел 4. " + strings.Repeat("All travel requires approval. ", 20), "en"},
		{"empty", "", "en"},
		{"numbers only", "2024-01-01 42 100%", "en"},
	}

	for _, tt := range tests {
		if got := DetectLanguage(tt.text); got != tt.expected {
			t.Errorf("%s: DetectLanguage = %s; want %s", tt.name, got, tt.expected)
		}
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"heading", "# Travel Policy\n\nAll travel requires approval.", "Travel Policy"},
		{"deep heading", "intro line\n## Expense Rules\nbody", "Expense Rules"},
		{"no heading", "\n\nExpense guidelines for contractors\nmore text", "Expense guidelines for contractors"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		if got := ExtractTitle(tt.text); got != tt.expected {
			t.Errorf("%s: ExtractTitle = %q; want %q", tt.name, got, tt.expected)
		}
	}
}

func TestDocumentId_Deterministic(t *testing.T) {
	a := DocumentId("policies/travel.md")
	b := DocumentId("policies/travel.md")
	c := DocumentId("policies/expense.md")

	if a != b {
		t.Error("Same path produced different document ids")
	}
	if a == c {
		t.Error("Different paths produced the same document id")
	}

	if PointId("policies/travel.md", 0) == PointId("policies/travel.md", 1) {
		t.Error("Different sequences produced the same point id")
	}
}
