package answer

import (
	"context"
	"strings"
	"testing"

	"github.com/akolanti/PolicyRAG/internal/domain/chatModel"
	"github.com/akolanti/PolicyRAG/internal/rag/vectorDB"
)

type fakeModel struct {
	prompt      string
	instruction string
	reply       string
}

func (f *fakeModel) Complete(ctx context.Context, systemInstruction string, prompt string) (string, error) {
	f.instruction = systemInstruction
	f.prompt = prompt
	return f.reply, nil
}

func evidence() []vectorDB.ScoredChunk {
	return []vectorDB.ScoredChunk{
		{DocId: "d1", Title: "Vacation Policy", Path: "policies/vacation.md", SourceURL: "https://example.com/vacation.md", Text: "Employees accrue 25 vacation days per year."},
		{DocId: "d2", Title: "Sick Leave", Path: "policies/sick.md", Text: "Sick leave requires a note after 3 days."},
		{DocId: "d1", Title: "Vacation Policy", Path: "policies/vacation.md", Text: "Carry-over of unused days is capped at 5."},
	}
}

func TestComposeGroundsPromptInEvidence(t *testing.T) {
	model := &fakeModel{reply: "You accrue 25 days per year."}
	c := NewComposer(model)

	mem := chatModel.MemoryContext{
		Summary: "User is a new employee asking about time off.",
		Recent: []chatModel.Message{
			{Role: chatModel.RoleUser, Text: "hi"},
			{Role: chatModel.RoleAssistant, Text: "hello"},
		},
	}
	out, sources, err := c.Compose(context.Background(), "How many vacation days do I get?", mem, evidence())
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(model.instruction, "ONLY from the numbered evidence") {
		t.Fatal("persona preamble missing from system instruction")
	}
	for _, want := range []string{"Conversation synopsis", "Recent turns", "Evidence excerpts", "[1] Vacation Policy", "Question: How many vacation days"} {
		if !strings.Contains(model.prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
	if !strings.HasPrefix(out, "You accrue 25 days per year.") {
		t.Fatalf("answer body lost: %q", out)
	}
	if len(sources) != 2 {
		t.Fatalf("same document cited twice: %v", sources)
	}
}

func TestCollectSourcesDedupesAndCaps(t *testing.T) {
	hits := []vectorDB.ScoredChunk{
		{DocId: "a", Title: "A"},
		{DocId: "b", Title: "B"},
		{DocId: "a", Title: "A"},
		{DocId: "c", Title: "C"},
		{DocId: "d", Title: "D"},
	}
	sources := CollectSources(hits)
	if len(sources) != 3 {
		t.Fatalf("expected cap of 3, got %d", len(sources))
	}
	if sources[0] != "A" || sources[1] != "B" || sources[2] != "C" {
		t.Fatalf("relevance order lost: %v", sources)
	}
}

func TestCollectSourcesLabelsLinkedDocuments(t *testing.T) {
	sources := CollectSources([]vectorDB.ScoredChunk{
		{DocId: "v", Title: "Vacation Policy", SourceURL: "https://example.com/vacation.md"},
	})
	if len(sources) != 1 {
		t.Fatalf("expected one source, got %d", len(sources))
	}
	if sources[0] != "Vacation Policy - https://example.com/vacation.md" {
		t.Fatalf("unexpected source label: %q", sources[0])
	}
}

func TestAttachSources(t *testing.T) {
	out := AttachSources("answer", []string{"Vacation Policy - https://example.com/vacation.md"})
	if !strings.Contains(out, "Sources:\n- Vacation Policy") {
		t.Fatalf("citation block missing: %q", out)
	}
	if AttachSources("answer", nil) != "answer" {
		t.Fatal("no sources must leave the answer untouched")
	}
}

func TestNoEvidenceMessageLocalized(t *testing.T) {
	if !strings.Contains(NoEvidenceMessage("ru"), "политик") {
		t.Fatal("russian no-evidence message missing")
	}
	if !strings.Contains(NoEvidenceMessage("en"), "policy corpus") {
		t.Fatal("english no-evidence message missing")
	}
	if NoEvidenceMessage("") != NoEvidenceMessage("en") {
		t.Fatal("unknown language must fall back to english")
	}
}
