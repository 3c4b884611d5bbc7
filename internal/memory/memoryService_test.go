package memory

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/akolanti/PolicyRAG/internal/data/store"
	"github.com/akolanti/PolicyRAG/internal/domain/chatModel"
)

type fakeModel struct {
	calls    int
	synopsis string
	err      error
}

func (f *fakeModel) Complete(ctx context.Context, systemInstruction string, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.synopsis, nil
}

func TestSummaryTriggerByMessageCount(t *testing.T) {
	st := store.InitInMemoryConversationStore()
	model := &fakeModel{synopsis: "user asks about vacation policy"}
	mgr := NewManager(st, model)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		msg := chatModel.Message{ChatId: "c1", Role: chatModel.RoleUser, Text: fmt.Sprintf("turn %d", i)}
		if err := mgr.Append(ctx, msg); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	if model.calls != 1 {
		t.Fatalf("expected exactly one summarization after 10 messages, got %d", model.calls)
	}
	conv, found := st.GetConversation(ctx, "c1")
	if !found {
		t.Fatal("conversation record missing")
	}
	if conv.Summary != "user asks about vacation policy" {
		t.Fatalf("unexpected summary: %q", conv.Summary)
	}
	if conv.MessagesSinceSummary != 0 {
		t.Fatalf("counter must reset after summarization, got %d", conv.MessagesSinceSummary)
	}
	if conv.MessageCount != 10 {
		t.Fatalf("total message count must survive summarization, got %d", conv.MessageCount)
	}
}

func TestSummaryTriggerByCharVolume(t *testing.T) {
	st := store.InitInMemoryConversationStore()
	model := &fakeModel{synopsis: "long discussion"}
	mgr := NewManager(st, model)
	ctx := context.Background()

	big := strings.Repeat("a", 2100)
	for i := 0; i < 2; i++ {
		if err := mgr.Append(ctx, chatModel.Message{ChatId: "c1", Role: chatModel.RoleUser, Text: big}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	if model.calls != 1 {
		t.Fatalf("4200 chars over 2 messages must trigger summarization, got %d calls", model.calls)
	}
}

func TestSummaryCharTriggerCountsRecentWindow(t *testing.T) {
	st := store.InitInMemoryConversationStore()
	model := &fakeModel{synopsis: "long discussion"}
	mgr := NewManager(st, model)
	ctx := context.Background()

	big := strings.Repeat("a", 2100)
	for i := 0; i < 2; i++ {
		if err := mgr.Append(ctx, chatModel.Message{ChatId: "c1", Role: chatModel.RoleUser, Text: big}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if model.calls != 1 {
		t.Fatalf("setup expects one summarization, got %d calls", model.calls)
	}

	// the char trigger watches the most recent messages, not just the turns
	// since the last summary, so a short follow-up still re-triggers while
	// the long turns sit in the window
	if err := mgr.Append(ctx, chatModel.Message{ChatId: "c1", Role: chatModel.RoleUser, Text: "ok"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if model.calls != 2 {
		t.Fatalf("recent window over the char threshold must re-trigger, got %d calls", model.calls)
	}
}

func TestSummaryFailureKeepsPreviousSynopsis(t *testing.T) {
	st := store.InitInMemoryConversationStore()
	ctx := context.Background()
	if err := st.SaveConversation(ctx, chatModel.Conversation{ChatId: "c1", Summary: "old synopsis", MessagesSinceSummary: 9}); err != nil {
		t.Fatal(err)
	}

	model := &fakeModel{err: fmt.Errorf("model down")}
	mgr := NewManager(st, model)
	if err := mgr.Append(ctx, chatModel.Message{ChatId: "c1", Role: chatModel.RoleUser, Text: "one more"}); err != nil {
		t.Fatalf("append must not fail on summarizer error: %v", err)
	}

	conv, _ := st.GetConversation(ctx, "c1")
	if conv.Summary != "old synopsis" {
		t.Fatalf("failed summarization must keep the previous synopsis, got %q", conv.Summary)
	}
	if conv.MessagesSinceSummary != 10 {
		t.Fatalf("counter must keep growing so the next turn retries, got %d", conv.MessagesSinceSummary)
	}
}

func TestBuildContextChargesSummaryFirst(t *testing.T) {
	st := store.InitInMemoryConversationStore()
	ctx := context.Background()
	summary := strings.Repeat("s", 400) // 100 tokens
	if err := st.SaveConversation(ctx, chatModel.Conversation{ChatId: "c1", Summary: summary}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		msg := chatModel.Message{ChatId: "c1", Role: chatModel.RoleUser, Text: strings.Repeat("m", 200)} // 50 tokens each
		if err := st.AppendMessage(ctx, msg); err != nil {
			t.Fatal(err)
		}
	}

	mgr := NewManager(st, &fakeModel{})
	mc, err := mgr.BuildContext(ctx, "c1", 210)
	if err != nil {
		t.Fatal(err)
	}
	if mc.Summary != summary {
		t.Fatal("summary must be admitted before any turns")
	}
	// 210 - 100 leaves room for two 50-token turns, not three
	if len(mc.Recent) != 2 {
		t.Fatalf("expected 2 admitted turns, got %d", len(mc.Recent))
	}
	if mc.TokenEstimate > 210 {
		t.Fatalf("estimate %d exceeds budget", mc.TokenEstimate)
	}
}

func TestBuildContextDropsBoundaryMessageWhole(t *testing.T) {
	st := store.InitInMemoryConversationStore()
	ctx := context.Background()
	if err := st.SaveConversation(ctx, chatModel.Conversation{ChatId: "c1"}); err != nil {
		t.Fatal(err)
	}
	if err := st.AppendMessage(ctx, chatModel.Message{ChatId: "c1", Role: chatModel.RoleUser, Text: strings.Repeat("x", 4000)}); err != nil {
		t.Fatal(err)
	}
	if err := st.AppendMessage(ctx, chatModel.Message{ChatId: "c1", Role: chatModel.RoleAssistant, Text: strings.Repeat("y", 40)}); err != nil {
		t.Fatal(err)
	}

	mgr := NewManager(st, &fakeModel{})
	mc, err := mgr.BuildContext(ctx, "c1", 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(mc.Recent) != 1 {
		t.Fatalf("oversized older message must be dropped whole, got %d turns", len(mc.Recent))
	}
	if mc.Recent[0].Role != chatModel.RoleAssistant {
		t.Fatal("the newest fitting message must survive")
	}
}

func TestBuildContextKeepsChronologicalOrder(t *testing.T) {
	st := store.InitInMemoryConversationStore()
	ctx := context.Background()
	if err := st.SaveConversation(ctx, chatModel.Conversation{ChatId: "c1"}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := st.AppendMessage(ctx, chatModel.Message{ChatId: "c1", Role: chatModel.RoleUser, Text: fmt.Sprintf("turn %d", i)}); err != nil {
			t.Fatal(err)
		}
	}

	mgr := NewManager(st, &fakeModel{})
	mc, err := mgr.BuildContext(ctx, "c1", 1000)
	if err != nil {
		t.Fatal(err)
	}
	if len(mc.Recent) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(mc.Recent))
	}
	for i, m := range mc.Recent {
		if m.Text != fmt.Sprintf("turn %d", i) {
			t.Fatalf("turns out of order at %d: %q", i, m.Text)
		}
	}
}

func TestResetKeepsSessionRecord(t *testing.T) {
	st := store.InitInMemoryConversationStore()
	ctx := context.Background()
	mgr := NewManager(st, &fakeModel{synopsis: "s"})

	if _, err := mgr.EnsureSession(ctx, "c1", "какой порядок отпуска"); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Append(ctx, chatModel.Message{ChatId: "c1", Role: chatModel.RoleUser, Text: "hello"}); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Reset(ctx, "c1"); err != nil {
		t.Fatal(err)
	}

	conv, found := st.GetConversation(ctx, "c1")
	if !found {
		t.Fatal("reset must keep the session record")
	}
	if conv.Summary != "" || conv.MessageCount != 0 || conv.MessagesSinceSummary != 0 {
		t.Fatalf("reset must zero summary and counters: %+v", conv)
	}
	if conv.Language != "ru" {
		t.Fatalf("language must survive reset, got %q", conv.Language)
	}

	msgs, err := st.RecentMessages(ctx, "c1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 0 {
		t.Fatalf("reset must clear the message log, got %d", len(msgs))
	}
}
