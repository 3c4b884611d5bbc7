package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/akolanti/PolicyRAG/internal/config"
	"github.com/akolanti/PolicyRAG/internal/domain/chatModel"
	"github.com/akolanti/PolicyRAG/internal/rag/llm"
	"github.com/akolanti/PolicyRAG/internal/rag/vectorDB"
	"github.com/akolanti/PolicyRAG/pkg/logger_i"
)

const evidenceExcerptLimit = 1200

const personaPreamble = "You are a careful assistant answering questions about internal company policies. " +
	"Answer ONLY from the numbered evidence excerpts below. " +
	"The conversation synopsis and recent turns are context for understanding the question, never a source to cite. " +
	"If the evidence does not cover the question, say so explicitly instead of guessing. " +
	"Answer in the language of the question."

const groundingReminder = "Remember: every statement in your answer must be supported by the evidence excerpts above. " +
	"Do not invent policy details."

// NoEvidenceMessage is the designed negative branch of the evidence gate,
// not an error.
func NoEvidenceMessage(language string) string {
	if language == "ru" {
		return "В базе политик не нашлось подходящей информации по этому вопросу. Попробуйте переформулировать вопрос или уточнить, какая политика вас интересует."
	}
	return "I couldn't find anything in the policy corpus that covers this question. Try rephrasing it, or tell me which policy you have in mind."
}

// ApologyMessage is what the chat surface shows on any internal failure.
// Raw errors never reach the user.
func ApologyMessage(language string) string {
	if language == "ru" {
		return "Извините, что-то пошло не так при обработке вашего вопроса. Попробуйте ещё раз чуть позже."
	}
	return "Sorry, something went wrong while handling your question. Please try again in a moment."
}

type Composer struct {
	model  llm.Provider
	logger *logger_i.Logger
}

func NewComposer(model llm.Provider) *Composer {
	return &Composer{
		model:  model,
		logger: logger_i.NewLogger("Answer"),
	}
}

// Compose builds the grounded instruction, invokes the model and appends the
// citation list. The evidence slice must already have passed the gate.
func (c *Composer) Compose(ctx context.Context, question string, mem chatModel.MemoryContext, evidence []vectorDB.ScoredChunk) (string, []string, error) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	prompt := buildPrompt(question, mem, evidence)
	raw, err := c.model.Complete(ctx, personaPreamble, prompt)
	if err != nil {
		return "", nil, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil, fmt.Errorf("model returned an empty answer")
	}

	sources := CollectSources(evidence)
	log.Debug("Answer composed", "evidenceCount", len(evidence), "sources", len(sources))
	return AttachSources(raw, sources), sources, nil
}

func buildPrompt(question string, mem chatModel.MemoryContext, evidence []vectorDB.ScoredChunk) string {
	var b strings.Builder

	if mem.Summary != "" {
		b.WriteString("Conversation synopsis (context only, never cite):\n")
		b.WriteString(mem.Summary)
		b.WriteString("\n\n")
	}

	recent := mem.Recent
	if len(recent) > config.RecentTurnsInPrompt {
		recent = recent[len(recent)-config.RecentTurnsInPrompt:]
	}
	if len(recent) > 0 {
		b.WriteString("Recent turns (context only, never cite):\n")
		for _, m := range recent {
			b.WriteString(string(m.Role))
			b.WriteString(": ")
			b.WriteString(m.Text)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Evidence excerpts:\n")
	for i, hit := range evidence {
		text := hit.Text
		if len(text) > evidenceExcerptLimit {
			text = text[:evidenceExcerptLimit]
		}
		b.WriteString(fmt.Sprintf("[%d] %s (%s)\n%s\n\n", i+1, hit.Title, hit.Path, text))
	}

	b.WriteString(groundingReminder)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}

// CollectSources dedupes evidence into at most MaxCitedSources citations,
// preserving relevance order. A source keeps its link when the payload has one.
func CollectSources(evidence []vectorDB.ScoredChunk) []string {
	seen := make(map[string]struct{})
	sources := make([]string, 0, config.MaxCitedSources)
	for _, hit := range evidence {
		label := hit.Title
		if label == "" {
			label = hit.Path
		}
		if hit.SourceURL != "" {
			label = fmt.Sprintf("%s - %s", label, hit.SourceURL)
		}
		key := hit.DocId
		if key == "" {
			key = label
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		sources = append(sources, label)
		if len(sources) == config.MaxCitedSources {
			break
		}
	}
	return sources
}

func AttachSources(answer string, sources []string) string {
	if len(sources) == 0 {
		return answer
	}
	var b strings.Builder
	b.WriteString(answer)
	b.WriteString("\n\nSources:\n")
	for _, s := range sources {
		b.WriteString("- ")
		b.WriteString(s)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
