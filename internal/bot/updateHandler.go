package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/akolanti/PolicyRAG/internal/api"
	"github.com/akolanti/PolicyRAG/internal/config"
	"github.com/akolanti/PolicyRAG/internal/corpus"
	"github.com/akolanti/PolicyRAG/internal/rag"
	"github.com/akolanti/PolicyRAG/internal/rag/answer"
	"github.com/akolanti/PolicyRAG/pkg/logger_i"
)

var (
	once       sync.Once
	logger     *logger_i.Logger
	ragService rag.Service
	transport  ChatTransport
)

func InitBot(service rag.Service, t ChatTransport) {
	once.Do(func() {
		logger = logger_i.NewLogger("Bot")
		ragService = service
		transport = t
		if transport == nil {
			logger.Warn("No chat transport configured, bot replies are disabled")
		}
	})
}

type update struct {
	chatId      string
	text        string
	isCommand   bool
	commandName string
	commandArgs string
}

// UpdateHandler ingests one chat-platform update. The platform redelivers
// anything not acknowledged quickly, so the pipeline runs detached and the
// request is acked immediately.
func UpdateHandler(w http.ResponseWriter, r *http.Request) {
	var payload api.BotUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.Warn("Undecodable bot update", "error", err)
		w.WriteHeader(http.StatusOK) //never make the platform retry a bad payload
		return
	}
	defer r.Body.Close()

	upd := parseUpdate(payload)
	if upd.chatId == "" || upd.text == "" {
		w.WriteHeader(http.StatusOK)
		return
	}

	traceId, _ := r.Context().Value(config.TRACE_ID_KEY).(string)
	go handleUpdate(traceId, upd)

	w.WriteHeader(http.StatusOK)
}

func parseUpdate(payload api.BotUpdate) update {
	upd := update{
		chatId: strconv.FormatInt(payload.Message.Chat.Id, 10),
		text:   strings.TrimSpace(payload.Message.Text),
	}
	if payload.Message.Chat.Id == 0 {
		upd.chatId = ""
	}
	if strings.HasPrefix(upd.text, "/") {
		upd.isCommand = true
		name, args, _ := strings.Cut(upd.text[1:], " ")
		upd.commandName = strings.ToLower(name)
		upd.commandArgs = strings.TrimSpace(args)
	}
	return upd
}

func handleUpdate(traceId string, upd update) {
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	log := logger.With("traceId", traceId, "chatId", upd.chatId)

	if upd.isCommand {
		handleCommand(ctx, upd, log)
		return
	}

	result, err := ragService.Ask(ctx, upd.chatId, upd.text)
	if err != nil {
		// the user never sees a raw error, only a localized apology
		log.Error("Ask pipeline failed", "error", err)
		reply(ctx, upd.chatId, answer.ApologyMessage(corpus.DetectLanguage(upd.text)), log)
		return
	}
	reply(ctx, upd.chatId, result.Answer, log)
}

func handleCommand(ctx context.Context, upd update, log *logger_i.Logger) {
	switch upd.commandName {
	case "reset":
		if err := ragService.ResetChat(ctx, upd.chatId); err != nil {
			log.Error("Reset failed", "error", err)
			reply(ctx, upd.chatId, answer.ApologyMessage("en"), log)
			return
		}
		reply(ctx, upd.chatId, "Conversation cleared. Ask me about any policy.", log)
	case "start":
		reply(ctx, upd.chatId, "Hi! Ask me anything about the policy corpus. Use /reset to start over.", log)
	default:
		log.Debug("Ignoring unknown command", "command", upd.commandName)
	}
}

func reply(ctx context.Context, chatId string, text string, log *logger_i.Logger) {
	if transport == nil {
		log.Warn("Dropping reply, no transport")
		return
	}
	if err := transport.SendMessage(ctx, chatId, text); err != nil {
		log.Error("Reply delivery failed", "error", err)
	}
}
