package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/akolanti/PolicyRAG/internal/config"
	"github.com/akolanti/PolicyRAG/internal/customHttpClient"
	"github.com/akolanti/PolicyRAG/pkg/logger_i"
)

// ChatTransport delivers outbound messages to the chat platform.
type ChatTransport interface {
	SendMessage(ctx context.Context, chatId string, text string) error
}

type httpTransport struct {
	client  *http.Client
	sendURL string
	token   string
	logger  *logger_i.Logger
}

// GetHTTPTransport returns nil when no send URL is configured, which
// disables the bot surface without breaking the rest of the server.
func GetHTTPTransport() ChatTransport {
	sendURL := os.Getenv("BOT_SEND_URL")
	if sendURL == "" {
		sendURL = config.BotSendURL
	}
	if sendURL == "" {
		return nil
	}
	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		token = config.BotToken
	}
	return &httpTransport{
		client:  customHttpClient.GetPooledClient(),
		sendURL: sendURL,
		token:   token,
		logger:  logger_i.NewLogger("BotTransport"),
	}
}

type outboundMessage struct {
	ChatId string `json:"chat_id"`
	Text   string `json:"text"`
}

func (t *httpTransport) SendMessage(ctx context.Context, chatId string, text string) error {
	payload, err := json.Marshal(outboundMessage{ChatId: chatId, Text: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.sendURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("chat platform returned %d", resp.StatusCode)
	}
	return nil
}
