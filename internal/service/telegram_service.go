package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nathantheresa/portfolio/internal/api/sanitization"
)

// OwnerNotifier alerts the site owner about a new contact submission
type OwnerNotifier interface {
	SendContactMessage(ctx context.Context, name, email, message string) error
}

// TelegramService handles sending messages to Telegram
type TelegramService struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

// NewTelegramService creates a new Telegram service
func NewTelegramService(botToken, chatID string) *TelegramService {
	return &TelegramService{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  "https://api.telegram.org",
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Configured reports whether both the bot token and chat ID are set
func (s *TelegramService) Configured() bool {
	return s.botToken != "" && s.chatID != ""
}

// telegramMessage represents a Telegram API message
type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// SendContactMessage sends a contact form message to Telegram
func (s *TelegramService) SendContactMessage(ctx context.Context, name, email, message string) error {
	if !s.Configured() {
		return fmt.Errorf("telegram bot token or chat ID: %w", ErrNotConfigured)
	}

	text := fmt.Sprintf(
		"<b>New Contact Form Submission</b>\n\n"+
			"<b>Name:</b> %s\n"+
			"<b>Email:</b> %s\n"+
			"<b>Message:</b>\n%s",
		sanitization.EscapeHTML(name),
		sanitization.EscapeHTML(email),
		sanitization.EscapeHTML(message),
	)

	jsonData, err := json.Marshal(telegramMessage{
		ChatID:    s.chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}

	return nil
}
