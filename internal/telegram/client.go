// Package telegram sends margin-squeeze alerts via the Telegram Bot API.
// Alerts are optional and disabled by default; when enabled, a single
// MarkdownV2 message is sent whenever a run classifies as MarginSqueeze.
package telegram

import (
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jskimlam/iranwar-simulation/internal/models"
)

// Client handles Telegram notifications
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// SendMarginAlert sends a margin-squeeze alert for the snapshot
func (c *Client) SendMarginAlert(snap *models.Snapshot, targetMargin float64) error {
	msg := tgbotapi.NewMessage(c.chatID, FormatMarginAlert(snap, targetMargin))
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// FormatMarginAlert formats a snapshot into a MarkdownV2 alert message
func FormatMarginAlert(snap *models.Snapshot, targetMargin float64) string {
	message := "⚠ *SM Margin Squeeze*\n\n"
	message += fmt.Sprintf("📅 %s\n", escapeMarkdownV2(snap.FormattedTime()))
	message += fmt.Sprintf("🛢 WTI: %s\n", escapeMarkdownV2(fmt.Sprintf("$%.2f/bbl (%s)", snap.WTI, snap.Source)))
	message += fmt.Sprintf("🏭 SM Market: %s\n", escapeMarkdownV2(fmt.Sprintf("$%.1f/t", snap.SMMarket)))
	message += fmt.Sprintf("🧮 SM Cost: %s\n", escapeMarkdownV2(fmt.Sprintf("$%.1f/t", snap.SMCost)))
	message += fmt.Sprintf("📉 Margin: *%s* vs target %s\n",
		escapeMarkdownV2(fmt.Sprintf("$%+.1f/t", snap.Margin)),
		escapeMarkdownV2(fmt.Sprintf("$%.0f/t", targetMargin)))
	return message
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	result := ""
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			result += "\\" + string(char)
		default:
			result += string(char)
		}
	}
	return result
}
