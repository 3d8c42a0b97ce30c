package telegram

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// SendCorrection replies to the original message with the corrected text,
// attributed to its author. A vanished reply target is a benign race with
// Telegram and is swallowed.
func SendCorrection(ctx context.Context, b *bot.Bot, chatID int64, messageID int, author, text string) error {
	body := fmt.Sprintf("<i>%s</i> 🗨️: <blockquote><i>%s</i></blockquote>", html.EscapeString(author), html.EscapeString(text))
	return sendHTMLReply(ctx, b, chatID, messageID, body)
}

// SendNotice replies with an italic service notice.
func SendNotice(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string) error {
	return sendHTMLReply(ctx, b, chatID, messageID, fmt.Sprintf("<i>%s</i>", text))
}

func sendHTMLReply(ctx context.Context, b *bot.Bot, chatID int64, messageID int, body string) error {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      body,
		ParseMode: models.ParseModeHTML,
		ReplyParameters: &models.ReplyParameters{
			MessageID: messageID,
		},
	})
	if err != nil {
		if strings.Contains(err.Error(), "message to reply not found") {
			slog.Debug("reply target vanished", "chat_id", chatID, "message_id", messageID)
			return nil
		}
		return fmt.Errorf("send reply: %w", err)
	}
	return nil
}

// SendReaction attaches an emoji reaction to a message.
func SendReaction(ctx context.Context, b *bot.Bot, chatID int64, messageID int, emoji string) error {
	_, err := b.SetMessageReaction(ctx, &bot.SetMessageReactionParams{
		ChatID:    chatID,
		MessageID: messageID,
		Reaction: []models.ReactionType{
			{
				Type: models.ReactionTypeTypeEmoji,
				ReactionTypeEmoji: &models.ReactionTypeEmoji{
					Type:  models.ReactionTypeTypeEmoji,
					Emoji: emoji,
				},
			},
		},
		IsBig: bot.True(),
	})
	if err != nil {
		return fmt.Errorf("set reaction: %w", err)
	}
	return nil
}

// StartTyping sends the typing action every 4 seconds until the returned
// cancel function is called.
func StartTyping(ctx context.Context, b *bot.Bot, chatID int64) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(4 * time.Second)
		defer ticker.Stop()
		b.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: chatID,
			Action: models.ChatActionTyping,
		})
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.SendChatAction(ctx, &bot.SendChatActionParams{
					ChatID: chatID,
					Action: models.ChatActionTyping,
				})
			}
		}
	}()
	return cancel
}
