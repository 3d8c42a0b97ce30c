package handler

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/roohic/supervisorbot/internal/config"
	"github.com/roohic/supervisorbot/internal/domain"
	"github.com/roohic/supervisorbot/internal/service"
	tg "github.com/roohic/supervisorbot/internal/telegram"
)

// HandleTextGroup runs a group message through the eligibility gate and,
// when accepted, through the metered pipeline. The corrected text is sent
// back as a reply attributed to the author; an unchanged text earns a
// reaction instead of a reply.
func (h *Handler) HandleTextGroup(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	msg := update.Message
	chatType := msg.Chat.Type
	if chatType != "supergroup" && chatType != "group" {
		return
	}
	if msg.Text == "" || strings.HasPrefix(msg.Text, "/") {
		return
	}

	chatID := msg.Chat.ID
	groupID := strconv.FormatInt(chatID, 10)

	decision, err := h.gate.ShouldProcess(ctx, msg.Text, groupID)
	if err != nil {
		slog.Error("eligibility check failed", "error", err, "group_id", groupID)
		return
	}
	if !decision.Accepted {
		if decision.Reason == domain.ReasonGroupInactive {
			tg.SendNotice(ctx, b, chatID, msg.ID, h.cfg.InactiveNotice)
		}
		return
	}

	detected, ok := h.detectLanguage(ctx, decision.Text)
	if !ok {
		return
	}

	target := h.targetLanguage(ctx, groupID)
	system := h.prompts.ForMessage(detected, target)

	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	reqCtx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
	defer cancel()

	result, err := h.processor.Process(reqCtx, domain.ProcessingRequest{
		GroupID:      groupID,
		SystemPrompt: system,
		UserMessage:  decision.Text,
		Model:        h.cfg.Model,
		MaxTokens:    h.cfg.MaxTokens,
		Temperature:  h.cfg.Temperature,
	})
	if err != nil {
		slog.Error("processing failed", "error", err, "group_id", groupID)
		return
	}

	if result.Rejected {
		h.handleRejection(ctx, b, chatID, msg.ID, result)
		return
	}

	if result.Text == decision.Text {
		// Nothing to correct; acknowledge instead of replying.
		if err := tg.SendReaction(ctx, b, chatID, msg.ID, config.NoCorrectionReaction); err != nil {
			slog.Warn("send reaction failed", "error", err, "chat_id", chatID)
		}
	} else {
		if err := tg.SendCorrection(ctx, b, chatID, msg.ID, authorName(msg.From), result.Text); err != nil {
			slog.Error("send correction failed", "error", err, "chat_id", chatID)
		}
	}

	if result.Notice != "" {
		tg.SendNotice(ctx, b, chatID, msg.ID, result.Notice)
	}
}

func (h *Handler) handleRejection(ctx context.Context, b *bot.Bot, chatID int64, messageID int, result *domain.ProcessingResult) {
	switch result.Reason {
	case domain.ReasonGroupInactive:
		tg.SendNotice(ctx, b, chatID, messageID, h.cfg.InactiveNotice)
	case domain.ReasonCreditExhausted:
		if result.Notice != "" {
			tg.SendNotice(ctx, b, chatID, messageID, result.Notice)
		}
	case domain.ReasonProviderError:
		slog.Error("provider rejected request", "detail", result.Detail, "chat_id", chatID)
		tg.SendNotice(ctx, b, chatID, messageID, h.cfg.FailureNotice)
	}
}

// detectLanguage asks the provider to name the message's language so the
// correct template can be chosen. An answer that is not a plausible
// language name aborts processing.
func (h *Handler) detectLanguage(ctx context.Context, text string) (string, bool) {
	detectCtx, cancel := context.WithTimeout(ctx, config.DetectionTimeout)
	defer cancel()

	var completion *domain.Completion
	var err error
	if h.cfg.UseChatAPI {
		completion, err = h.provider.ChatComplete(detectCtx, h.cfg.DetectionPrompt, text, h.cfg.DetectionModel, config.DetectionMaxTokens, 0)
	} else {
		completion, err = h.provider.Complete(detectCtx, h.prompts.DetectionPrompt(text), h.cfg.DetectionModel, config.DetectionMaxTokens, 0)
	}
	if err != nil {
		slog.Error("language detection failed", "error", err)
		return "", false
	}

	detected := strings.Trim(strings.TrimSpace(completion.Text), "\".")
	if !service.ValidDetectedLanguage(detected) {
		slog.Warn("invalid language detected", "detected", detected)
		return "", false
	}
	return detected, true
}

func (h *Handler) targetLanguage(ctx context.Context, groupID string) string {
	lang, err := h.store.Language(ctx, groupID)
	if err != nil {
		slog.Warn("resolve group language failed", "error", err, "group_id", groupID)
		lang = ""
	}
	return h.prompts.ResolveLanguage(lang)
}

func authorName(from *models.User) string {
	if from == nil {
		return ""
	}
	if from.Username != "" {
		return "@" + from.Username
	}
	return strings.TrimSpace(from.FirstName + " " + from.LastName)
}
