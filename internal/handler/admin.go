package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"

	"github.com/roohic/supervisorbot/internal/config"
	"github.com/roohic/supervisorbot/internal/domain"
)

// Administrative commands. Each maps 1:1 onto a group store operation and
// is restricted to the configured admin ids.

func (h *Handler) adminMessage(update *models.Update) (*models.Message, bool) {
	if update.Message == nil || update.Message.From == nil {
		return nil, false
	}
	if !h.cfg.IsAdmin(update.Message.From.ID) {
		return nil, false
	}
	return update.Message, true
}

func (h *Handler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		slog.Error("send admin reply failed", "error", err, "chat_id", chatID)
	}
}

func (h *Handler) replyError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	switch {
	case errors.Is(err, domain.ErrGroupNotFound):
		h.reply(ctx, b, chatID, "❌ No group with this id.")
	case errors.Is(err, domain.ErrValidation):
		h.reply(ctx, b, chatID, fmt.Sprintf("❌ %v", err))
	case errors.Is(err, domain.ErrInvalidAmount):
		h.reply(ctx, b, chatID, "❌ Amount must be a positive number.")
	default:
		slog.Error("admin command failed", "error", err)
		h.reply(ctx, b, chatID, "❌ Command failed, see logs.")
	}
}

// /group_add <id> <language> <name...>
func (h *Handler) handleAddGroup(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg, ok := h.adminMessage(update)
	if !ok {
		return
	}
	chatID := msg.Chat.ID

	parts := strings.Fields(msg.Text)
	if len(parts) < 4 {
		h.reply(ctx, b, chatID, "Usage: /group_add <id> <language> <name>")
		return
	}

	groupID, language := parts[1], parts[2]
	name := strings.Join(parts[3:], " ")

	if err := h.admin.AddGroup(ctx, groupID, name, language); err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}
	h.reply(ctx, b, chatID, fmt.Sprintf("✅ Group %s added (inactive, no credit).", groupID))
}

// /group_remove <id>
func (h *Handler) handleRemoveGroup(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg, ok := h.adminMessage(update)
	if !ok {
		return
	}
	chatID := msg.Chat.ID

	parts := strings.Fields(msg.Text)
	if len(parts) != 2 {
		h.reply(ctx, b, chatID, "Usage: /group_remove <id>")
		return
	}

	existed, err := h.admin.RemoveGroup(ctx, parts[1])
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}
	if !existed {
		h.reply(ctx, b, chatID, "Nothing to remove: no group with this id.")
		return
	}
	h.reply(ctx, b, chatID, fmt.Sprintf("✅ Group %s removed.", parts[1]))
}

// /group_rename <id> <name...>
func (h *Handler) handleRenameGroup(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg, ok := h.adminMessage(update)
	if !ok {
		return
	}
	chatID := msg.Chat.ID

	parts := strings.Fields(msg.Text)
	if len(parts) < 3 {
		h.reply(ctx, b, chatID, "Usage: /group_rename <id> <name>")
		return
	}

	if err := h.admin.RenameGroup(ctx, parts[1], strings.Join(parts[2:], " ")); err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}
	h.reply(ctx, b, chatID, fmt.Sprintf("✅ Group %s renamed.", parts[1]))
}

// /setlang <id> <language>
func (h *Handler) handleSetLanguage(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg, ok := h.adminMessage(update)
	if !ok {
		return
	}
	chatID := msg.Chat.ID

	parts := strings.Fields(msg.Text)
	if len(parts) != 3 {
		h.reply(ctx, b, chatID, "Usage: /setlang <id> <language>")
		return
	}

	changed, err := h.admin.SetLanguage(ctx, parts[1], parts[2])
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}
	if !changed {
		h.reply(ctx, b, chatID, "Language unchanged.")
		return
	}
	h.reply(ctx, b, chatID, fmt.Sprintf("✅ Language for %s set to %s.", parts[1], parts[2]))
}

// /toggle <id> on|off
func (h *Handler) handleToggleActive(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg, ok := h.adminMessage(update)
	if !ok {
		return
	}
	chatID := msg.Chat.ID

	parts := strings.Fields(msg.Text)
	if len(parts) != 3 || (parts[2] != "on" && parts[2] != "off") {
		h.reply(ctx, b, chatID, "Usage: /toggle <id> on|off")
		return
	}
	isActive := parts[2] == "on"

	changed, err := h.admin.ToggleActive(ctx, parts[1], isActive)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}
	if !changed {
		h.reply(ctx, b, chatID, "Activation state unchanged.")
		return
	}
	state := "deactivated"
	if isActive {
		state = "activated"
	}
	h.reply(ctx, b, chatID, fmt.Sprintf("✅ Group %s %s.", parts[1], state))
}

// /addcredit <id> <amount>
func (h *Handler) handleAddCredit(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg, ok := h.adminMessage(update)
	if !ok {
		return
	}
	chatID := msg.Chat.ID

	parts := strings.Fields(msg.Text)
	if len(parts) != 3 {
		h.reply(ctx, b, chatID, "Usage: /addcredit <id> <amount>")
		return
	}

	amount, err := decimal.NewFromString(parts[2])
	if err != nil {
		h.reply(ctx, b, chatID, "❌ Amount must be a decimal number.")
		return
	}

	if err := h.admin.AddCredit(ctx, parts[1], amount); err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}
	h.reply(ctx, b, chatID, fmt.Sprintf("✅ Added %s credit to group %s.", amount.String(), parts[1]))
}

// /groups
func (h *Handler) handleListGroups(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg, ok := h.adminMessage(update)
	if !ok {
		return
	}
	chatID := msg.Chat.ID

	entries, err := h.admin.ListGroups(ctx)
	if err != nil {
		h.replyError(ctx, b, chatID, err)
		return
	}
	if len(entries) == 0 {
		h.reply(ctx, b, chatID, "No groups registered.")
		return
	}

	var sb strings.Builder
	for _, e := range entries {
		state := "inactive"
		if e.Group.IsActive {
			state = "active"
		}
		fmt.Fprintf(&sb, "%s — %s [%s, %s] credit %s/%s, since %s\n",
			e.ID,
			e.Group.Name,
			e.Group.Language,
			state,
			e.Group.CreditUsed.StringFixed(4),
			e.Group.CreditPurchased.StringFixed(4),
			e.Group.CreatedAt.Format("2006-01-02"),
		)
	}

	// Keep the listing within Telegram's message size, cut at a line break.
	out := sb.String()
	if len(out) > config.MaxTelegramMessageLen {
		out = out[:strings.LastIndex(out[:config.MaxTelegramMessageLen], "\n")+1]
	}
	h.reply(ctx, b, chatID, out)
}
