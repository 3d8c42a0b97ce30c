package handler

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/roohic/supervisorbot/internal/domain"
)

// HandleMyChatMember registers a group when the bot is added to it. The
// record starts inactive with the default language and zero credit; an
// operator activates it once credit is purchased.
func (h *Handler) HandleMyChatMember(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.MyChatMember == nil {
		return
	}
	if update.MyChatMember.NewChatMember.Type != models.ChatMemberTypeMember {
		return
	}

	chat := update.MyChatMember.Chat
	groupID := strconv.FormatInt(chat.ID, 10)

	name := chat.Title
	if name == "" {
		name = chat.Username
	}

	if err := h.admin.AddGroup(ctx, groupID, name, ""); err != nil {
		slog.Error("register group failed", "error", err, "group_id", groupID)
		return
	}
	slog.Info("bot added to group", "group_id", groupID, "name", name)
}

// HandleTitleChange keeps the stored display name in sync with the chat
// title.
func (h *Handler) HandleTitleChange(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.NewChatTitle == "" {
		return
	}

	groupID := strconv.FormatInt(update.Message.Chat.ID, 10)
	newName := update.Message.NewChatTitle

	if err := h.store.Rename(ctx, groupID, newName); err != nil {
		if errors.Is(err, domain.ErrGroupNotFound) {
			slog.Debug("title change for unregistered group", "group_id", groupID)
			return
		}
		slog.Error("rename group failed", "error", err, "group_id", groupID)
		return
	}
	slog.Info("group renamed", "group_id", groupID, "name", newName)
}
