package handler

import (
	"github.com/go-telegram/bot"

	"github.com/roohic/supervisorbot/internal/config"
	"github.com/roohic/supervisorbot/internal/service"
)

// Handler holds the dependencies of the message and command handlers.
type Handler struct {
	bot       *bot.Bot
	cfg       *config.Config
	store     *service.GroupStore
	gate      *service.Gate
	prompts   *service.PromptBuilder
	processor *service.Processor
	provider  service.CompletionProvider
	admin     *service.Admin
}

// Deps contains everything required to construct a Handler.
type Deps struct {
	Bot       *bot.Bot
	Cfg       *config.Config
	Store     *service.GroupStore
	Gate      *service.Gate
	Prompts   *service.PromptBuilder
	Processor *service.Processor
	Provider  service.CompletionProvider
	Admin     *service.Admin
}

func New(deps Deps) *Handler {
	return &Handler{
		bot:       deps.Bot,
		cfg:       deps.Cfg,
		store:     deps.Store,
		gate:      deps.Gate,
		prompts:   deps.Prompts,
		processor: deps.Processor,
		provider:  deps.Provider,
		admin:     deps.Admin,
	}
}

// Register wires the administrative command handlers.
func (h *Handler) Register() {
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/groups", bot.MatchTypePrefix, h.handleListGroups)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/group_add", bot.MatchTypePrefix, h.handleAddGroup)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/group_remove", bot.MatchTypePrefix, h.handleRemoveGroup)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/group_rename", bot.MatchTypePrefix, h.handleRenameGroup)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/setlang", bot.MatchTypePrefix, h.handleSetLanguage)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/toggle", bot.MatchTypePrefix, h.handleToggleActive)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addcredit", bot.MatchTypePrefix, h.handleAddCredit)
}
