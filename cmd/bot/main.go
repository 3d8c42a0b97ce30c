package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/roohic/supervisorbot/internal/config"
	"github.com/roohic/supervisorbot/internal/handler"
	"github.com/roohic/supervisorbot/internal/middleware"
	"github.com/roohic/supervisorbot/internal/repository"
	"github.com/roohic/supervisorbot/internal/service"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the group store backend
	kv, err := repository.NewRedisKV(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	// Initialize services
	cache := service.NewGroupCache(config.LanguageCacheTTL, config.ActivationCacheTTL)
	store := service.NewGroupStore(kv, cache)
	gate := service.NewGate(store, cfg.Marker, cfg.MinWords, cfg.MaxWords)
	prompts := service.NewPromptBuilder(service.PromptTemplates{
		Correction: cfg.CorrectionPrompt,
		Translate:  cfg.TranslatePrompt,
		Detection:  cfg.DetectionPrompt,
	}, cfg.DefaultLanguage)
	provider := service.NewOpenAIService(cfg.OpenAIKey)
	processor := service.NewProcessor(store, provider, cfg.UseChatAPI, cfg.DepletedNotice)
	admin := service.NewAdmin(store, cfg.DefaultLanguage)

	// Handler pointer for use in the default handler closure
	var h *handler.Handler

	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil {
				return
			}
			if update.MyChatMember != nil {
				h.HandleMyChatMember(ctx, b, update)
				return
			}
			if update.Message != nil && update.Message.NewChatTitle != "" {
				h.HandleTitleChange(ctx, b, update)
			}
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	h = handler.New(handler.Deps{
		Bot:       b,
		Cfg:       cfg,
		Store:     store,
		Gate:      gate,
		Prompts:   prompts,
		Processor: processor,
		Provider:  provider,
		Admin:     admin,
	})

	// Register admin command handlers
	h.Register()

	// Register the group text handler for correction requests
	b.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		if len(update.Message.Text) > 0 && update.Message.Text[0] == '/' {
			return
		}
		h.HandleTextGroup(ctx, b, update)
	})

	slog.Info("starting bot")
	b.Start(ctx)

	slog.Info("bot stopped gracefully")
}
