package config

import "time"

const (
	// Provider call timeouts
	RequestTimeout   = 60 * time.Second
	DetectionTimeout = 15 * time.Second

	// Advisory cache TTLs for group language and activation lookups
	LanguageCacheTTL   = 30 * 24 * time.Hour
	ActivationCacheTTL = 30 * 24 * time.Hour

	// Max tokens granted to the language detection call
	DetectionMaxTokens = 10

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Reaction sent when no correction was necessary
	NoCorrectionReaction = "🏆"
)
