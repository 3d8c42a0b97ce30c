package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BotToken  string `env:"BOT_TOKEN,required"`
	OpenAIKey string `env:"OPENAI_API_KEY,required"`

	// Redis (group store backend)
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Admin
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Message eligibility
	Marker   string `env:"MESSAGE_MARKER" envDefault:".."`
	MinWords int    `env:"MIN_WORDS" envDefault:"4"`
	MaxWords int    `env:"MAX_WORDS" envDefault:"35"`

	// Language handling
	DefaultLanguage string `env:"DEFAULT_LANGUAGE" envDefault:"Deutsch"`

	// Completion provider
	Model       string  `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	MaxTokens   int     `env:"OPENAI_MAX_TOKENS" envDefault:"150"`
	Temperature float64 `env:"OPENAI_TEMPERATURE" envDefault:"0.3"`
	// UseChatAPI selects the chat completions endpoint. The legacy
	// completions endpoint stays available for instruct models.
	UseChatAPI     bool   `env:"OPENAI_USE_CHAT_API" envDefault:"true"`
	DetectionModel string `env:"OPENAI_DETECTION_MODEL" envDefault:"gpt-4o-mini"`

	// Prompt templates. {language} is replaced with the group's target
	// language before the template is sent to the provider.
	CorrectionPrompt string `env:"PROMPT_CORRECTION" envDefault:"Correct the grammar and spelling of the following text, keeping its language. Reply with the corrected text only:"`
	TranslatePrompt  string `env:"PROMPT_TRANSLATE" envDefault:"Translate the following text into {language} and correct its grammar. Reply with the translation only:"`
	DetectionPrompt  string `env:"PROMPT_DETECTION" envDefault:"Name the language the following text is written in. Reply with the language name only:"`

	// User-facing notices
	InactiveNotice string `env:"NOTICE_INACTIVE" envDefault:"This bot is only active for selected groups. Please contact the bot administrator."`
	DepletedNotice string `env:"NOTICE_DEPLETED" envDefault:"Your group's credit has been depleted. Please recharge your account to continue using the bot."`
	FailureNotice  string `env:"NOTICE_FAILURE" envDefault:"Something went wrong while processing your message. Please try again later."`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}
