package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"airdrop_backend/internal/bot"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Bot    BotConfig    `mapstructure:"bot"`

	TelegramAuth TelegramAuthConfig `mapstructure:"telegramAuth"`

	LogLevel string `mapstructure:"logLevel"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type BotConfig struct {
	Token  string `mapstructure:"token"`
	ChatID string `mapstructure:"chatId"`
	// WebhookURL, when set, is registered with Telegram at startup.
	WebhookURL     string        `mapstructure:"webhookUrl"`
	RequestTimeout time.Duration `mapstructure:"requestTimeout"`
	Workers        int           `mapstructure:"workers"`
	QueueSize      int           `mapstructure:"queueSize"`

	Name         string `mapstructure:"name"`
	Project      string `mapstructure:"project"`
	TokenSymbol  string `mapstructure:"tokenSymbol"`
	CommunityURL string `mapstructure:"communityUrl"`
	FrontendURL  string `mapstructure:"frontendUrl"`
	TwitterURL   string `mapstructure:"twitterUrl"`
}

func (c BotConfig) Messages() bot.Messages {
	return bot.Messages{
		BotName:      c.Name,
		Project:      c.Project,
		TokenSymbol:  c.TokenSymbol,
		CommunityURL: c.CommunityURL,
		FrontendURL:  c.FrontendURL,
		TwitterURL:   c.TwitterURL,
	}
}

type TelegramAuthConfig struct {
	// Debug accepts mini-app init data without checking its signature.
	Debug bool `mapstructure:"debug"`
}

// envAliases are the variable names the bot was first deployed with.
var envAliases = map[string][]string{
	"bot.token":       {"APP_BOT_TOKEN", "TELEGRAM_BOT_TOKEN"},
	"bot.chatId":      {"APP_BOT_CHATID", "TELEGRAM_CHAT_ID"},
	"bot.frontendUrl": {"APP_BOT_FRONTENDURL", "FRONTEND_URL"},
}

func setDefaults(v *viper.Viper) {
	messages := bot.DefaultMessages()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("logLevel", "info")

	v.SetDefault("bot.token", "")
	v.SetDefault("bot.chatId", "")
	v.SetDefault("bot.webhookUrl", "")
	v.SetDefault("bot.requestTimeout", 10*time.Second)
	v.SetDefault("bot.workers", bot.DefaultWorkers)
	v.SetDefault("bot.queueSize", bot.DefaultQueueSize)
	v.SetDefault("bot.name", messages.BotName)
	v.SetDefault("bot.project", messages.Project)
	v.SetDefault("bot.tokenSymbol", messages.TokenSymbol)
	v.SetDefault("bot.communityUrl", messages.CommunityURL)
	v.SetDefault("bot.frontendUrl", messages.FrontendURL)
	v.SetDefault("bot.twitterUrl", messages.TwitterURL)

	v.SetDefault("telegramAuth.debug", false)
}

func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	return loadConfig(viper.New(), configPath)
}

func loadConfig(v *viper.Viper, path string) (*Config, error) {
	v.SetConfigName(configName)
	v.AddConfigPath(path)
	v.SetConfigType(configFormat)

	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
