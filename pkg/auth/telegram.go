package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"airdrop_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"
)

const (
	expTime = 24 * time.Hour

	authScheme = "Telegram "

	// UserContextKey holds a *TelegramUserData once init data has been accepted.
	UserContextKey = "telegram_user"
)

var errMissingUser = errors.New("init data carries no user")

type TelegramAuth struct {
	botToken  string
	debugMode bool
}

func NewTelegramAuth(botToken string, debugMode bool) *TelegramAuth {
	return &TelegramAuth{
		botToken:  botToken,
		debugMode: debugMode,
	}
}

// OptionalTelegramAuth authenticates requests that carry mini-app init data
// and lets anonymous requests through untouched. A header that is present but
// invalid is rejected.
func (t *TelegramAuth) OptionalTelegramAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		if !strings.HasPrefix(authHeader, authScheme) {
			log.Info("invalid authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid authorization format"})
			return
		}

		initData := strings.TrimPrefix(authHeader, authScheme)
		if !t.debugMode {
			if t.botToken == "" {
				log.Error("init data received but no bot token is configured")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "telegram auth is not configured"})
				return
			}
			if err := initdata.Validate(initData, t.botToken, expTime); err != nil {
				log.Info("invalid telegram init data", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid telegram auth data"})
				return
			}
		}

		telegramUserData, err := ExtractTelegramData(initData)
		if err != nil {
			log.Info("failed to extract telegram data", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid telegram data"})
			return
		}

		c.Set(UserContextKey, telegramUserData)
		c.Next()
	}
}

type TelegramUserData struct {
	ID       int64
	Username string
	AuthDate time.Time
}

func ExtractTelegramData(initData string) (*TelegramUserData, error) {
	parsed, err := initdata.Parse(initData)
	if err != nil {
		return nil, err
	}
	if parsed.User.ID == 0 {
		return nil, errMissingUser
	}

	return &TelegramUserData{
		ID:       parsed.User.ID,
		Username: parsed.User.Username,
		AuthDate: parsed.AuthDate(),
	}, nil
}

// UserFromContext returns the authenticated Telegram user, if any.
func UserFromContext(c *gin.Context) (*TelegramUserData, bool) {
	v, ok := c.Get(UserContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*TelegramUserData)
	return user, ok
}
