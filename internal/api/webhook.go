package api

import (
	"net/http"
	"time"

	"airdrop_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/goccy/go-json"
)

// UpdateQueue accepts updates for background processing.
type UpdateQueue interface {
	Enqueue(update tgbotapi.Update) bool
}

type webhookRoutes struct {
	queue   UpdateQueue
	botName string
	now     func() time.Time
}

func NewWebhookRoutes(handler *gin.RouterGroup, queue UpdateQueue, botName string) {
	r := &webhookRoutes{queue: queue, botName: botName, now: time.Now}
	h := handler.Group("/webhook")
	{
		h.GET("", r.Health)
		h.POST("", r.ReceiveUpdate)
	}
}

func (r *webhookRoutes) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"bot":       r.botName,
		"timestamp": r.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

// ReceiveUpdate always acknowledges with 200 so Telegram does not redeliver.
func (r *webhookRoutes) ReceiveUpdate(c *gin.Context) {
	log := logger.Logger()

	raw, err := c.GetRawData()
	if err != nil {
		log.Warn("failed to read webhook body", zap.Error(err))
		c.String(http.StatusOK, "OK")
		return
	}

	var update tgbotapi.Update
	if err := json.Unmarshal(raw, &update); err != nil {
		log.Warn("failed to decode telegram update", zap.Error(err))
		c.String(http.StatusOK, "OK")
		return
	}

	r.queue.Enqueue(update)
	c.String(http.StatusOK, "OK")
}
