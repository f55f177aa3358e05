package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"airdrop_backend/internal/model"
	"airdrop_backend/internal/service"
	"airdrop_backend/pkg/auth"
	"airdrop_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

const (
	actionCompleteTask  = "complete-task"
	actionCheckTelegram = "check-telegram"
	actionLeaderboard   = "leaderboard"
	actionExport        = "export"
	actionStats         = "stats"
)

// clientMessages holds the wording the campaign frontend displays for each
// rejected request.
var clientMessages = map[error]string{
	service.ErrWalletRequired:        "Wallet address required",
	service.ErrMissingFields:         "Missing required fields: walletAddress, taskId, points",
	service.ErrInvalidPoints:         "Invalid points value",
	service.ErrTaskAlreadyCompleted:  "Task already completed",
	service.ErrTelegramIDRequired:    "Telegram User ID required",
	service.ErrTelegramAlreadyLinked: "This Telegram account is already linked to another wallet",
	service.ErrTelegramMismatch:      "Telegram User ID does not match the authenticated Telegram account",
	service.ErrInvalidTelegramID:     "Telegram User ID must be a positive integer",
}

// AirdropPath is where the ledger routes are mounted below the API group.
const AirdropPath = "/airdrop"

type airdropRoutes struct {
	ls service.LedgerServiceI
}

func NewAirdropRoutes(handler *gin.RouterGroup, ls service.LedgerServiceI, a *auth.TelegramAuth) {
	r := &airdropRoutes{ls: ls}
	h := handler.Group(AirdropPath)
	{
		h.OPTIONS("", r.Preflight)
		h.GET("", r.GetProgress)
		h.POST("", onlyForAction(actionCompleteTask, a.OptionalTelegramAuth()), r.Dispatch)
	}
}

// onlyForAction runs mw for requests to the given action and skips it otherwise.
func onlyForAction(action string, mw gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("action") != action {
			c.Next()
			return
		}
		mw(c)
	}
}

// CORSConfig allows every origin to call the ledger from the campaign frontend.
func CORSConfig() cors.Config {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodOptions,
	}
	config.AllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	config.OptionsResponseStatusCode = http.StatusOK
	config.MaxAge = 12 * time.Hour
	return config
}

// PathCORS applies the ledger CORS policy to every response under prefix,
// including the engine's 405 responses.
func PathCORS(prefix string) gin.HandlerFunc {
	handler := cors.New(CORSConfig())
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, prefix) {
			c.Next()
			return
		}
		handler(c)
	}
}

// MethodNotAllowed is installed as the engine's NoMethod handler.
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
}

// Preflight answers OPTIONS requests that reach the router without an Origin header.
func (r *airdropRoutes) Preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (r *airdropRoutes) GetProgress(c *gin.Context) {
	log := logger.Logger()

	wallet := c.Query("wallet")
	progress, err := r.ls.GetProgress(c.Request.Context(), wallet)
	if err != nil {
		if errors.Is(err, service.ErrWalletRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": clientMessages[service.ErrWalletRequired]})
			return
		}
		log.Error("failed to get progress", zap.String("wallet", wallet), zap.Error(err))
		r.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    progress,
	})
}

func (r *airdropRoutes) Dispatch(c *gin.Context) {
	switch c.Query("action") {
	case actionCompleteTask:
		r.CompleteTask(c)
	case actionCheckTelegram:
		r.CheckTelegram(c)
	case actionLeaderboard:
		r.GetLeaderboard(c)
	case actionExport:
		r.Export(c)
	case actionStats:
		r.GetStats(c)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
	}
}

type CompleteTaskRequest struct {
	WalletAddress  string           `json:"walletAddress"`
	TaskID         string           `json:"taskId"`
	Points         *int64           `json:"points"`
	TelegramUserID model.TelegramID `json:"telegramUserId"`
}

func (r *airdropRoutes) CompleteTask(c *gin.Context) {
	log := logger.Logger()

	var req CompleteTaskRequest
	if err := bindBody(c, &req); err != nil {
		log.Info("failed to bind complete-task request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}

	in := service.CompleteTaskInput{
		WalletAddress:  req.WalletAddress,
		TaskID:         req.TaskID,
		Points:         req.Points,
		TelegramUserID: req.TelegramUserID,
	}
	if user, ok := auth.UserFromContext(c); ok {
		in.AuthenticatedTelegramID = model.TelegramID(strconv.FormatInt(user.ID, 10))
	}

	progress, err := r.ls.CompleteTask(c.Request.Context(), in)
	if err != nil {
		r.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    progress,
	})
}

type CheckTelegramRequest struct {
	TelegramUserID model.TelegramID `json:"telegramUserId"`
	WalletAddress  string           `json:"walletAddress"`
}

func (r *airdropRoutes) CheckTelegram(c *gin.Context) {
	log := logger.Logger()

	var req CheckTelegramRequest
	if err := bindBody(c, &req); err != nil {
		log.Info("failed to bind check-telegram request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request"})
		return
	}

	res, err := r.ls.CheckTelegram(c.Request.Context(), req.TelegramUserID, req.WalletAddress)
	if err != nil {
		r.serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"available":    res.Available,
		"linkedWallet": res.LinkedWallet,
	})
}

type LeaderboardEntryResponse struct {
	Rank           int    `json:"rank"`
	Address        string `json:"address"`
	Points         int64  `json:"points"`
	TasksCompleted int    `json:"tasksCompleted"`
}

func (r *airdropRoutes) GetLeaderboard(c *gin.Context) {
	log := logger.Logger()

	// Unparseable limits fall through to the repository default.
	limit, _ := strconv.Atoi(c.Query("limit"))

	board, err := r.ls.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		log.Error("failed to get leaderboard", zap.Error(err))
		r.internalError(c, err)
		return
	}

	out := make([]LeaderboardEntryResponse, len(board))
	for i, e := range board {
		out[i] = LeaderboardEntryResponse{
			Rank:           e.Rank,
			Address:        e.Address,
			Points:         e.Points,
			TasksCompleted: e.TasksCompleted,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    out,
	})
}

func (r *airdropRoutes) Export(c *gin.Context) {
	log := logger.Logger()

	format := service.ParseExportFormat(c.Query("format"))
	res, err := r.ls.Export(c.Request.Context(), format)
	if err != nil {
		log.Error("failed to export", zap.String("format", string(format)), zap.Error(err))
		r.internalError(c, err)
		return
	}

	if res.Filename != "" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	}
	c.Data(http.StatusOK, res.ContentType, res.Body)
}

func (r *airdropRoutes) GetStats(c *gin.Context) {
	log := logger.Logger()

	stats, err := r.ls.GetStats(c.Request.Context())
	if err != nil {
		log.Error("failed to get stats", zap.Error(err))
		r.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"totalParticipants":      stats.TotalParticipants,
			"totalPointsDistributed": stats.TotalPointsDistributed,
			"totalTelegramLinks":     stats.TotalTelegramLinks,
			"averagePointsPerUser":   stats.AveragePointsPerUser,
			"taskCompletionRates":    stats.TaskCompletionCounts,
		},
	})
}

func (r *airdropRoutes) serviceError(c *gin.Context, err error) {
	for target, msg := range clientMessages {
		if errors.Is(err, target) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
			return
		}
	}

	logger.Logger().Error("ledger request failed", zap.Error(err))
	r.internalError(c, err)
}

func (r *airdropRoutes) internalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
}

// bindBody decodes an optional JSON body. An empty body leaves v untouched so
// that field validation reports what is missing.
func bindBody(c *gin.Context, v any) error {
	raw, err := c.GetRawData()
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}
