package journal

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/mindful-journal/backend/internal/logger"
	"github.com/zhouzirui/mindful-journal/backend/internal/middleware"
	journalService "github.com/zhouzirui/mindful-journal/backend/internal/service/journal"
	"github.com/zhouzirui/mindful-journal/backend/internal/store"
	"github.com/zhouzirui/mindful-journal/backend/pkg/utils"
)

const defaultPageSize = 10

// Handler 日记相关的HTTP处理器
type Handler struct {
	journal *journalService.Service
}

// New 创建日记处理器
func New(journal *journalService.Service) *Handler {
	return &Handler{journal: journal}
}

// RegisterRoutes 注册日记路由。只有保存会在缺少会话时签发新会话。
func (h *Handler) RegisterRoutes(r chi.Router, ensure func(http.Handler) http.Handler) {
	// 使用完整路径注册，避免挂载子路由覆盖 GET /journal 页面
	r.With(ensure).Post("/journal/save", h.handleSave)
	r.Get("/journal/prompt", h.handlePrompt)

	r.Group(func(owned chi.Router) {
		owned.Use(requireSession)
		owned.Get("/journal/entries", h.handleEntries)
		owned.Get("/journal/entry/{id}", h.handleEntry)
		owned.Post("/journal/favorite/{id}", h.handleFavorite)
		owned.Get("/journal/analytics", h.handleAnalytics)
	})
}

func requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.SessionID(r.Context()); !ok {
			utils.RespondError(w, http.StatusUnauthorized, "No active session")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type saveRequest struct {
	EntryText  string `json:"entry_text"`
	PromptUsed string `json:"prompt_used"`
	Emotion    string `json:"emotion"`
}

// handleSave 保存日记，未指定情绪时自动识别
func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	var payload *saveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload == nil {
		utils.RespondError(w, http.StatusBadRequest, "No data received")
		return
	}
	if strings.TrimSpace(payload.EntryText) == "" {
		utils.RespondError(w, http.StatusBadRequest, "Journal entry text cannot be empty")
		return
	}

	sessionID, _ := middleware.SessionID(r.Context())
	res, err := h.journal.Save(r.Context(), journalService.SaveInput{
		OwnerID:    sessionID,
		Text:       payload.EntryText,
		PromptUsed: payload.PromptUsed,
		Emotion:    payload.Emotion,
	})
	if err != nil {
		logger.S().Errorw("save journal entry", "sessionID", sessionID, "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "Server error: "+err.Error())
		return
	}

	utils.RespondSuccess(w, map[string]any{
		"entry_id":         res.EntryID,
		"detected_emotion": res.DetectedEmotion,
		"sentiment_score":  res.SentimentScore,
	})
}

// handleEntries 分页列出日记，最新的在前
func (h *Handler) handleEntries(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionID(r.Context())
	limit := queryInt(r, "limit", defaultPageSize)
	offset := queryInt(r, "offset", 0)

	entries, err := h.journal.Entries(r.Context(), sessionID, limit, offset)
	if err != nil {
		logger.S().Errorw("list journal entries", "sessionID", sessionID, "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "Server error: "+err.Error())
		return
	}

	utils.RespondSuccess(w, map[string]any{"entries": entries})
}

// handleEntry 获取单条日记
func (h *Handler) handleEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "Entry not found")
		return
	}

	sessionID, _ := middleware.SessionID(r.Context())
	entry, err := h.journal.Entry(r.Context(), id, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, "Entry not found")
		return
	}
	if err != nil {
		logger.S().Errorw("get journal entry", "entryID", id, "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "Server error: "+err.Error())
		return
	}

	utils.RespondSuccess(w, map[string]any{"entry": entry})
}

// handlePrompt 按情绪随机抽取写作提示
func (h *Handler) handlePrompt(w http.ResponseWriter, r *http.Request) {
	prompt, err := h.journal.Prompt(r.Context(), r.URL.Query().Get("emotion"))
	if err != nil {
		logger.S().Errorw("draw journal prompt", "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "Server error: "+err.Error())
		return
	}

	utils.RespondSuccess(w, map[string]any{"prompt": prompt})
}

// handleFavorite 切换收藏状态
func (h *Handler) handleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "Entry not found")
		return
	}

	sessionID, _ := middleware.SessionID(r.Context())
	favorite, err := h.journal.ToggleFavorite(r.Context(), id, sessionID)
	if err != nil {
		logger.S().Warnw("toggle favorite", "entryID", id, "sessionID", sessionID, "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to toggle favorite status")
		return
	}

	utils.RespondSuccess(w, map[string]any{
		"message":     "Favorite status toggled",
		"is_favorite": favorite,
	})
}

// handleAnalytics 返回情绪统计
func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionID(r.Context())
	days := queryInt(r, "days", journalService.DefaultAnalyticsDays)

	analytics, err := h.journal.Analytics(r.Context(), sessionID, days)
	if err != nil {
		logger.S().Errorw("mood analytics", "sessionID", sessionID, "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "Server error: "+err.Error())
		return
	}

	utils.RespondSuccess(w, map[string]any{"analytics": analytics})
}

// queryInt 读取整数查询参数，缺失或非法时使用默认值
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}
