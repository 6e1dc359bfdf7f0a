package chat

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/mindful-journal/backend/internal/logger"
	"github.com/zhouzirui/mindful-journal/backend/internal/middleware"
	"github.com/zhouzirui/mindful-journal/backend/internal/model/chat"
	chatService "github.com/zhouzirui/mindful-journal/backend/internal/service/chat"
	"github.com/zhouzirui/mindful-journal/backend/internal/service/recommend"
	"github.com/zhouzirui/mindful-journal/backend/pkg/utils"
)

// Handler 对话教练的HTTP处理器
type Handler struct {
	sessions *chatService.Service
}

// New 创建对话处理器
func New(sessions *chatService.Service) *Handler {
	return &Handler{sessions: sessions}
}

// RegisterRoutes 注册对话相关路由。ensure 为缺少会话时签发 cookie 的中间件。
func (h *Handler) RegisterRoutes(r chi.Router, ensure func(http.Handler) http.Handler) {
	r.With(ensure).Post("/chat", h.handleChat)
	r.Post("/reset", h.handleReset)
	r.Get("/history", h.handleHistory)
}

type chatRequest struct {
	Message string      `json:"message"`
	History []chat.Turn `json:"history"`
}

type chatResponse struct {
	Message         string           `json:"message"`
	Emotion         string           `json:"emotion"`
	Recommendations recommend.Bundle `json:"recommendations"`
}

// handleChat 处理一条用户消息并返回教练回复
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	sessionID, _ := middleware.SessionID(r.Context())
	session, created, err := h.sessions.GetOrCreate(sessionID)
	if err != nil {
		logger.S().Errorw("resolve coaching session", "sessionID", sessionID, "error", err)
		utils.RespondJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if created {
		logger.S().Infow("coaching session created", "sessionID", sessionID)
	}

	// 只有问候语时无需重建上下文
	if len(payload.History) > 1 {
		session.Replay(r.Context(), payload.History[:len(payload.History)-1])
	}

	reply := session.Respond(r.Context(), payload.Message)
	current := session.CurrentEmotion()

	utils.RespondJSON(w, http.StatusOK, chatResponse{
		Message:         reply,
		Emotion:         current,
		Recommendations: recommend.Recommend(current),
	})
}

// handleReset 清空当前会话
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionID(r.Context())
	session, err := h.sessions.Get(sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Session not found")
		return
	}

	session.Reset()
	utils.RespondSuccess(w, map[string]any{"message": "Conversation reset"})
}

// handleHistory 返回会话记录与情绪历史
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := middleware.SessionID(r.Context())
	session, err := h.sessions.Get(sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"history":  session.Transcript(),
		"emotions": session.EmotionHistory(),
	})
}
