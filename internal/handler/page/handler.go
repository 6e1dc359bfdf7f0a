// Package page renders the browser pages of the journal.
package page

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/mindful-journal/backend/internal/logger"
	"github.com/zhouzirui/mindful-journal/backend/internal/middleware"
	"github.com/zhouzirui/mindful-journal/backend/internal/model/breathing"
	"github.com/zhouzirui/mindful-journal/backend/internal/model/journal"
	chatService "github.com/zhouzirui/mindful-journal/backend/internal/service/chat"
	journalService "github.com/zhouzirui/mindful-journal/backend/internal/service/journal"
	"github.com/zhouzirui/mindful-journal/backend/internal/service/recommend"
	"github.com/zhouzirui/mindful-journal/backend/pkg/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Handler 页面渲染处理器
type Handler struct {
	sessions *chatService.Service
	journal  *journalService.Service
	catalog  breathing.Store
}

// New 创建页面处理器
func New(sessions *chatService.Service, journal *journalService.Service, catalog breathing.Store) *Handler {
	return &Handler{sessions: sessions, journal: journal, catalog: catalog}
}

// RegisterRoutes 注册页面路由，所有页面都会确保存在会话。
func (h *Handler) RegisterRoutes(r chi.Router, ensure func(http.Handler) http.Handler) {
	r.Group(func(pr chi.Router) {
		pr.Use(ensure)
		pr.Get("/", h.handleHome)
		pr.Get("/chat", h.handleChat)
		pr.Get("/journal", h.handleJournal)
		pr.Get("/breathing", h.handleBreathing)
	})
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	h.ensureCoach(r)
	h.render(w, "index.html", nil)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	h.ensureCoach(r)
	h.render(w, "chat.html", nil)
}

type journalPage struct {
	Prompt journal.Prompt
}

func (h *Handler) handleJournal(w http.ResponseWriter, r *http.Request) {
	prompt, err := h.journal.Prompt(r.Context(), h.currentEmotion(r.Context()))
	if err != nil {
		logger.S().Warnw("draw prompt for journal page", "error", err)
		prompt = journal.DefaultPrompt
	}
	h.render(w, "journal.html", journalPage{Prompt: prompt})
}

type breathingPage struct {
	Emotion     string
	Recommended string
	Exercises   map[string]string
	Info        breathing.Instructions
}

func (h *Handler) handleBreathing(w http.ResponseWriter, r *http.Request) {
	current := h.currentEmotion(r.Context())
	recommended := recommend.BreathingPattern(current)

	h.render(w, "breathing.html", breathingPage{
		Emotion:     current,
		Recommended: recommended,
		Exercises:   h.catalog.Summaries(),
		Info:        h.catalog.Resolve(recommended).Instructions(),
	})
}

// ensureCoach 为访客创建对话会话
func (h *Handler) ensureCoach(r *http.Request) {
	sessionID, _ := middleware.SessionID(r.Context())
	if _, created, err := h.sessions.GetOrCreate(sessionID); err != nil {
		logger.S().Warnw("create coaching session", "error", err)
	} else if created {
		logger.S().Infow("coaching session created", "sessionID", sessionID)
	}
}

func (h *Handler) currentEmotion(ctx context.Context) string {
	sessionID, _ := middleware.SessionID(ctx)
	session, err := h.sessions.Get(sessionID)
	if err != nil {
		return "neutral"
	}
	return session.CurrentEmotion()
}

// render 先渲染到缓冲区，模板出错时仍可返回 500
func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		logger.S().Errorw("render page", "page", name, "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "Server error: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
