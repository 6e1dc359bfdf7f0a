package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/mindful-journal/backend/internal/config"
	"github.com/zhouzirui/mindful-journal/backend/internal/handler/breathing"
	"github.com/zhouzirui/mindful-journal/backend/internal/handler/chat"
	"github.com/zhouzirui/mindful-journal/backend/internal/handler/journal"
	"github.com/zhouzirui/mindful-journal/backend/internal/handler/page"
	"github.com/zhouzirui/mindful-journal/backend/internal/logger"
	"github.com/zhouzirui/mindful-journal/backend/internal/middleware"
	breathingModel "github.com/zhouzirui/mindful-journal/backend/internal/model/breathing"
	chatService "github.com/zhouzirui/mindful-journal/backend/internal/service/chat"
	journalService "github.com/zhouzirui/mindful-journal/backend/internal/service/journal"
	"github.com/zhouzirui/mindful-journal/backend/internal/vision"
	"github.com/zhouzirui/mindful-journal/backend/pkg/utils"
)

// Deps 汇总路由需要的服务
type Deps struct {
	Session  config.SessionConfig
	Sessions *chatService.Service
	Journal  *journalService.Service
	Catalog  breathingModel.Store
	Exercise *vision.Breathing
	Feed     *vision.EmotionFeed
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	cookies := middleware.NewSessions(deps.Session)

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger.S()))
	r.Use(middleware.Recoverer(logger.S()))
	r.Use(middleware.CORS)
	r.Use(cookies.Load)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"sessions": deps.Sessions.Len(),
		})
	})

	page.New(deps.Sessions, deps.Journal, deps.Catalog).RegisterRoutes(r, cookies.Ensure)
	chat.New(deps.Sessions).RegisterRoutes(r, cookies.Ensure)
	journal.New(deps.Journal).RegisterRoutes(r, cookies.Ensure)
	breathing.New(deps.Catalog, deps.Sessions, deps.Exercise, deps.Feed).RegisterRoutes(r)

	return r
}
