package breathing

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/mindful-journal/backend/internal/logger"
	"github.com/zhouzirui/mindful-journal/backend/internal/middleware"
	"github.com/zhouzirui/mindful-journal/backend/internal/model/breathing"
	chatService "github.com/zhouzirui/mindful-journal/backend/internal/service/chat"
	"github.com/zhouzirui/mindful-journal/backend/internal/service/recommend"
	"github.com/zhouzirui/mindful-journal/backend/internal/vision"
	"github.com/zhouzirui/mindful-journal/backend/pkg/utils"
)

const (
	readTimeout    = 60 * time.Second
	writeTimeout   = 10 * time.Second
	pingInterval   = 54 * time.Second
	labelPollEvery = 500 * time.Millisecond
)

// Handler 呼吸练习与摄像头画面的HTTP处理器
type Handler struct {
	catalog   breathing.Store
	sessions  *chatService.Service
	exercise  *vision.Breathing
	feed      *vision.EmotionFeed
	upgrader  websocket.Upgrader
	pollEvery time.Duration
}

// New 创建呼吸练习处理器
func New(catalog breathing.Store, sessions *chatService.Service, exercise *vision.Breathing, feed *vision.EmotionFeed) *Handler {
	return &Handler{
		catalog:  catalog,
		sessions: sessions,
		exercise: exercise,
		feed:     feed,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		pollEvery: labelPollEvery,
	}
}

// RegisterRoutes 注册呼吸练习与视觉相关路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/breathing/info", h.handleInfo)
	r.Get("/breathing/toggle_mode", h.handleToggleMode)
	r.Get("/breathing/ws", h.handleWebSocket)
	r.Get("/video_feed", h.handleVideoFeed)
	r.Get("/emotion_feed", h.handleEmotionFeed)
	r.Get("/emotion_feed/label", h.handleFeedLabel)
}

// CurrentEmotion 返回会话当前情绪，没有会话时为 neutral
func (h *Handler) CurrentEmotion(ctx context.Context) string {
	sessionID, ok := middleware.SessionID(ctx)
	if !ok {
		return "neutral"
	}
	session, err := h.sessions.Get(sessionID)
	if err != nil {
		return "neutral"
	}
	return session.CurrentEmotion()
}

// pattern 优先使用 type 参数，否则按会话情绪推荐
func (h *Handler) pattern(r *http.Request) breathing.Pattern {
	if kind := r.URL.Query().Get("type"); kind != "" {
		return h.catalog.Resolve(kind)
	}
	return h.catalog.Resolve(recommend.BreathingPattern(h.CurrentEmotion(r.Context())))
}

func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("type")
	if kind == "" {
		kind = breathing.Focus
	}
	utils.RespondJSON(w, http.StatusOK, h.catalog.Resolve(kind).Instructions())
}

func (h *Handler) handleToggleMode(w http.ResponseWriter, r *http.Request) {
	guided := h.exercise.ToggleMode()
	logger.S().Infow("breathing mode toggled", "guided", guided)
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"guided": guided})
}

// handleVideoFeed 输出带呼吸引导叠加层的 MJPEG 画面
func (h *Handler) handleVideoFeed(w http.ResponseWriter, r *http.Request) {
	pattern := h.pattern(r)
	sink := vision.NewMJPEGWriter(w)

	logger.S().Infow("breathing stream opened", "exercise", pattern.ID, "guided", h.exercise.Guided())
	err := h.exercise.Stream(r.Context(), pattern, sink)
	h.finishStream(w, sink, "breathing", err)
}

// handleEmotionFeed 输出带人脸情绪标注的 MJPEG 画面
func (h *Handler) handleEmotionFeed(w http.ResponseWriter, r *http.Request) {
	sink := vision.NewMJPEGWriter(w)

	logger.S().Infow("emotion feed opened")
	err := h.feed.Stream(r.Context(), sink)
	h.finishStream(w, sink, "emotion feed", err)
}

func (h *Handler) finishStream(w http.ResponseWriter, sink *vision.MJPEGWriter, name string, err error) {
	switch {
	case err == nil:
		logger.S().Infow("stream closed", "stream", name)
	case sink.Started():
		// 已经开始输出帧，只能记录日志
		logger.S().Warnw("stream aborted", "stream", name, "error", err)
	case errors.Is(err, vision.ErrCameraBusy):
		utils.RespondError(w, http.StatusConflict, "Camera is in use by another stream")
	default:
		logger.S().Errorw("stream failed", "stream", name, "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "Server error: "+err.Error())
	}
}

// handleFeedLabel 以 SSE 推送实时画面的当前情绪
func (h *Handler) handleFeedLabel(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	ticker := time.NewTicker(h.pollEvery)
	defer ticker.Stop()

	last := ""
	for {
		label, confidence := h.feed.Current()
		if label != last {
			if err := utils.SendSSEEvent(w, flusher, "emotion", map[string]any{
				"emotion":    label,
				"confidence": confidence,
			}); err != nil {
				return
			}
			last = label
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// handleWebSocket 推送呼吸阶段，供前端自行绘制动画
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	pattern := h.pattern(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.S().Warnw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	// 客户端只会发送关闭帧，读循环用来感知断开
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.S().Warnw("websocket read error", "error", err)
				}
				return
			}
		}
	}()
	go pingLoop(ctx, conn)

	logger.S().Infow("breathing guide connected", "exercise", pattern.ID)
	err = h.exercise.Guide(ctx, pattern, func(state vision.PhaseState) error {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		return conn.WriteJSON(phaseMessage{Exercise: pattern.ID, PhaseState: state})
	})
	if err != nil {
		logger.S().Infow("breathing guide stopped", "error", err)
		return
	}

	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "exercise complete"),
		time.Now().Add(writeTimeout))
}

type phaseMessage struct {
	Exercise string `json:"exercise"`
	vision.PhaseState
}

func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
