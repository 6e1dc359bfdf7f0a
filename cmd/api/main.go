package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/mindful-journal/backend/internal/config"
	"github.com/zhouzirui/mindful-journal/backend/internal/handler"
	"github.com/zhouzirui/mindful-journal/backend/internal/logger"
	"github.com/zhouzirui/mindful-journal/backend/internal/model/breathing"
	"github.com/zhouzirui/mindful-journal/backend/internal/service/ai"
	"github.com/zhouzirui/mindful-journal/backend/internal/service/chat"
	"github.com/zhouzirui/mindful-journal/backend/internal/service/coach"
	emotionservice "github.com/zhouzirui/mindful-journal/backend/internal/service/emotion"
	"github.com/zhouzirui/mindful-journal/backend/internal/service/journal"
	"github.com/zhouzirui/mindful-journal/backend/internal/store"
	"github.com/zhouzirui/mindful-journal/backend/internal/vision"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	sugar, err := logger.Init(cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer sugar.Sync()

	if envErr != nil {
		sugar.Infow("no .env file loaded, continuing with system environment variables only", "error", envErr)
	}

	// Open the journal database
	retry := store.DefaultRetryPolicy()
	retry.MaxAttempts = cfg.Store.RetryAttempts
	retry.BaseDelay = cfg.Store.RetryBase
	journalStore, err := store.Open(ctx, cfg.Store.Path,
		store.WithBusyTimeout(cfg.Store.BusyTimeout),
		store.WithRetryPolicy(retry))
	if err != nil {
		sugar.Fatalw("failed to open journal database", "path", cfg.Store.Path, "error", err)
	}
	defer journalStore.Close()
	sugar.Infow("journal database ready", "path", journalStore.Path())

	// Initialize AI service
	var generator ai.Generator
	if cfg.AI.Enabled() {
		chatModel, err := cfg.AI.NewChatModel(ctx)
		if err != nil {
			sugar.Warnw("failed to create chat model, continuing without AI functionality", "error", err)
		} else if aiService, err := ai.NewService(ctx, chatModel); err != nil {
			sugar.Warnw("failed to initialize AI service, continuing without AI functionality", "error", err)
		} else {
			generator = aiService
			sugar.Infow("AI service initialized", "model", cfg.AI.Model)
		}
	} else {
		sugar.Infow("Ark 凭证未配置，使用关键词情绪识别与内置回复")
	}

	detector := emotionservice.NewService(generator)
	sessions, err := chat.NewService(cfg.Session.Capacity, func() *coach.Session {
		return coach.NewSession(detector, generator)
	})
	if err != nil {
		sugar.Fatalw("failed to create session registry", "error", err)
	}

	exercise, feed := newVision(cfg.Vision)
	router := handler.NewRouter(handler.Deps{
		Session:  cfg.Session,
		Sessions: sessions,
		Journal:  journal.NewService(journalStore, detector),
		Catalog:  breathing.NewCatalog(breathing.Seed()),
		Exercise: exercise,
		Feed:     feed,
	})

	startServer(ctx, cfg.Server, router)
}

// newVision 选择摄像头来源：配置了快照地址时轮询该地址，否则使用合成画面。
// 两个画面共享同一个设备，同一时间只能有一路在播放。
func newVision(cfg config.VisionConfig) (*vision.Breathing, *vision.EmotionFeed) {
	device := vision.NewDevice(func(context.Context) (vision.Camera, error) {
		if cfg.CameraURL != "" {
			return vision.NewSnapshotCamera(cfg.CameraURL, nil), nil
		}
		return vision.NewSyntheticCamera(cfg.FrameWidth, cfg.FrameHeight), nil
	})
	if cfg.CameraURL == "" {
		logger.S().Infow("VISION_CAMERA_URL not set, streaming a synthetic camera")
	}

	var (
		pose  vision.PoseDetector
		faces vision.FaceDetector
	)
	if cfg.DetectorURL != "" {
		remote := vision.NewRemoteDetector(cfg.DetectorURL, nil)
		pose, faces = remote, remote
	} else {
		logger.S().Infow("VISION_DETECTOR_URL not set, pose feedback and face emotion disabled")
	}

	loop := vision.LoopConfig{
		Interval:    cfg.FrameInterval(),
		Duration:    time.Duration(cfg.ExerciseSeconds) * time.Second,
		DetectEvery: cfg.DetectEvery,
	}
	return vision.NewBreathing(device, pose, loop), vision.NewEmotionFeed(device, faces, loop)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.S().Infow("Mindful Journal backend listening", "addr", addr)
	if err := runServer(ctx, srv); err != nil {
		logger.S().Fatalw("server error", "error", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
