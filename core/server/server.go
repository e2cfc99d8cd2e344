package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"slot-swapper/core/cache"
	"slot-swapper/core/config"
	"slot-swapper/core/constants"
	"slot-swapper/core/database"
	"slot-swapper/core/logger"
	"slot-swapper/core/middleware"
	"slot-swapper/modules/auth"
	authRepository "slot-swapper/modules/auth/repository"
	"slot-swapper/modules/notification"
	"slot-swapper/modules/notification/channel"
	"slot-swapper/modules/notification/queue"
	notificationRepository "slot-swapper/modules/notification/repository"
	"slot-swapper/modules/session"
	"slot-swapper/modules/slot"
	slotRepository "slot-swapper/modules/slot/repository"
	"slot-swapper/modules/swap"
	swapRepository "slot-swapper/modules/swap/repository"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

// App is the assembled service. Close releases everything New acquired.
type App struct {
	Echo    *echo.Echo
	closers []func()
}

type repositories struct {
	transactor    database.Transactor
	users         authRepository.AuthRepositoryInterface
	slots         slotRepository.SlotRepositoryInterface
	swaps         swapRepository.SwapRepositoryInterface
	notifications notificationRepository.NotificationRepositoryInterface
	ping          func(ctx context.Context) error
}

func (a *App) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func openRepositories(ctx context.Context, app *App, cfg *config.Config) (*repositories, error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("Server:Storage", "driver", config.DriverMemory, "note", "data is lost on restart")
		return &repositories{
			transactor:    database.NewMemoryTransactor(cfg.Database.LockTimeout),
			users:         authRepository.NewMemoryAuthRepository(),
			slots:         slotRepository.NewMemorySlotRepository(),
			swaps:         swapRepository.NewMemorySwapRepository(),
			notifications: notificationRepository.NewMemoryNotificationRepository(),
			ping:          func(context.Context) error { return nil },
		}, nil
	}

	db, err := database.InitDB(database.DatabaseConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LockTimeout:     cfg.Database.LockTimeout,
	})
	if err != nil {
		return nil, err
	}
	app.onClose(func() { _ = db.Close() })

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return nil, err
		}
	}

	return &repositories{
		transactor:    db,
		users:         authRepository.NewAuthRepository(db),
		slots:         slotRepository.NewSlotRepository(db),
		swaps:         swapRepository.NewSwapRepository(db),
		notifications: notificationRepository.NewNotificationRepository(db),
		ping:          db.Ping,
	}, nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"path", v.URIPath,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				logger.Warn("HTTP:Request", append(args, "error", v.Error)...)
				return nil
			}
			logger.Info("HTTP:Request", args...)
			return nil
		},
	}))
	return e
}

// New assembles the service from cfg. ctx bounds background workers.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	config.Set(cfg)
	app := &App{Echo: newEcho()}

	repos, err := openRepositories(ctx, app, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.onClose(func() { _ = rdb.Close() })
	}

	var authCache cache.Cache = cache.NewMemoryCache()
	if rdb != nil {
		authCache = cache.NewRedisCache(rdb)
	}

	hub := channel.NewHub(cfg.Notification.BufferSize)
	var ch channel.Channel = hub
	if cfg.Notification.Broker == config.BrokerRedis {
		redisChannel, err := channel.NewRedisChannel(ctx, rdb, hub)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("notification broker: %w", err)
		}
		ch = redisChannel
	}
	app.onClose(func() { _ = ch.Close() })

	var dispatcher queue.Dispatcher = queue.Discard{}
	if cfg.Notification.Persist && rdb != nil {
		opt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}

		worker := queue.NewWorker(opt, cfg.Notification.QueueConcurrency, repos.notifications)
		if err := worker.Start(); err != nil {
			app.Close()
			return nil, fmt.Errorf("notification worker: %w", err)
		}
		app.onClose(worker.Shutdown)

		asynqDispatcher := queue.NewAsynqDispatcher(asynq.NewClient(opt))
		app.onClose(func() { _ = asynqDispatcher.Close() })
		dispatcher = asynqDispatcher
	} else if cfg.Notification.Persist {
		background := queue.NewBackgroundDispatcher(queue.NewInlineDispatcher(repos.notifications), constants.NotificationOutboxSize)
		app.onClose(background.Close)
		dispatcher = background
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	limiter.StartJanitor(ctx, time.Minute)

	e := app.Echo
	e.GET("/healthz", func(c echo.Context) error {
		pingCtx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := repos.ping(pingCtx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	authService, mw := auth.Init(e, repos.users, authCache, limiter)

	private := e.Group("/api/v1/private")
	registry := slot.Init(private, repos.slots, repos.transactor, authService, mw)
	notificationService := notification.Init(private, repos.notifications, ch, dispatcher, mw)
	swap.Init(private, repos.swaps, registry, repos.transactor, notificationService, authService, mw, limiter)
	session.Init(e, authService, ch)

	logger.Info("Server:New",
		"database", cfg.Database.Driver,
		"broker", cfg.Notification.Broker,
		"persist_notifications", cfg.Notification.Persist,
		"redis", rdb != nil,
	)
	return app, nil
}

// Run loads configuration, serves until SIGINT or SIGTERM, then drains.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	errCh := make(chan error, 1)
	app.Echo.Server.ReadHeaderTimeout = constants.DefaultRequestTimeout
	go func() {
		logger.Info("Server:Run:Listening", "addr", addr)
		if err := app.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("Server:Run:Shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return app.Echo.Shutdown(shutdownCtx)
}
