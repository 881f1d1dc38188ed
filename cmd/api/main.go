package main

import (
	"context"
	"fmt"
	"log"

	"go-cityreport/internal/backend"
	common_api "go-cityreport/internal/common/api"
	"go-cityreport/internal/config"
	"go-cityreport/internal/features/live"
	"go-cityreport/internal/features/report"
	"go-cityreport/internal/features/syncjob"
	"go-cityreport/internal/logger"
	"go-cityreport/internal/middleware"
	"go-cityreport/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d routes\n", len(routes))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// StartReportSync warms the full collection and opens the change-feed
// subscription; both are torn down on shutdown.
func StartReportSync(lc fx.Lifecycle, store *report.Store, zlog *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			store.SubscribeLive()
			go func() {
				if err := store.FetchAll(context.Background(), ""); err != nil {
					zlog.Warn("initial report load failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			store.UnsubscribeLive()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Live push hub (also the diagnostics sink for the logger)
			live.NewHub,
			func(h *live.Hub) logger.EventSink { return h },

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Backend client adapter + change feed
			backend.NewClient,
			backend.NewFeedListener,

			// Interface adapters so the store depends on capabilities, not
			// the concrete client
			func(c *backend.Client) report.Querier { return c },
			func(c *backend.Client) report.UserDirectory { return c },
			func(f *backend.FeedListener) report.Feed { return f },
			func(h *live.Hub) report.EventSink { return h },

			// Reports data-synchronization layer
			report.NewTransformer,
			report.NewStore,

			// Controllers
			report.NewReportController,
			live.NewLiveController,

			// Background refresh
			syncjob.NewRefreshService,

			// API Routes
			AsRoute(report.NewReportApi),
			AsRoute(live.NewLiveApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartReportSync,
			func(lc fx.Lifecycle, refresh *syncjob.RefreshService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return refresh.Start(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return refresh.Stop()
					},
				})
			},
		),
	)

	app.Run()
}
