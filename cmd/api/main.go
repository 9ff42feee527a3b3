package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "chartcraft/internal/common/api"
	"chartcraft/internal/config"
	"chartcraft/internal/database"
	"chartcraft/internal/events"
	"chartcraft/internal/features/chart"
	cron_feature "chartcraft/internal/features/cron"
	"chartcraft/internal/features/dataset"
	"chartcraft/internal/features/generate"
	"chartcraft/internal/features/system"
	"chartcraft/internal/logger"
	"chartcraft/internal/middleware"
	"chartcraft/pkg/utils"

	_ "chartcraft/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             cfg.MaxUploadMB * 1024 * 1024,
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

	app.Use(recover.New())
	app.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

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
	log.Printf("Registering %d routes...\n", len(routes))
	for i, route := range routes {
		log.Printf("Setting up route %d: %T\n", i+1, route)
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
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

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, datasetRepo dataset.DatasetRepository, chartRepo chart.ChartRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				// Use a background context with timeout for index creation
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				for _, repo := range []any{datasetRepo, chartRepo} {
					if idx, ok := repo.(indexer); ok {
						if err := idx.EnsureIndexes(ctx); err != nil {
							log.Printf("Failed to ensure indexes for %T: %v", repo, err)
						}
					}
				}
			}()
			return nil
		},
	})
}

// @title           ChartCraft API
// @version         1.0
// @description     Upload tabular data, infer column types and turn it into chart series.

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Database
			database.NewDatabase,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Event hub, shared by services and the websocket route
			events.NewHub,
			func(h *events.Hub) events.Publisher { return h },

			// Initialize Repository
			dataset.NewDatasetRepository,
			chart.NewChartRepository,
			cron_feature.NewCronRepository,

			// Initialize Service
			generate.NewRecommender,
			dataset.NewDatasetService,
			chart.NewChartService,
			generate.NewGenerateService,
			cron_feature.NewCronService,

			// Initialize Controller
			dataset.NewDatasetController,
			chart.NewChartController,
			generate.NewGenerateController,
			cron_feature.NewCronController,
			system.NewDebugController,
			system.NewWebSocketController,
			system.NewAnalyticsController,

			// Initialize API Routes
			AsRoute(system.NewHealthApi),
			AsRoute(dataset.NewDatasetApi),
			AsRoute(generate.NewGenerateApi),
			AsRoute(chart.NewChartApi),
			AsRoute(cron_feature.NewCronApi),
			AsRoute(system.NewAnalyticsApi),
			AsRoute(system.NewDebugApi),
			AsRoute(system.NewWebSocketApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, cronService cron_feature.CronService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return cronService.InitializeScheduler(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return cronService.StopScheduler()
					},
				})
			},
			InitializeIndexes,
		),
	)

	app.Run()
}
