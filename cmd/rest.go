package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	globalConfig "github.com/AzielCF/az-planner/config"
	"github.com/AzielCF/az-planner/infrastructure/historystore"
	"github.com/AzielCF/az-planner/integrations/telegram"
	"github.com/AzielCF/az-planner/pkg/imgworker"
	"github.com/AzielCF/az-planner/pkg/utils"
	"github.com/AzielCF/az-planner/planengine/providers"
	uiRest "github.com/AzielCF/az-planner/ui/rest"
	"github.com/AzielCF/az-planner/ui/rest/middleware"
	"github.com/AzielCF/az-planner/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Serve the content planner API over http",
	Run:   restServer,
}

func init() {
	restCmd.Flags().String("basic-auth", "", "Basic auth for API (format: user:pass,user2:pass2)")
	rootCmd.AddCommand(restCmd)
}

func restServer(cmd *cobra.Command, _ []string) {
	if baFlag, _ := cmd.Flags().GetString("basic-auth"); baFlag != "" {
		globalConfig.AppBasicAuthCredential = strings.Split(baFlag, ",")
	}

	if err := utils.EnsureStorageDirectories(); err != nil {
		logrus.Fatalln("Failed to create storage directories:", err)
	}

	// AI provider adapter for the configured vendor.
	provider, err := providers.New(globalConfig.AIProvider, globalConfig.AIAPIKey)
	if err != nil {
		logrus.Fatalln(err)
	}

	// Durable stores: dedup history (raw sqlite) and credentials (gorm).
	history, err := historystore.NewSQLiteStore(globalConfig.PathStorages, globalConfig.HistoryMaxRecords)
	if err != nil {
		logrus.Fatalln("Failed to open history store:", err)
	}
	defer history.Close()

	gormDB, err := gorm.Open(sqlite.Open(fmt.Sprintf("%s/planner.db", globalConfig.PathStorages)), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		logrus.Fatalln("Failed to open credential store:", err)
	}

	// Image generation batch pool.
	poolCtx, poolCancel := context.WithCancel(context.Background())
	defer poolCancel()
	pool := imgworker.InitGlobalPool(poolCtx, globalConfig.ImageWorkerCount, globalConfig.ImageQueueSize)

	// Services.
	planUsecase := usecase.NewPlanService(provider, globalConfig.AIProvider, history, pool)
	credentialUsecase := usecase.NewCredentialService(gormDB)
	publishUsecase := usecase.NewPublishService(planUsecase, telegram.NewClient(), credentialUsecase)
	healthUsecase := usecase.NewHealthService(planUsecase)

	app := fiber.New(fiber.Config{
		Network:               "tcp",
		AppName:               "Az-Planner Engine",
		BodyLimit:             50 * 1024 * 1024,
		DisableStartupMessage: false,
	})

	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.Recovery())
	if globalConfig.AppDebug {
		app.Use(logger.New())
	}

	// Generated media is served as-is; Telegram fetches placeholder URLs
	// itself, but local files are reachable for inspection.
	app.Static("/statics", "./statics")

	apiGroup := app.Group("/api")

	if len(globalConfig.AppBasicAuthCredential) > 0 {
		account := make(map[string]string)
		for _, basicAuth := range globalConfig.AppBasicAuthCredential {
			ba := strings.Split(basicAuth, ":")
			if len(ba) != 2 {
				logrus.Fatalln("Basic auth is not valid, please use the format <user>:<secret>")
			}
			account[ba[0]] = ba[1]
		}
		apiGroup.Use(basicauth.New(basicauth.Config{
			Users: account,
			Next: func(c *fiber.Ctx) bool {
				return c.Method() == fiber.MethodOptions
			},
		}))
	}

	uiRest.InitRestPlan(apiGroup, planUsecase)
	uiRest.InitRestPublish(apiGroup, publishUsecase)
	uiRest.InitRestCredential(apiGroup, credentialUsecase)
	uiRest.InitRestHealth(apiGroup, healthUsecase)
	uiRest.InitRestMonitoring(apiGroup)

	go func() {
		if err := app.Listen(":" + globalConfig.AppPort); err != nil {
			logrus.Fatalln("Failed to start server:", err)
		}
	}()
	logrus.Infof("[REST] Listening on port %s (provider: %s)", globalConfig.AppPort, globalConfig.AIProvider)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("[REST] Shutting down...")
	pool.Stop()
	if err := app.Shutdown(); err != nil {
		logrus.WithError(err).Error("[REST] Server shutdown failed")
	}
}
