package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"category-manager/core/loader"
	"category-manager/core/middleware/auth"
	"category-manager/core/middleware/rayid"
	"category-manager/core/middleware/requestlog"
	"category-manager/core/reconcile"
	"category-manager/core/remote"
	"category-manager/core/taxonomy"
	"category-manager/feature/audit"
	"category-manager/feature/categories"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "category-manager/docs/swagger"
)

// @title Category Manager API
// @version 1.0
// @description API for reconciling the product category taxonomy.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the category manager server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Without a remote the server still starts; remote routes answer 503.
		a, err := newApp(ctx, remoteOptional)
		if err != nil {
			return err
		}
		defer a.close()
		zap.ReplaceGlobals(a.logger)

		var (
			cache *remote.SnapshotCache
			tree  audit.RemoteTree
		)
		if a.client != nil {
			cache = remote.NewSnapshotCache(a.client, time.Duration(a.cfg.Server.SnapshotTTLSeconds)*time.Second)
			tree = a.sync
		}

		var history categories.RunHistory
		if a.journal != nil {
			history = a.journal
		}

		// Reconcile runs and audit fixes share one writer.
		lock := new(reconcile.WriterLock)
		svc := categories.NewService(cache, a.orchestrator(), history, taxonomy.DefaultRules(), a.logger, categories.WithWriterLock(lock))

		mgr := loader.NewManager()
		mgr.Register(categories.NewFeature(svc))
		mgr.Register(audit.NewFeature(a.local.Translations(), a.local.Catalog(), tree, a.logger, audit.WithWriterLock(lock)))

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// RayID first so every later log line carries it.
		app.Use(rayid.New())
		app.Use(requestlog.New(a.logger))
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey, Skip: []string{"/swagger"}}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			a.logger.Info("Starting server", zap.String("port", a.cfg.Server.Port), zap.Bool("protected", a.cfg.Server.IsProtected()))
			errCh <- app.Listen(":" + a.cfg.Server.Port)
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sig:
			a.logger.Info("Shutting down server...")
			return app.Shutdown()
		case err := <-errCh:
			return err
		}
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
