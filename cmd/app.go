package cmd

import (
	"context"
	"fmt"

	"category-manager/core/config"
	"category-manager/core/database"
	"category-manager/core/journal"
	"category-manager/core/logger"
	"category-manager/core/reconcile"
	"category-manager/core/remote"
	"category-manager/core/storage"
	"category-manager/feature/localstore"
	"category-manager/feature/remotesync"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// app holds the components shared by the commands.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	fs      afero.Fs
	local   *localstore.Synchronizer
	client  *remote.WooClient
	sync    *remotesync.Synchronizer
	journal *journal.Journal
	archive *storage.Archive
}

// remoteMode selects whether newApp builds the remote client.
type remoteMode int

const (
	remoteOff remoteMode = iota
	// remoteRequired fails with remote.ErrMissingCredentials when unconfigured.
	remoteRequired
	// remoteOptional skips the remote when it is not configured.
	remoteOptional
)

// newApp loads configuration and builds the components.
func newApp(ctx context.Context, mode remoteMode) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, logger: l, fs: afero.NewOsFs()}

	if cfg.Storage.Enabled {
		a.archive = openArchive(ctx, cfg.Storage, l)
	}
	if cfg.Database.Enabled {
		a.journal = openJournal(ctx, cfg.Database, l)
	}

	var archiver localstore.Archiver
	if a.archive != nil {
		archiver = a.archive
	}
	a.local = localstore.New(cfg.Local, a.fs, archiver, l)

	if mode == remoteOptional && !cfg.Remote.IsConfigured() {
		l.Warn("Remote category service not configured")
		mode = remoteOff
	}
	if mode != remoteOff {
		client, err := remote.NewWooClient(cfg.Remote, l)
		if err != nil {
			a.close()
			return nil, err
		}
		a.client = client
		a.sync = remotesync.New(client, l, remotesync.WithMutationRecorder(a.mutationRecorder()))
	}
	return a, nil
}

func openArchive(ctx context.Context, cfg storage.Config, l *zap.Logger) *storage.Archive {
	client, err := storage.NewClient(cfg)
	if err != nil {
		l.Warn("Snapshot archive disabled", zap.Error(err))
		return nil
	}
	archive := storage.NewArchive(client, cfg.Bucket, cfg.Prefix)
	if err := archive.EnsureBucket(ctx); err != nil {
		l.Warn("Snapshot archive disabled", zap.Error(err))
		return nil
	}
	l.Info("Snapshot archive enabled", zap.String("bucket", cfg.Bucket))
	return archive
}

func openJournal(ctx context.Context, cfg database.Config, l *zap.Logger) *journal.Journal {
	db, err := database.Connect(cfg)
	if err != nil {
		l.Warn("Run journal disabled", zap.Error(err))
		return nil
	}
	j := journal.New(db)
	if err := j.Migrate(ctx); err != nil {
		l.Warn("Run journal disabled", zap.Error(err))
		return nil
	}
	l.Info("Run journal enabled", zap.String("driver", cfg.Driver))
	return j
}

func (a *app) runRecorder() reconcile.RunRecorder {
	if a.journal == nil {
		return reconcile.NopRecorder{}
	}
	return a.journal
}

func (a *app) mutationRecorder() reconcile.MutationRecorder {
	if a.journal == nil {
		return reconcile.NopRecorder{}
	}
	return a.journal
}

// orchestrator registers the local stores and, when present, the remote.
func (a *app) orchestrator() *reconcile.Orchestrator {
	o := reconcile.NewOrchestrator(a.logger, reconcile.WithRecorder(a.runRecorder()))
	o.Register(a.local.Stores()...)
	if a.sync != nil {
		o.Register(a.sync)
	}
	return o
}

// prune drops old snapshot runs after an applied run.
func (a *app) prune(ctx context.Context) {
	if a.archive == nil || a.cfg.Storage.KeepRuns <= 0 {
		return
	}
	removed, err := a.archive.Prune(ctx, a.cfg.Storage.KeepRuns)
	if err != nil {
		a.logger.Warn("Snapshot prune failed", zap.Error(err))
		return
	}
	if removed > 0 {
		a.logger.Info("Pruned old snapshots", zap.Int("removed", removed))
	}
}

func (a *app) close() {
	if a.client != nil {
		_ = a.client.Close()
	}
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.logger.Warn("Failed to close run journal", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
