package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/tarantool/go-tarantool"

	"github.com/akablas/akalisten/internal/config"
	"github.com/akablas/akalisten/internal/db"
	"github.com/akablas/akalisten/internal/logger"
	"github.com/akablas/akalisten/internal/mattermost"
	"github.com/akablas/akalisten/internal/nextcloud"
	"github.com/akablas/akalisten/internal/notification"
	"github.com/akablas/akalisten/internal/report"
	"github.com/akablas/akalisten/internal/service"
	"github.com/akablas/akalisten/internal/wordpress"
)

const snapshotKey = "akalisten"

func main() {
	cfg := config.NewConfig()

	log := logger.InitLogger(cfg.Debug, cfg.LogLevel).With("run_id", uuid.New().String())
	slog.SetDefault(log)

	slog.Info("Starting akalisten run")
	slog.Info("Config loaded",
		"nextcloud_url", cfg.NextcloudURL,
		"wordpress_url", cfg.WordPressURL,
		"wordpress_page_id", cfg.WordPressPageID,
		"snapshot_backend", cfg.SnapshotBackend,
		"debug", cfg.Debug,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Run failed", "error", err)
		stop()
		os.Exit(1)
	}

	slog.Info("Run finished")
}

func run(ctx context.Context, cfg *config.Config) error {
	storage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	if storage != nil {
		defer func() {
			if err := storage.Close(); err != nil {
				slog.Error("Error closing snapshot storage", "error", err)
			}
		}()
	}

	if err := cfg.Validate(); err != nil {
		if !cfg.Debug || !snapshotExists(ctx, storage) {
			return fmt.Errorf("invalid config: %w", err)
		}
		slog.Warn("Config incomplete, relying on snapshot", "error", err)
	}

	svc := service.NewService(nextcloud.NewClient(cfg.NextcloudConfig), storage, cfg.AppConfig, cfg.Location())

	data, err := svc.BuildTemplateData(ctx)
	if err != nil {
		return err
	}

	renderer, err := report.NewRenderer()
	if err != nil {
		return err
	}
	content, err := renderer.Render(ctx, data)
	if err != nil {
		return err
	}

	if err := os.WriteFile(cfg.OutputPath, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.OutputPath, err)
	}
	slog.Info("Report written", "path", cfg.OutputPath)

	if !cfg.PublishEnabled() {
		slog.Info("WordPress page not configured, skipping publish")
		return nil
	}

	publisher := wordpress.NewPublisher(wordpress.NewClient(cfg.WordPressConfig), cfg.WordPressPageID, report.LastUpdatedMarker)
	written, err := publisher.Publish(ctx, string(content))
	if err != nil {
		return err
	}
	if !written || !cfg.NotifyEnabled() {
		return nil
	}

	slog.Info("Connecting to Mattermost...")
	mmClient, err := mattermost.NewClient(cfg.MattermostConfig)
	if err != nil {
		// the page is already published at this point
		slog.Error("Failed to connect to Mattermost", "error", err)
		return nil
	}
	svc.SetNotifier(notification.NewNotifier(mmClient, cfg.MattermostChannelID))

	pageURL := fmt.Sprintf("%s/?page_id=%d", cfg.WordPressURL, cfg.WordPressPageID)
	if err := svc.NotifyPublished(pageURL, data); err != nil {
		slog.Error("Failed to send notification", "error", err)
	}
	return nil
}

// openStorage opens the snapshot storage, which is only used in debug mode
func openStorage(ctx context.Context, cfg *config.Config) (db.Storage, error) {
	if !cfg.Debug {
		return nil, nil
	}

	switch cfg.SnapshotBackend {
	case config.SnapshotBackendFile:
		return db.NewFileStorage(cfg.SnapshotPath), nil
	case config.SnapshotBackendTarantool:
		store, err := connectTarantool(ctx, cfg.TarantoolConfig)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.SnapshotBackendRedis:
		store, err := db.NewRedisStorage(ctx, &redis.Options{
			Addr:        cfg.RedisAddr,
			Password:    cfg.RedisPassword,
			DB:          cfg.RedisDB,
			DialTimeout: 3 * time.Second,
			ReadTimeout: 3 * time.Second,
		}, snapshotKey)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownSnapshotBackend, cfg.SnapshotBackend)
	}
}

func connectTarantool(ctx context.Context, cfg config.TarantoolConfig) (*db.TarantoolStorage, error) {
	slog.Info("Connecting to Tarantool...")
	tarantoolConfig := tarantool.Opts{
		User:          cfg.TarantoolUser,
		Pass:          cfg.TarantoolPass,
		Timeout:       5 * time.Second,
		Reconnect:     1 * time.Second,
		MaxReconnects: 5,
	}

	var tarantoolStore *db.TarantoolStorage
	var err error

	for attempts := 1; attempts <= 3; attempts++ {
		slog.Info("Connection attempt", "attempt", attempts)

		tarantoolStore, err = db.NewTarantoolStorage(cfg.TarantoolAddr, tarantoolConfig, snapshotKey)
		if err == nil {
			break
		}

		slog.Error("Failed to connect to Tarantool", "error", err, "attempt", attempts)

		if attempts < 3 {
			slog.Info("Retrying in 2 seconds...")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(2 * time.Second):
			}
		}
	}

	if err != nil {
		return nil, fmt.Errorf("all connection attempts to Tarantool failed: %w", err)
	}

	slog.Info("Connected to Tarantool successfully")
	return tarantoolStore, nil
}

func snapshotExists(ctx context.Context, storage db.Storage) bool {
	if storage == nil {
		return false
	}
	_, err := storage.LoadSnapshot(ctx)
	return err == nil
}
