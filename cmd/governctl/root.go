package main

import (
	"fmt"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"github.com/harborcase/govern/pkg/cache"
	"github.com/harborcase/govern/pkg/config"
	"github.com/harborcase/govern/pkg/db"
)

var rootCmd = &cobra.Command{
	Use:   "governctl",
	Short: "Tag and asset-group governance engine CLI",
	Long: `governctl manages the governance engine's database schema, seeds
system-level defaults, provisions organizations and runs maintenance jobs.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// app bundles the shared dependencies a command needs: config, database,
// cache gateway and logger.
type app struct {
	cfg     *config.Config
	db      *gorm.DB
	gateway cache.Gateway
	log     *zap.Logger

	redisClient *redis.Client
}

// newApp loads configuration and connects to the database and, when
// configured, Redis.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	database, err := db.Connect(db.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	a := &app{cfg: cfg, db: database, gateway: cache.NopGateway{}, log: log}
	if cfg.RedisAddr != "" {
		a.redisClient = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		a.gateway = cache.NewRedisGateway(a.redisClient)
	}
	return a, nil
}

func (a *app) Close() {
	if a.redisClient != nil {
		_ = a.redisClient.Close()
	}
	_ = a.log.Sync()
}

func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// fail prints an error and exits. Commands use it instead of returning
// errors so usage help is not printed after operational failures.
func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
