package main

import (
	"flag"
	"log"

	"github.com/StartupBuilder-io/startupbuilder/internal/ai"
	"github.com/StartupBuilder-io/startupbuilder/internal/api"
	"github.com/StartupBuilder-io/startupbuilder/internal/config"
	"github.com/StartupBuilder-io/startupbuilder/internal/database"
	"github.com/StartupBuilder-io/startupbuilder/internal/logger"
	"github.com/StartupBuilder-io/startupbuilder/internal/storage"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Env); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.Get()

	db, err := database.Open(cfg)
	if err != nil {
		zlog.Fatal("database open failed", zap.Error(err))
	}
	defer db.Close()

	// A missing model key degrades chat and plan generation instead of
	// taking the whole API down with it.
	var generator ai.Generator
	if cfg.Gemini.APIKey == "" {
		zlog.Error("gemini api key not configured, model features disabled")
		generator = ai.Disabled{}
	} else {
		generator, err = ai.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			zlog.Fatal("gemini client init failed", zap.Error(err))
		}
	}

	avatars, err := storage.NewAvatarStore(cfg)
	if err != nil {
		zlog.Fatal("avatar storage init failed", zap.Error(err))
	}

	app, err := api.NewApi(cfg, db, generator, avatars)
	if err != nil {
		zlog.Fatal("api init failed", zap.Error(err))
	}

	if err := app.Serve(); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
