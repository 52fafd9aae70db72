package main

import (
	"context"
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"

	"github.com/sngm3741/survey-app/api/internal/config"
	"github.com/sngm3741/survey-app/api/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf(".env の読み込みに失敗: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	backend, err := server.OpenBackend(context.Background(), cfg)
	if err != nil {
		cfg.ServerLog.Fatalf("ストレージ接続に失敗しました: %v", err)
	}

	app := server.New(cfg, backend)
	if err := app.Run(); err != nil {
		cfg.ServerLog.Fatalf("サーバー起動に失敗: %v", err)
	}
}
