package main

import (
	"log"

	"github.com/abjtutorial/accessbot/internal/app"
	"github.com/abjtutorial/accessbot/internal/cmd"
	"github.com/abjtutorial/accessbot/internal/config"
	"github.com/abjtutorial/accessbot/internal/logger"
)

func main() {
	err := cmd.Run(cmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (*config.Config, error) {
			cfg, err := config.Load(path)
			if err != nil {
				return nil, err
			}
			if err := logger.InitLogger(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		},
		Bootstrap: func(cfg *config.Config) (cmd.TelegramApp, error) {
			return app.New(cfg)
		},
	})
	if err != nil {
		log.Fatalf("accessbot: %v", err)
	}
}
