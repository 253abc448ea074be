package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/charkeeper/internal/client/cli"
	"github.com/dmitrijs2005/charkeeper/internal/client/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}

	app.Run(context.Background())
}
