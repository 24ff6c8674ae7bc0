package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"equipchain-web/app"
	"equipchain-web/cli"
	"equipchain-web/config"
	"equipchain-web/logging"
	"equipchain-web/session"
	"equipchain-web/tokenstore"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)

	db, err := tokenstore.Open(ctx, cfg.TokenDBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	auth, err := app.NewAuthenticator(ctx, cfg, logger)
	if err != nil {
		return err
	}

	store := session.NewStore(auth, tokenstore.NewSQLiteRepository(db), logger)
	if err := store.Restore(ctx); err != nil {
		logger.Warn(ctx, "could not restore previous session", "error", err)
	}

	return cli.NewApp(store, os.Stdin, os.Stdout).Run(ctx, config.Positional(os.Args[1:]))
}
