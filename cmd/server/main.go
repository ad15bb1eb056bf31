package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/tiltmaze/internal/config"
	"github.com/zeusync/tiltmaze/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	addr := flag.String("addr", "", "listen address, overrides the config")
	levelsDir := flag.String("levels", "", "directory of extra level files, overrides the config")
	flag.Parse()

	if err := run(*configPath, *addr, *levelsDir); err != nil {
		fmt.Fprintln(os.Stderr, "tiltmaze:", err)
		os.Exit(1)
	}
}

func run(configPath, addr, levelsDir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.ListenAddr = addr
	}
	if levelsDir != "" {
		cfg.Levels.Dir = levelsDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	srv, cleanup, err := injector.InitializeServer(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
