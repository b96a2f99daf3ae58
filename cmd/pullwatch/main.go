package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/pullwatch/internal/adapter/driven/github"
	"github.com/ericfisherdev/pullwatch/internal/adapter/driven/gitcmd"
	"github.com/ericfisherdev/pullwatch/internal/adapter/driven/gitrepo"
	"github.com/ericfisherdev/pullwatch/internal/application"
	"github.com/ericfisherdev/pullwatch/internal/config"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("fatal error", "error", err)
		// Keep the message visible when launched by double-click: the
		// terminal window closes as soon as the process exits.
		fmt.Println("Press Enter to exit...")
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
		os.Exit(1)
	}
}

func run(configPath string) error {
	// 1. Load configuration (fail fast on a missing or unparsable file).
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// 2. Route logs to the configured sink before anything else logs.
	if err := setupLogger(cfg); err != nil {
		return err
	}
	slog.Info("config loaded",
		"repo", cfg.RemoteRef().FullName(),
		"branch", cfg.GitHub.TargetBranch,
		"path", cfg.LocalRepo.Path,
		"check_interval", cfg.CheckInterval(),
	)

	// 3. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Wire adapters.
	fetcher := githubadapter.NewClient(cfg.GitHub.AccessToken)
	opener := gitrepo.NewOpener()
	puller := gitcmd.NewPuller()

	// 5. Create and start the sync service. The status line goes to stdout;
	// logs go to stderr or the configured file.
	svc := application.NewSyncService(
		fetcher,
		opener,
		puller,
		cfg.RemoteRef(),
		cfg.LocalRepo.Path,
		cfg.CheckInterval(),
		os.Stdout,
	)
	go svc.Start(ctx)

	// 6. SIGHUP forces an immediate check, bypassing the current sleep.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			slog.Info("manual check requested")
			if err := svc.CheckNow(ctx); err != nil && ctx.Err() == nil {
				slog.Error("manual check failed", "error", err)
			}
		}
	}()

	slog.Info("pullwatch started",
		"repo", cfg.RemoteRef().FullName(),
		"branch", cfg.GitHub.TargetBranch,
		"check_interval", cfg.CheckInterval(),
	)

	// 7. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutdown complete")
	return nil
}

// setupLogger installs the default slog logger according to the log section
// of the configuration.
func setupLogger(cfg *config.Config) error {
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}

	out := io.Writer(os.Stderr)
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file %s: %w", cfg.Log.File, err)
		}
		out = f
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})))
	return nil
}
