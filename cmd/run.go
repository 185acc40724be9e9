package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/hikarime/stashbot/client/bot"
	"github.com/hikarime/stashbot/config"
	"github.com/hikarime/stashbot/core"
	"github.com/hikarime/stashbot/database"
	"github.com/spf13/cobra"
)

func Run(cmd *cobra.Command, _ []string) {
	if err := config.Init(); err != nil {
		fmt.Println("Failed to load config:", err)
		os.Exit(1)
	}

	logger := newLogger()
	ctx := log.WithContext(cmd.Context(), logger)

	database.Init(ctx)
	bot.Init(ctx)
	bot.StartClones(ctx)
	go core.Run(ctx, bot.ExtContext())
	logger.Info("Bot is running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-ctx.Done():
	case sig := <-quit:
		logger.Infof("Received %s, exiting", sig)
	}
}

func newLogger() *log.Logger {
	level, err := log.ParseLevel(config.C().Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	out := io.Writer(os.Stdout)
	if path := config.C().Log.File; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
			if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
				out = io.MultiWriter(os.Stdout, f)
			}
		}
	}
	return log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "stashbot",
	})
}
