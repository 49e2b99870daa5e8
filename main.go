package main

import (
	"fmt"
	"log/slog"
	"os"

	app "github.com/rocketscienceinc/arcade-backend/internal"
	"github.com/rocketscienceinc/arcade-backend/internal/config"
)

const defaultConfigPath = "config.yml"

func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	conf := config.MustLoad(configPath())
	logger := newLogger(conf.LogLevel)

	logger.Info("arcade backend starting", "http-port", conf.HTTPPort, "socket-port", conf.SocketPort)

	if err := app.RunApp(logger, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// configPath - CONFIG_PATH when set, otherwise config.yml in the working directory.
func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

	return defaultConfigPath
}

// newLogger - JSON logs on stdout. Unknown levels fall back to info.
func newLogger(levelName string) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
