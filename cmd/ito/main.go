package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/ito/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	LogLevel string `help:"Log level (debug|info|warn|error), overriding the game file; defaults to warn"`
	LogFile  string `type:"path" help:"Write logs to this file instead of stderr"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"withargs" help:"Play a game"`
	Simulate SimulateCmd      `cmd:"" help:"Run many scripted games and report statistics"`
	Bot      BotCmd           `cmd:"" help:"Host an agent for remote games"`
	Themes   ThemesCmd        `cmd:"" help:"List the built-in themes"`
}

// Logger builds the logger described by the global flags. The returned
// function closes the log file, if any.
func (g *Globals) Logger() (*log.Logger, func(), error) {
	name := g.LogLevel
	if name == "" {
		name = config.DefaultLogLevel
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	closer := func() {}
	if g.LogFile != "" {
		f, err := os.OpenFile(g.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closer = func() {
			if err := f.Close(); err != nil {
				log.Error("Failed to close log file", "error", err)
			}
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	return logger, closer, nil
}

// inherit fills flags left unset from the game file.
func (g *Globals) inherit(settings *config.GameSettings) {
	if g.LogLevel == "" {
		g.LogLevel = settings.LogLevel
	}
	if g.LogFile == "" {
		g.LogFile = settings.LogFile
	}
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("ito"),
		kong.Description("Orchestrate games of ito, the cooperative ascending-card game"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
