package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/jimezsa/gdscrape/internal/cmd"
	"github.com/jimezsa/gdscrape/internal/config"
	"github.com/jimezsa/gdscrape/internal/ui"
	"github.com/rs/zerolog"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cli := cmd.NewCLI()
	applyEnvDefaults(cli)
	versionString := buildVersion()

	parser, err := kong.New(cli,
		kong.Name("gdscrape"),
		kong.Description("Scrape Glassdoor job listings, reviews and salaries for an employer."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": versionString},
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		ui.New(stdout, stderr, ui.NormalizeColorMode(os.Getenv("GDSCRAPE_COLOR")), false).Errorf("%v", err)
		return 2
	}

	colorMode := ui.NormalizeColorMode(cli.Color)
	userInterface := ui.New(stdout, stderr, colorMode, cli.JSON || cli.Plain)
	logger := newLogger(stderr, cli.Verbose, userInterface.ColorEnabled)

	configDir, err := config.ConfigDir()
	if err != nil {
		userInterface.Errorf("resolve config dir: %v", err)
		return 1
	}
	cfg, err := config.Load()
	if err != nil {
		userInterface.Errorf("load config: %v", err)
		return 1
	}
	logger.Debug().Str("config_dir", configDir).Str("base_url", cfg.BaseURL).Msg("config loaded")

	runCtx := &cmd.Context{
		Out:        stdout,
		Err:        stderr,
		UI:         userInterface,
		Config:     cfg,
		ConfigDir:  configDir,
		Logger:     logger,
		Verbose:    cli.Verbose,
		JSONOutput: cli.JSON,
		PlainText:  cli.Plain,
		Version:    versionString,
		ColorMode:  colorMode,
	}

	if err := kctx.Run(runCtx); err != nil {
		userInterface.Errorf("%v", err)
		return 1
	}
	return 0
}

func newLogger(w io.Writer, verbose bool, color bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	console := zerolog.ConsoleWriter{Out: w, NoColor: !color, TimeFormat: time.TimeOnly}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

func buildVersion() string {
	var meta []string
	if commit != "" {
		meta = append(meta, commit)
	}
	if date != "" {
		meta = append(meta, date)
	}
	if len(meta) == 0 {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, strings.Join(meta, ", "))
}

func applyEnvDefaults(cli *cmd.CLI) {
	if envBool("GDSCRAPE_JSON") {
		cli.JSON = true
	}
	if envBool("GDSCRAPE_VERBOSE") {
		cli.Verbose = true
	}
	if value := os.Getenv("GDSCRAPE_COLOR"); value != "" {
		cli.Color = value
	}
}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
