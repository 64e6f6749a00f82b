package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"placepicker.dev/internal/catalog"
	"placepicker.dev/internal/client"
	"placepicker.dev/internal/config"
	"placepicker.dev/internal/locator"
	"placepicker.dev/internal/report"
	"placepicker.dev/internal/selection"
	"placepicker.dev/internal/shell"
)

const version = "1.0.0"

const usage = `Usage: placepicker [flags] <command> [args]

Commands:
  list                 show the selected and the available places
  available            show the available places only
  select <id>          add a place to the selection
  remove [-yes] <id>   remove a place from the selection after confirming

Flags:
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.String("env", "development", "Environment (development|staging|production)")
	flag.String("base-url", "", "Base URL of the places backend")
	flag.String("locator", "", "Position source (none|static|http)")
	flag.Float64("latitude", 0, "Latitude for the static locator")
	flag.Float64("longitude", 0, "Longitude for the static locator")
	flag.String("locator-url", "", "URL for the http locator")
	verbose := flag.Bool("verbose", false, "Log to stderr")
	configFile := flag.String("config-file", "", "Path to a JSON, YAML or .env configuration file")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile, config.FlagOverrides(flag.CommandLine))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logOut := io.Discard
	if *verbose {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logOut, nil))

	if err := report.SetupSentry(cfg.Env, version); err != nil {
		logger.Error("failed to initialize sentry", "error", err)
	}
	defer report.FlushSentry()
	report.ConfigureScope(cfg.Env, version, "cli")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	code := run(ctx, cfg, logger, flag.Args(), os.Stdin, os.Stdout)
	stop()
	report.FlushSentry()
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string, in io.Reader, out io.Writer) int {
	httpClient := client.NewPooledClient(cfg.RequestTimeout)
	api := client.New(cfg.BaseURL, httpClient, logger)

	session := shell.NewSession(
		catalog.New(api, newLocator(cfg, httpClient), logger, cfg.RequestTimeout),
		selection.NewStore(api, logger, cfg.RequestTimeout),
		logger,
	)
	// Load failures are rendered as error panels.
	_ = session.Start(ctx)

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list":
		session.Render(out)
	case "available":
		shell.RenderAvailable(out, session.Catalog.View())
	case "select":
		if len(rest) != 1 {
			fmt.Fprintln(out, "select needs exactly one place id")
			return 2
		}
		err := session.SelectByID(ctx, rest[0])
		if err != nil {
			logger.Error("select failed", "place_id", rest[0], "error", err)
		}
		session.Render(out)
		if code := reportRefusal(out, rest[0], err); code != 0 {
			return code
		}
	case "remove":
		fs := flag.NewFlagSet("remove", flag.ContinueOnError)
		fs.SetOutput(out)
		yes := fs.Bool("yes", false, "Skip the confirmation")
		if err := fs.Parse(rest); err != nil || fs.NArg() != 1 {
			fmt.Fprintln(out, "usage: remove [-yes] <id>")
			return 2
		}
		confirm := shell.PromptConfirm(in, out)
		if *yes {
			confirm = shell.AlwaysConfirm
		}
		removed, err := session.RemoveByID(ctx, fs.Arg(0), confirm)
		if err != nil {
			logger.Error("remove failed", "place_id", fs.Arg(0), "error", err)
		}
		logger.Info("remove finished", "place_id", fs.Arg(0), "removed", removed)
		session.Render(out)
		if code := reportRefusal(out, fs.Arg(0), err); code != 0 {
			return code
		}
	default:
		fmt.Fprintf(out, "unknown command %q\n", cmd)
		return 2
	}

	if session.Store.UpdateError() != nil {
		return 1
	}
	return 0
}

// reportRefusal prints why a command left the selection untouched. Update
// failures are already shown in the modal and are not repeated here.
func reportRefusal(out io.Writer, id string, err error) int {
	switch {
	case errors.Is(err, shell.ErrUnknownPlace):
		fmt.Fprintf(out, "unknown place %q\n", id)
		return 1
	case errors.Is(err, selection.ErrNotReady):
		fmt.Fprintln(out, "your places could not be loaded, nothing was changed")
		return 1
	}
	return 0
}

func newLocator(cfg *config.Config, httpClient *http.Client) locator.Locator {
	switch cfg.LocatorMode {
	case config.LocatorStatic:
		return locator.NewStatic(cfg.Latitude, cfg.Longitude)
	case config.LocatorHTTP:
		return locator.NewHTTP(cfg.LocatorURL, httpClient)
	}
	return locator.Unavailable{}
}
