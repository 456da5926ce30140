package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"wscss/config"
	"wscss/misc"
	"wscss/state"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		env.Cfg.Logging.ConsoleLogger.Level = "debug"
	}
	if env.Log, err = env.Cfg.Logging.Prepare(); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}
	env.RestoreStdLog()
	return nil
}

// Subcommands return regular errors, they are logged once here.
var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)
	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Logger().Warn("Unknown command, nothing to do", zap.String("command", name))
}

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "CSS value parser and style sheet generator",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log debug messages to console"},
		},
		Commands: []*cli.Command{
			{
				Name:         "parse",
				Usage:        "Parses a property value and prints its normalized CSS text and structure",
				OnUsageError: usageErrorHandler,
				Action:       runParse,
				ArgsUsage:    "PROPERTY VALUE [DESTINATION]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "print parsed value as JSON document"},
				},
			},
			{
				Name:         "gradient",
				Usage:        "Parses a linear, radial or conic gradient",
				OnUsageError: usageErrorHandler,
				Action:       runGradient,
				ArgsUsage:    "GRADIENT [DESTINATION]",
			},
			{
				Name:         "generate",
				Usage:        "Generates style sheet for a project",
				OnUsageError: usageErrorHandler,
				Action:       runGenerate,
				ArgsUsage:    "PROJECT [DESTINATION]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "atomic", Aliases: []string{"a"}, Usage: "generate atomic classes instead of instance rules"},
					&cli.StringFlag{Name: "classes", Usage: "write atomic class map to `FILE` (YAML)"},
					&cli.BoolFlag{Name: "strict", Usage: "fail when project has problems instead of skipping them"},
				},
				CustomHelpTemplate: fmt.Sprintf(`%s
PROJECT:
    path to project document (YAML) with breakpoints, style sources, styles and instances

DESTINATION:
    file name to write style sheet to, if absent - STDOUT
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "import",
				Usage:        "Imports a CSS file and prints it normalized",
				OnUsageError: usageErrorHandler,
				Action:       runImport,
				ArgsUsage:    "SOURCE [DESTINATION]",
			},
			{
				Name:         "media",
				Usage:        "Sorts media queries in cascade order",
				OnUsageError: usageErrorHandler,
				Action:       runMedia,
				ArgsUsage:    "QUERY...",
				Flags: []cli.Flag{
					&cli.FloatFlag{Name: "width", Aliases: []string{"w"}, Usage: "also report query applicable to viewport `WIDTH` in px"},
				},
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
			},
		},
	}

	var err error
	// os.Exit is called at the end of main, there must be no other deferred
	// functions after that
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}
