// solcbuild compiles a Solidity project with the compilers declared in its
// build configuration.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/umbracle/solcbuild"
	"github.com/urfave/cli/v2"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Build configuration file (.json, .toml or .hcl)",
	}
	logFormatFlag = &cli.StringFlag{
		Name:  "log.format",
		Usage: "Log format (auto, text, json)",
		Value: "auto",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging level: -4 debug, 0 info, 4 warn, 8 error",
		Value: int(slog.LevelInfo),
	}

	contractsFlag = &cli.StringFlag{
		Name:  "contracts",
		Usage: "Directory with the Solidity sources",
		Value: "contracts",
	}
	artifactsFlag = &cli.StringFlag{
		Name:  "artifacts",
		Usage: "Output directory for the artifacts (defaults to the contracts dir)",
	}
	svmDirFlag = &cli.StringFlag{
		Name:  "svm.dir",
		Usage: "Directory to cache the solc binaries (defaults to $HOME/.solc-svm)",
	}
	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format (json, toml)",
		Value: "json",
	}
)

func newApp() *cli.App {
	app := &cli.App{
		Name:  "solcbuild",
		Usage: "compile Solidity projects with a declared compiler configuration",
		Flags: []cli.Flag{
			configFlag,
			logFormatFlag,
			verbosityFlag,
		},
		Commands: []*cli.Command{
			compileCommand,
			configCommand,
			versionsCommand,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR]: %v\n", err)
		os.Exit(1)
	}
}

// setupLogger picks a text handler on terminals and json otherwise
func setupLogger(ctx *cli.Context, w io.Writer) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{
		Level: slog.Level(ctx.Int(verbosityFlag.Name)),
	}

	format := ctx.String(logFormatFlag.Name)
	if format == "auto" {
		format = "json"
		if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			format = "text"
		}
	}

	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format: %v", format)
	}
}

// loadBuildConfig returns the build config of the --config file or the
// project default
func loadBuildConfig(ctx *cli.Context) (*solcbuild.BuildConfig, error) {
	file := ctx.String(configFlag.Name)
	if file == "" {
		return solcbuild.DefaultBuildConfig(), nil
	}
	return solcbuild.LoadBuildConfig(file)
}
