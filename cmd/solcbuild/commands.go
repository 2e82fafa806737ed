package main

import (
	"fmt"
	"strings"

	"github.com/umbracle/solcbuild"
	"github.com/umbracle/solcbuild/svm"
	"github.com/urfave/cli/v2"
)

var compileCommand = &cli.Command{
	Name:   "compile",
	Usage:  "Compile the modified sources of the project",
	Flags:  []cli.Flag{contractsFlag, artifactsFlag, svmDirFlag},
	Action: compile,
}

var configCommand = &cli.Command{
	Name:  "config",
	Usage: "Inspect the build configuration",
	Subcommands: []*cli.Command{
		{
			Name:   "dump",
			Usage:  "Print the effective build configuration",
			Flags:  []cli.Flag{formatFlag},
			Action: dumpConfig,
		},
		{
			Name:   "validate",
			Usage:  "Check the build configuration and report every problem",
			Action: validateConfig,
		},
	},
}

var versionsCommand = &cli.Command{
	Name:   "versions",
	Usage:  "List the solc compilers available locally",
	Flags:  []cli.Flag{svmDirFlag},
	Action: listVersions,
}

func compile(ctx *cli.Context) error {
	logger, err := setupLogger(ctx, ctx.App.ErrWriter)
	if err != nil {
		return err
	}
	build, err := loadBuildConfig(ctx)
	if err != nil {
		return err
	}

	p, err := solcbuild.NewProject(
		solcbuild.WithContractsDir(ctx.String(contractsFlag.Name)),
		solcbuild.WithArtifactsDir(ctx.String(artifactsFlag.Name)),
		solcbuild.WithSvmDir(ctx.String(svmDirFlag.Name)),
		solcbuild.WithBuildConfig(build),
		solcbuild.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to start project: %w", err)
	}

	res, err := p.Compile()
	if err != nil {
		return fmt.Errorf("failed to compile: %w", err)
	}

	w := ctx.App.Writer
	for _, run := range res.Runs {
		fmt.Fprintf(w, "[RUN]: solc %s (optimizer=%v runs=%d) %s in %s\n",
			run.Compiler.Version,
			run.Compiler.Settings.Optimizer.Enabled,
			run.Compiler.Settings.Optimizer.Runs,
			strings.Join(run.Components, ","),
			run.ExecutionTime)
	}
	fmt.Fprintf(w, "[RESULT]: Compiled contracts: %s\n", strings.Join(res.Contracts, ","))
	return nil
}

func dumpConfig(ctx *cli.Context) error {
	build, err := loadBuildConfig(ctx)
	if err != nil {
		return err
	}

	switch format := ctx.String(formatFlag.Name); format {
	case "json":
		return solcbuild.EncodeJSON(ctx.App.Writer, build)
	case "toml":
		return solcbuild.EncodeTOML(ctx.App.Writer, build)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func validateConfig(ctx *cli.Context) error {
	build, err := loadBuildConfig(ctx)
	if err != nil {
		return err
	}
	if err := build.Validate(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "[RESULT]: Build config is valid (%d compilers: %s)\n",
		len(build.Compilers), strings.Join(build.Versions(), ","))
	return nil
}

func listVersions(ctx *cli.Context) error {
	opts := []svm.Option{}
	if dir := ctx.String(svmDirFlag.Name); dir != "" {
		opts = append(opts, svm.WithDir(dir))
	}
	s, err := svm.NewSolidityVersionManager(opts...)
	if err != nil {
		return err
	}

	versions, err := s.Installed()
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		fmt.Fprintf(ctx.App.Writer, "No compilers installed in %s\n", s.Dir())
		return nil
	}
	for _, v := range versions {
		fmt.Fprintln(ctx.App.Writer, v.String())
	}
	return nil
}
