package solcbuild

import (
	"io"
	"log/slog"
)

// Config is the Project configuration
type Config struct {
	ContractsDir string
	ArtifactsDir string

	// Build selects the compilers and their settings
	Build *BuildConfig

	// SvmDir is where the compiler binaries are cached. Empty uses the
	// svm default.
	SvmDir string

	Logger *slog.Logger
}

func DefaultConfig() *Config {
	return &Config{
		ContractsDir: "",
		Build:        DefaultBuildConfig(),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

type Option func(*Config)

// WithBuildConfig replaces the build configuration. The project keeps
// its own copy. A nil config declares no compilers.
func WithBuildConfig(build *BuildConfig) Option {
	return func(c *Config) {
		if build == nil {
			build = &BuildConfig{}
		}
		c.Build = build.Copy()
	}
}

// WithSolidityVersion compiles every source with a single compiler
// version, keeping the settings of the first configured compiler
func WithSolidityVersion(version string) Option {
	return func(c *Config) {
		compiler := CompilerConfig{}
		if len(c.Build.Compilers) != 0 {
			compiler = c.Build.Compilers[0].copy()
		}
		compiler.Version = version

		c.Build = &BuildConfig{
			Compilers: []CompilerConfig{compiler},
			Overrides: c.Build.Copy().Overrides,
		}
	}
}

// WithRuns sets the optimizer runs of every compiler and override
func WithRuns(runs uint64) Option {
	return func(c *Config) {
		c.Build = c.Build.Copy()
		for indx := range c.Build.Compilers {
			c.Build.Compilers[indx].Settings.Optimizer.Runs = runs
		}
		for path, o := range c.Build.Overrides {
			o.Settings.Optimizer.Runs = runs
			c.Build.Overrides[path] = o
		}
	}
}

// WithOptimizer enables or disables the optimizer of every compiler and
// override
func WithOptimizer(enabled bool) Option {
	return func(c *Config) {
		c.Build = c.Build.Copy()
		for indx := range c.Build.Compilers {
			c.Build.Compilers[indx].Settings.Optimizer.Enabled = enabled
		}
		for path, o := range c.Build.Overrides {
			o.Settings.Optimizer.Enabled = enabled
			c.Build.Overrides[path] = o
		}
	}
}

func WithArtifactsDir(artifactsDir string) Option {
	return func(c *Config) {
		c.ArtifactsDir = artifactsDir
	}
}

func WithContractsDir(contractsDir string) Option {
	return func(c *Config) {
		c.ContractsDir = contractsDir
	}
}

func WithSvmDir(dir string) Option {
	return func(c *Config) {
		c.SvmDir = dir
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
