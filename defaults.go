package solcbuild

// buildConfig is the build configuration of the project. Every field is
// set explicitly; there is no defaulting for it.
var buildConfig = BuildConfig{
	Compilers: []CompilerConfig{
		{
			Version: "0.8.23",
			Settings: Settings{
				Optimizer: Optimizer{
					Enabled: true,
					Runs:    1,
				},
			},
		},
	},
}

// DefaultBuildConfig returns the project build configuration. Each call
// returns a fresh copy so callers cannot alter the value seen by others.
func DefaultBuildConfig() *BuildConfig {
	return buildConfig.Copy()
}
