package solcbuild

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadBuildConfig_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "solc.json", `{
		"compilers": [
			{
				"version": "0.8.23",
				"settings": {
					"optimizer": {"enabled": true, "runs": 1}
				}
			},
			{
				"version": "0.6.12",
				"settings": {
					"optimizer": {"enabled": false, "runs": 200},
					"evmVersion": "istanbul"
				}
			}
		],
		"overrides": {
			"legacy/Old.sol": {"version": "0.6.12", "settings": {"optimizer": {"enabled": true, "runs": 10}}}
		}
	}`)

	cfg, err := LoadBuildConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, []string{"0.8.23", "0.6.12"}, cfg.Versions())
	require.Equal(t, "istanbul", cfg.Compilers[1].Settings.EVMVersion)
	require.Equal(t, uint64(10), cfg.Overrides["legacy/Old.sol"].Settings.Optimizer.Runs)
}

func TestLoadBuildConfig_JSONUnknownField(t *testing.T) {
	path := writeFile(t, t.TempDir(), "solc.json", `{"compilers": [], "solidity": {}}`)

	_, err := LoadBuildConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "solc.json")
}

func TestLoadBuildConfig_JSONNegativeRuns(t *testing.T) {
	path := writeFile(t, t.TempDir(), "solc.json", `{
		"compilers": [{"version": "0.8.23", "settings": {"optimizer": {"enabled": true, "runs": -1}}}]
	}`)

	_, err := LoadBuildConfig(path)
	require.Error(t, err)
}

func TestLoadBuildConfig_TOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "solc.toml", `
[[compilers]]
version = "0.8.23"

[compilers.settings.optimizer]
enabled = true
runs = 1

[[compilers]]
version = "0.7.6"

[compilers.settings]
viaIR = false

[compilers.settings.optimizer]
enabled = false
runs = 200
`)

	cfg, err := LoadBuildConfig(path)
	require.NoError(t, err)

	require.Equal(t, []string{"0.8.23", "0.7.6"}, cfg.Versions())
	require.True(t, cfg.Compilers[0].Settings.Optimizer.Enabled)
	require.Equal(t, uint64(1), cfg.Compilers[0].Settings.Optimizer.Runs)
	require.False(t, cfg.Compilers[1].Settings.Optimizer.Enabled)
	require.Equal(t, uint64(200), cfg.Compilers[1].Settings.Optimizer.Runs)
}

func TestLoadBuildConfig_TOMLUnknownField(t *testing.T) {
	path := writeFile(t, t.TempDir(), "solc.toml", `
[[compilers]]
version = "0.8.23"
optimiser = true
`)

	_, err := LoadBuildConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "optimiser")
}

func TestBuildConfig_TOMLRoundTrip(t *testing.T) {
	cases := []*BuildConfig{
		DefaultBuildConfig(),
		{
			Compilers: []CompilerConfig{
				{
					Version: "0.8.23",
					Settings: Settings{
						Optimizer:  Optimizer{Enabled: true, Runs: 1},
						EVMVersion: "paris",
						Metadata:   &MetadataSettings{AppendCBOR: boolPtr(false)},
					},
				},
				{
					Version: "0.5.17",
					Settings: Settings{
						Optimizer: Optimizer{Enabled: false, Runs: 200},
					},
				},
			},
		},
	}

	for _, c := range cases {
		var buf bytes.Buffer
		require.NoError(t, EncodeTOML(&buf, c))

		res, err := DecodeTOML(&buf)
		require.NoError(t, err)
		require.True(t, c.Equal(res))
	}
}

func TestLoadBuildConfig_HCL(t *testing.T) {
	t.Setenv("SOLC_TEST_RUNS", "5000")

	path := writeFile(t, t.TempDir(), "solc.hcl", `
compiler {
  version = "0.8.23"

  optimizer {
    enabled = true
    runs    = 1
  }
}

compiler {
  version     = "0.8.19"
  evm_version = "paris"
  via_ir      = true

  optimizer {
    enabled = true
    runs    = env.SOLC_TEST_RUNS
  }

  metadata {
    bytecode_hash = "none"
    append_cbor   = false
  }
}

override "big/Big.sol" {
  compiler {
    version = "0.8.19"
  }
}
`)

	cfg, err := LoadBuildConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	expected := &BuildConfig{
		Compilers: []CompilerConfig{
			{
				Version: "0.8.23",
				Settings: Settings{
					Optimizer: Optimizer{Enabled: true, Runs: 1},
				},
			},
			{
				Version: "0.8.19",
				Settings: Settings{
					Optimizer:  Optimizer{Enabled: true, Runs: 5000},
					EVMVersion: "paris",
					ViaIR:      true,
					Metadata:   &MetadataSettings{BytecodeHash: "none", AppendCBOR: boolPtr(false)},
				},
			},
		},
		Overrides: map[string]CompilerConfig{
			"big/Big.sol": {Version: "0.8.19"},
		},
	}
	require.True(t, expected.Equal(cfg))
}

func TestLoadBuildConfig_HCLErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		msg  string
	}{
		{
			"syntax",
			`compiler {`,
			"failed to parse",
		},
		{
			"missing version",
			`compiler {}`,
			"failed to decode",
		},
		{
			"negative runs",
			`compiler {
  version = "0.8.23"
  optimizer {
    runs = -1
  }
}`,
			"non-negative",
		},
		{
			"duplicated override",
			`override "A.sol" {
  compiler {
    version = "0.8.23"
  }
}
override "A.sol" {
  compiler {
    version = "0.8.23"
  }
}`,
			"declared twice",
		},
		{
			"override without compiler",
			`override "A.sol" {}`,
			"no compiler block",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := DecodeHCL([]byte(c.src), "solc.hcl")
			require.Error(t, err)
			require.True(t, strings.Contains(err.Error(), c.msg), err.Error())
		})
	}
}

func TestLoadBuildConfig_UnknownFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "hardhat.config.ts", "export default {}")

	_, err := LoadBuildConfig(path)
	require.Error(t, err)
}
