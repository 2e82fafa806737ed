package solcbuild

import (
	"fmt"
	"path"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/hashicorp/go-multierror"
	version "github.com/hashicorp/go-version"
)

// BuildConfig describes the solc compilers available to a project
type BuildConfig struct {
	// Compilers is the ordered list of compiler releases the project targets
	Compilers []CompilerConfig `json:"compilers" toml:"compilers"`

	// Overrides pins a source file (relative to the contracts dir) to a
	// specific compiler configuration
	Overrides map[string]CompilerConfig `json:"overrides,omitempty" toml:"overrides,omitempty"`
}

// CompilerConfig is one compiler release plus the settings passed to it
type CompilerConfig struct {
	Version  string   `json:"version" toml:"version"`
	Settings Settings `json:"settings" toml:"settings"`
}

// Settings is the subset of the solc standard-json settings that
// the project controls
type Settings struct {
	Optimizer  Optimizer         `json:"optimizer" toml:"optimizer"`
	EVMVersion string            `json:"evmVersion,omitempty" toml:"evmVersion,omitempty"`
	ViaIR      bool              `json:"viaIR,omitempty" toml:"viaIR,omitempty"`
	Metadata   *MetadataSettings `json:"metadata,omitempty" toml:"metadata,omitempty"`
}

type Optimizer struct {
	Enabled bool `json:"enabled" toml:"enabled"`

	// Runs is the number of times the deployed code is expected to be
	// executed. A value of 1 favours deployment cost over call cost.
	Runs uint64 `json:"runs" toml:"runs"`
}

type MetadataSettings struct {
	BytecodeHash string `json:"bytecodeHash,omitempty" toml:"bytecodeHash,omitempty"`
	AppendCBOR   *bool  `json:"appendCBOR,omitempty" toml:"appendCBOR,omitempty"`
}

func (c CompilerConfig) copy() CompilerConfig {
	if c.Settings.Metadata != nil {
		m := *c.Settings.Metadata
		if m.AppendCBOR != nil {
			v := *m.AppendCBOR
			m.AppendCBOR = &v
		}
		c.Settings.Metadata = &m
	}
	return c
}

// Copy returns a deep copy of the build configuration
func (b *BuildConfig) Copy() *BuildConfig {
	if b == nil {
		return nil
	}
	res := &BuildConfig{}
	if b.Compilers != nil {
		res.Compilers = make([]CompilerConfig, 0, len(b.Compilers))
		for _, c := range b.Compilers {
			res.Compilers = append(res.Compilers, c.copy())
		}
	}
	if b.Overrides != nil {
		res.Overrides = make(map[string]CompilerConfig, len(b.Overrides))
		for key, c := range b.Overrides {
			res.Overrides[key] = c.copy()
		}
	}
	return res
}

// Equal reports whether both configurations declare the same compilers
func (b *BuildConfig) Equal(other *BuildConfig) bool {
	return reflect.DeepEqual(b, other)
}

// Versions returns the declared compiler versions in declaration order
func (b *BuildConfig) Versions() []string {
	res := make([]string, 0, len(b.Compilers))
	for _, c := range b.Compilers {
		res = append(res, c.Version)
	}
	return res
}

// Validate checks that every compiler and override names a well-formed
// solc version. It does not check that the release exists.
func (b *BuildConfig) Validate() error {
	var result error

	seen := map[string]struct{}{}
	for indx, c := range b.Compilers {
		if err := validateVersion(c.Version); err != nil {
			result = multierror.Append(result, fmt.Errorf("compilers[%d]: %w", indx, err))
			continue
		}
		if _, ok := seen[c.Version]; ok {
			result = multierror.Append(result, fmt.Errorf("compilers[%d]: duplicated version '%s'", indx, c.Version))
		}
		seen[c.Version] = struct{}{}
	}

	for key, c := range b.Overrides {
		clean := path.Clean(key)
		if key == "" || path.IsAbs(key) || filepath.IsAbs(key) || clean == ".." || strings.HasPrefix(clean, "../") {
			result = multierror.Append(result, fmt.Errorf("overrides: invalid source path '%s'", key))
		} else if clean != key || strings.Contains(key, `\`) {
			// keys are matched against slash separated paths relative to
			// the contracts dir
			result = multierror.Append(result, fmt.Errorf("overrides: source path '%s' is not canonical, use '%s'", key, path.Clean(strings.ReplaceAll(key, `\`, "/"))))
		}
		if err := validateVersion(c.Version); err != nil {
			result = multierror.Append(result, fmt.Errorf("overrides[%s]: %w", key, err))
		}
	}
	return result
}

func validateVersion(raw string) error {
	if raw == "" {
		return fmt.Errorf("version is empty")
	}
	v, err := version.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("invalid version '%s': %v", raw, err)
	}
	// solc releases are always tagged as MAJOR.MINOR.PATCH
	if v.String() != raw {
		return fmt.Errorf("version '%s' is not in the MAJOR.MINOR.PATCH form", raw)
	}
	return nil
}
