package solcbuild

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// hclBuildFile is the top-level structure of an .hcl build config
type hclBuildFile struct {
	Compilers []*hclCompiler `hcl:"compiler,block"`
	Overrides []*hclOverride `hcl:"override,block"`
}

type hclCompiler struct {
	Version    string        `hcl:"version"`
	EVMVersion string        `hcl:"evm_version,optional"`
	ViaIR      bool          `hcl:"via_ir,optional"`
	Optimizer  *hclOptimizer `hcl:"optimizer,block"`
	Metadata   *hclMetadata  `hcl:"metadata,block"`
}

type hclOptimizer struct {
	Enabled bool `hcl:"enabled,optional"`
	Runs    int  `hcl:"runs,optional"`
}

type hclMetadata struct {
	BytecodeHash string `hcl:"bytecode_hash,optional"`
	AppendCBOR   *bool  `hcl:"append_cbor,optional"`
}

type hclOverride struct {
	Source   string       `hcl:"source,label"`
	Compiler *hclCompiler `hcl:"compiler,block"`
}

// DecodeHCL parses an HCL build config. Expressions can read the process
// environment through the env object, e.g. runs = env.SOLC_RUNS.
func DecodeHCL(src []byte, filename string) (*BuildConfig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var parsed hclBuildFile
	diags = gohcl.DecodeBody(file.Body, hclEvalContext(), &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	cfg := &BuildConfig{
		Compilers: make([]CompilerConfig, 0, len(parsed.Compilers)),
	}
	for _, c := range parsed.Compilers {
		compiler, err := c.toCompilerConfig()
		if err != nil {
			return nil, fmt.Errorf("%s: compiler %s: %w", filename, c.Version, err)
		}
		cfg.Compilers = append(cfg.Compilers, compiler)
	}

	for _, o := range parsed.Overrides {
		if cfg.Overrides == nil {
			cfg.Overrides = map[string]CompilerConfig{}
		}
		if _, ok := cfg.Overrides[o.Source]; ok {
			return nil, fmt.Errorf("%s: override '%s' declared twice", filename, o.Source)
		}
		if o.Compiler == nil {
			return nil, fmt.Errorf("%s: override '%s' has no compiler block", filename, o.Source)
		}
		compiler, err := o.Compiler.toCompilerConfig()
		if err != nil {
			return nil, fmt.Errorf("%s: override '%s': %w", filename, o.Source, err)
		}
		cfg.Overrides[o.Source] = compiler
	}
	return cfg, nil
}

func (c *hclCompiler) toCompilerConfig() (CompilerConfig, error) {
	res := CompilerConfig{
		Version: c.Version,
		Settings: Settings{
			EVMVersion: c.EVMVersion,
			ViaIR:      c.ViaIR,
		},
	}
	if c.Optimizer != nil {
		if c.Optimizer.Runs < 0 {
			return res, fmt.Errorf("optimizer runs must be non-negative, got %d", c.Optimizer.Runs)
		}
		res.Settings.Optimizer = Optimizer{
			Enabled: c.Optimizer.Enabled,
			Runs:    uint64(c.Optimizer.Runs),
		}
	}
	if c.Metadata != nil {
		res.Settings.Metadata = &MetadataSettings{
			BytecodeHash: c.Metadata.BytecodeHash,
			AppendCBOR:   c.Metadata.AppendCBOR,
		}
	}
	return res, nil
}

func hclEvalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}
