package solcbuild

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
)

type solcInput struct {
	// sources maps the path relative to the contracts dir to its content
	sources  map[string]string
	compiler *CompilerConfig
	config   *Config
}

type Artifact struct {
	Abi json.RawMessage `json:"abi"`

	EVM struct {
		Bytecode          *Bytecode         `json:"bytecode"`
		DeployedBytecode  *Bytecode         `json:"deployedBytecode"`
		Opcodes           string            `json:"opcodes"`
		SourceMap         string            `json:"sourceMap"`
		MethodIdentifiers map[string]string `json:"methodIdentifiers"`
	} `json:"evm"`

	Metadata string `json:"metadata"`
}

type solcOutput struct {
	Errors    []*solcError
	Contracts map[string]map[string]*Artifact
	Sources   map[string]*solcSourceFile
	Version   string
}

type solcError struct {
	Severity         string `json:"severity"`
	FormattedMessage string `json:"formattedMessage"`
}

type solcSourceFile struct {
	AST json.RawMessage
}

// standardInput is the solc --standard-json input document
type standardInput struct {
	Language string                         `json:"language"`
	Sources  map[string]standardInputSource `json:"sources"`
	Settings standardInputSettings          `json:"settings"`
}

type standardInputSource struct {
	Content string `json:"content"`
}

type standardInputSettings struct {
	Optimizer       Optimizer                      `json:"optimizer"`
	EVMVersion      string                         `json:"evmVersion,omitempty"`
	ViaIR           bool                           `json:"viaIR,omitempty"`
	Metadata        *MetadataSettings              `json:"metadata,omitempty"`
	OutputSelection map[string]map[string][]string `json:"outputSelection"`
}

var outputSelection = map[string]map[string][]string{
	"*": {
		"": {
			"ast",
		},
		"*": {
			"abi",
			"evm.bytecode",
			"evm.deployedBytecode",
			"evm.methodIdentifiers",
			"metadata",
		},
	},
}

func (i *solcInput) standardJSON() ([]byte, error) {
	input := &standardInput{
		Language: "Solidity",
		Sources:  map[string]standardInputSource{},
		Settings: standardInputSettings{
			Optimizer:       i.compiler.Settings.Optimizer,
			EVMVersion:      i.compiler.Settings.EVMVersion,
			ViaIR:           i.compiler.Settings.ViaIR,
			Metadata:        i.compiler.Settings.Metadata,
			OutputSelection: outputSelection,
		},
	}
	for path, content := range i.sources {
		input.Sources[filepath.ToSlash(path)] = standardInputSource{
			Content: content,
		}
	}
	return json.Marshal(input)
}

func Compile(path string, input *solcInput) (*solcOutput, error) {
	data, err := input.standardJSON()
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(input.config.ContractsDir)
	if err != nil {
		return nil, err
	}

	args := []string{
		"--standard-json",
		"--base-path", absPath,
		"--allow-paths", absPath,
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(path, args...)

	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to compile: %v: %s", err, strings.TrimSpace(stderr.String()))
	}

	var output *solcOutput
	if err := json.Unmarshal(stdout.Bytes(), &output); err != nil {
		return nil, fmt.Errorf("failed to decode solc output: %v", err)
	}
	if output == nil {
		return nil, fmt.Errorf("solc returned an empty output")
	}

	var outputErr error
	for _, err := range output.Errors {
		if err.Severity == "warning" || err.Severity == "info" {
			input.config.Logger.Warn("Solc diagnostic", "severity", err.Severity, "msg", strings.TrimSpace(err.FormattedMessage))
			continue
		}
		outputErr = multierror.Append(outputErr, fmt.Errorf("%s", strings.TrimSpace(err.FormattedMessage)))
	}
	if outputErr != nil {
		return nil, outputErr
	}

	return output, nil
}
