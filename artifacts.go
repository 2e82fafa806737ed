package solcbuild

import (
	"encoding/json"
	"path/filepath"
	"time"
)

// contractArtifacts is the output file generated for each contract
type contractArtifact struct {
	ABI               json.RawMessage   `json:"abi"`
	Bytecode          *Bytecode         `json:"bytecode"`
	DeployedBytecode  *Bytecode         `json:"deployedBytecode"`
	MethodIdentifiers map[string]string `json:"methodIdentifiers"`
	RawMetadata       string            `json:"rawMetadata"`
	Metadata          json.RawMessage   `json:"metadata"`
	AST               json.RawMessage   `json:"ast"`

	// Compiler is the compiler configuration that produced the artifact
	Compiler *CompilerConfig `json:"compiler"`
}

type Source struct {
	// Dir is the directory of the file
	Dir string

	// Filename is the name of the file
	Filename string

	// ModTime is the modified time of the source
	ModTime time.Time

	// Pragma is the `pragma solidity` version expression
	Pragma string

	// Imports is the list of imports defined in this source
	Imports []string

	// Content is the source code
	Content string

	AST json.RawMessage
}

// relPath returns the relative path of the source inside the contracts directory
func (s *Source) relPath() string {
	return filepath.Join(s.Dir, s.Filename)
}

type Contract struct {
	// Name is the name of the contract
	Name string

	Source string

	// Abi is the abi encoding of the contract
	Abi json.RawMessage

	Bytecode *Bytecode

	DeployedBytecode *Bytecode

	Metadata string

	MethodIdentifiers map[string]string

	// Compiler is the compiler configuration used to build the contract
	Compiler *CompilerConfig
}

type Bytecode struct {
	Object         string          `json:"object"`
	SrcMap         string          `json:"sourceMap"`
	LinkReferences json.RawMessage `json:"linkReferences"`
}
