package solcbuild

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSolcInput_StandardJSON(t *testing.T) {
	input := &solcInput{
		sources: map[string]string{
			"A.sol": "contract A {}",
		},
		compiler: &CompilerConfig{
			Version: "0.8.23",
			Settings: Settings{
				Optimizer:  Optimizer{Enabled: true, Runs: 1},
				EVMVersion: "paris",
				Metadata:   &MetadataSettings{BytecodeHash: "none"},
			},
		},
	}

	data, err := input.standardJSON()
	require.NoError(t, err)

	require.JSONEq(t, `{
		"language": "Solidity",
		"sources": {
			"A.sol": {"content": "contract A {}"}
		},
		"settings": {
			"optimizer": {"enabled": true, "runs": 1},
			"evmVersion": "paris",
			"metadata": {"bytecodeHash": "none"},
			"outputSelection": {
				"*": {
					"": ["ast"],
					"*": ["abi", "evm.bytecode", "evm.deployedBytecode", "evm.methodIdentifiers", "metadata"]
				}
			}
		}
	}`, string(data))
}

func TestSolcInput_MetadataAppendCBOR(t *testing.T) {
	cases := []struct {
		appendCBOR *bool
		metadata   string
	}{
		{nil, `{"bytecodeHash": "none"}`},
		{boolPtr(false), `{"bytecodeHash": "none", "appendCBOR": false}`},
		{boolPtr(true), `{"bytecodeHash": "none", "appendCBOR": true}`},
	}

	for _, c := range cases {
		input := &solcInput{
			sources: map[string]string{},
			compiler: &CompilerConfig{
				Version: "0.8.19",
				Settings: Settings{
					Metadata: &MetadataSettings{BytecodeHash: "none", AppendCBOR: c.appendCBOR},
				},
			},
		}

		data, err := input.standardJSON()
		require.NoError(t, err)

		var doc struct {
			Settings struct {
				Metadata json.RawMessage `json:"metadata"`
			} `json:"settings"`
		}
		require.NoError(t, json.Unmarshal(data, &doc))
		require.JSONEq(t, c.metadata, string(doc.Settings.Metadata))
	}
}
