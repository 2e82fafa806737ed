package solcbuild

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/naoina/toml"
)

// LoadBuildConfig reads a build configuration file. The format is
// picked from the extension (.json, .toml or .hcl). The result is not
// validated.
func LoadBuildConfig(path string) (*BuildConfig, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".toml":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		if ext == ".json" {
			cfg, err := DecodeJSON(f)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			return cfg, nil
		}
		cfg, err := DecodeTOML(f)
		// add the file name to the errors with a line number
		if _, ok := err.(*toml.LineError); ok {
			err = errors.New(path + ", " + err.Error())
		}
		return cfg, err

	case ".hcl":
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return DecodeHCL(src, path)

	default:
		return nil, fmt.Errorf("unsupported build config format '%s'", ext)
	}
}

func DecodeJSON(r io.Reader) (*BuildConfig, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var cfg BuildConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func EncodeJSON(w io.Writer, cfg *BuildConfig) error {
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

var tomlSettings = toml.Config{
	NormFieldName: toml.DefaultConfig.NormFieldName,
	FieldToKey:    toml.DefaultConfig.FieldToKey,
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

func DecodeTOML(r io.Reader) (*BuildConfig, error) {
	var cfg BuildConfig
	if err := tomlSettings.NewDecoder(bufio.NewReader(r)).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func EncodeTOML(w io.Writer, cfg *BuildConfig) error {
	return tomlSettings.NewEncoder(w).Encode(cfg)
}
