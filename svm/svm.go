package svm

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	version "github.com/hashicorp/go-version"
)

const (
	binaryPrefix   = "solidity-"
	defaultBaseURL = "https://github.com/ethereum/solidity/releases/download"
)

var ErrUnknownVersion = errors.New("unknown solc version")

type config struct {
	logger     *slog.Logger
	dir        string
	baseURL    string
	httpClient *http.Client
}

type Option func(*config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func WithDir(dir string) Option {
	return func(c *config) {
		c.dir = dir
	}
}

// WithBaseURL sets the url the release assets are downloaded from
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// SolidityVersionManager is a service to manage solidity compiler versions
type SolidityVersionManager struct {
	config *config
}

// NewSolidityVersionManager creates a new Solidity Version Manager
func NewSolidityVersionManager(opts ...Option) (*SolidityVersionManager, error) {
	cfg := &config{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.dir == "" {
		// use the default $HOME/.solc-svm dir
		dirname, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %v", err)
		}
		cfg.dir = filepath.Join(dirname, ".solc-svm")
	}

	s := &SolidityVersionManager{
		config: cfg,
	}
	return s, nil
}

// Dir returns the directory where the binaries are stored
func (s *SolidityVersionManager) Dir() string {
	return s.config.dir
}

// Resolve returns the path for the compiler and downloads it if necessary
func (s *SolidityVersionManager) Resolve(rawVersion string) (string, error) {
	v, err := version.NewVersion(rawVersion)
	if err != nil {
		return "", fmt.Errorf("%w '%s': %v", ErrUnknownVersion, rawVersion, err)
	}
	name := binaryName(v.String(), runtime.GOOS)
	path := filepath.Join(s.config.dir, name)

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			// unexpected error
			return "", err
		}
		s.config.logger.Info("Downloading solc compiler", "version", v.String())

		if err := s.download(v.String(), name); err != nil {
			return "", err
		}
	}

	return path, nil
}

// Installed returns the versions available locally in ascending order
func (s *SolidityVersionManager) Installed() ([]*version.Version, error) {
	entries, err := os.ReadDir(s.config.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*version.Version{}, nil
		}
		return nil, err
	}

	res := []*version.Version{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		v, ok := parseBinaryName(e.Name(), runtime.GOOS)
		if !ok {
			continue
		}
		res = append(res, v)
	}
	sort.Sort(version.Collection(res))
	return res, nil
}

// binaryName is the file name of the compiler binary for a version
func binaryName(version, goos string) string {
	name := binaryPrefix + version
	if goos == "windows" {
		name += ".exe"
	}
	return name
}

func parseBinaryName(name, goos string) (*version.Version, bool) {
	if goos == "windows" {
		if !strings.HasSuffix(name, ".exe") {
			return nil, false
		}
		name = strings.TrimSuffix(name, ".exe")
	}
	if !strings.HasPrefix(name, binaryPrefix) {
		return nil, false
	}
	v, err := version.NewVersion(strings.TrimPrefix(name, binaryPrefix))
	if err != nil {
		return nil, false
	}
	return v, true
}

func releaseAsset() string {
	switch runtime.GOOS {
	case "darwin":
		return "solc-macos"
	case "windows":
		return "solc-windows.exe"
	default:
		return "solc-static-linux"
	}
}

func (s *SolidityVersionManager) download(version string, name string) error {
	dst := s.config.dir
	url := s.config.baseURL + "/v" + version + "/" + releaseAsset()

	// check if the dst is correct
	fi, err := os.Stat(dst)
	if err == nil {
		if fi.Mode().IsRegular() {
			return fmt.Errorf("dst is a file")
		}
	} else {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat dst '%s': %v", dst, err)
		}
		// create the destiny path if does not exists
		if err := os.MkdirAll(dst, 0755); err != nil {
			return fmt.Errorf("cannot create dst path: %v", err)
		}
	}

	resp, err := s.config.httpClient.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w '%s': release not found", ErrUnknownVersion, version)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("failed to download solc %s: unexpected status %s", version, resp.Status)
	}

	// tmp folder to download the binary
	tmpDir, err := os.MkdirTemp(dst, "solc-download-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, name)

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	// make binary executable
	if err := os.Chmod(path, 0755); err != nil {
		return err
	}

	// move file to dst
	if err := os.Rename(path, filepath.Join(dst, name)); err != nil {
		return err
	}
	s.config.logger.Debug("Installed solc compiler", "version", version, "path", filepath.Join(dst, name))
	return nil
}
