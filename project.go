package solcbuild

import (
	"fmt"
	"path/filepath"

	"github.com/umbracle/solcbuild/svm"
)

type Project struct {
	// config is the configuration of the Solidity project
	config *Config

	// svm handles the lifecycle of the Solidity compiler binaries
	svm *svm.SolidityVersionManager

	sources []*Source

	contracts contractsList
}

type contractsList []*Contract

func (c *contractsList) Filter(cond func(c *Contract) bool) (res contractsList) {
	for _, cc := range *c {
		if cond(cc) {
			res = append(res, cc)
		}
	}
	return
}

func NewProject(opts ...Option) (*Project, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Build.Validate(); err != nil {
		return nil, fmt.Errorf("invalid build config: %w", err)
	}

	cfg.ContractsDir = filepath.Clean(cfg.ContractsDir)

	// default artifacts directory to the contracts directory if not set
	if cfg.ArtifactsDir == "" {
		cfg.ArtifactsDir = cfg.ContractsDir
	} else {
		cfg.ArtifactsDir = filepath.Clean(cfg.ArtifactsDir)
	}

	p := &Project{
		config:    cfg,
		sources:   []*Source{},
		contracts: []*Contract{},
	}

	svmOpts := []svm.Option{
		svm.WithLogger(cfg.Logger),
	}
	if cfg.SvmDir != "" {
		svmOpts = append(svmOpts, svm.WithDir(cfg.SvmDir))
	}
	svm, err := svm.NewSolidityVersionManager(svmOpts...)
	if err != nil {
		return nil, err
	}
	p.svm = svm

	return p, nil
}

// BuildConfig returns a copy of the build configuration in use
func (p *Project) BuildConfig() *BuildConfig {
	return p.config.Build.Copy()
}

func (p *Project) findContractByFullName(name string) *Contract {
	res := p.contracts.Filter(func(c *Contract) bool {
		return name == c.Source+":"+c.Name
	})
	if len(res) != 1 {
		return nil
	}
	return res[0]
}

func (p *Project) getSourceByPath(path string) *Source {
	for _, s := range p.sources {
		if path == s.relPath() {
			return s
		}
	}
	return nil
}

func (p *Project) ListContracts() ([]*Contract, error) {
	return p.contracts, nil
}

func (p *Project) ListSources() ([]*Source, error) {
	return p.sources, nil
}

func (p *Project) UpsertContract(c *Contract) error {
	for indx, cc := range p.contracts {
		if cc.Source == c.Source && cc.Name == c.Name {
			p.contracts[indx] = c
			return nil
		}
	}
	p.contracts = append(p.contracts, c)
	return nil
}

func (p *Project) UpsertSource(src *Source) error {
	for indx, ss := range p.sources {
		if ss.Dir == src.Dir && ss.Filename == src.Filename {
			p.sources[indx] = src
			return nil
		}
	}
	p.sources = append(p.sources, src)
	return nil
}

// RemoveSource drops the source and the contracts it declares
func (p *Project) RemoveSource(path string) error {
	sources := []*Source{}
	for _, s := range p.sources {
		if s.relPath() != path {
			sources = append(sources, s)
		}
	}
	p.sources = sources

	p.contracts = p.contracts.Filter(func(c *Contract) bool {
		return c.Source != path
	})
	if p.contracts == nil {
		p.contracts = []*Contract{}
	}
	return nil
}
