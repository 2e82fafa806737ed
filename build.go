package solcbuild

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/umbracle/solcbuild/dag"
)

func (p *Project) findLocalDiff() ([]*FileDiff, error) {
	files, err := readDir(p.config.ContractsDir)
	if err != nil {
		return nil, err
	}

	sources, err := p.ListSources()
	if err != nil {
		return nil, err
	}
	diffFiles, err := calcDiff(sources, p.config.ContractsDir, files)
	if err != nil {
		return nil, err
	}

	// parse the files and update the sources
	for _, diff := range diffFiles {
		if diff.Type == FileDiffDel {
			if err := p.RemoveSource(diff.Path); err != nil {
				return nil, err
			}
			continue
		}

		source, err := parseSource(string(diff.Content), diff.Path)
		if err != nil {
			return nil, err
		}
		source.ModTime = diff.Mod

		if err := p.UpsertSource(source); err != nil {
			return nil, err
		}
	}

	return diffFiles, nil
}

// importersOf returns the sources that import the given path
func (p *Project) importersOf(path string) []string {
	res := []string{}
	for _, src := range p.sources {
		for _, imp := range src.Imports {
			if imp == path {
				res = append(res, src.relPath())
				break
			}
		}
	}
	return res
}

type fileWriter struct {
	absPath string
}

func (f *fileWriter) Write(path string, content interface{}) error {
	var data []byte

	if strings.HasSuffix(path, ".json") {
		jsonData, err := json.MarshalIndent(content, "", "    ")
		if err != nil {
			return err
		}
		data = jsonData
	} else {
		return fmt.Errorf("marshaling not found")
	}

	fullPath := filepath.Join(f.absPath, path)

	// create the parent directory if it does not exists
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return err
	}
	return nil
}

// Compile compiles the sources modified since the last call and writes
// one artifact per compiled contract
func (p *Project) Compile() (result *CompilationResult, err error) {
	// on failure restore the previous state so the next call retries
	// the same changes
	prevSources := append([]*Source{}, p.sources...)
	prevContracts := append(contractsList{}, p.contracts...)
	defer func() {
		if err != nil {
			p.sources = prevSources
			p.contracts = prevContracts
		}
	}()

	diffFiles, err := p.findLocalDiff()
	if err != nil {
		return nil, err
	}

	fileW := &fileWriter{
		absPath: p.config.ArtifactsDir,
	}

	diffSources := []string{}
	for _, diffFile := range diffFiles {
		if diffFile.Type != FileDiffDel {
			diffSources = append(diffSources, diffFile.Path)
			continue
		}
		diffSources = append(diffSources, p.importersOf(diffFile.Path)...)
	}
	result, err = p.compileImpl(unique(diffSources))
	if err != nil {
		return nil, err
	}

	// write artifacts!
	for _, name := range result.Contracts {
		// name has the format <path>:<contract>
		// remove the contract name
		spl := strings.Split(name, ":")

		contract := p.findContractByFullName(name)
		if contract == nil {
			return nil, fmt.Errorf("contract '%s' not found after compilation", name)
		}

		artifact := &contractArtifact{
			ABI:               contract.Abi,
			Bytecode:          contract.Bytecode,
			DeployedBytecode:  contract.DeployedBytecode,
			RawMetadata:       contract.Metadata,
			MethodIdentifiers: contract.MethodIdentifiers,
			Compiler:          contract.Compiler,
		}
		if contract.Metadata != "" {
			artifact.Metadata = json.RawMessage(contract.Metadata)
		}
		// resolve the ast from the source file
		if source := p.getSourceByPath(spl[0]); source != nil {
			artifact.AST = source.AST
		}

		if err := fileW.Write(filepath.Join("out", strings.Replace(name, ":", "/", -1))+".json", artifact); err != nil {
			return nil, err
		}
	}

	return result, nil
}

type CompilationResult struct {
	// Contracts is the list of contracts compiled
	Contracts []string

	// Runs is the list of independent compilation components
	Runs []*CompilationRun
}

type CompilationRun struct {
	// Paths of the Solidity contracts for this run
	Components []string

	// Compiler is the compiler selected for this run
	Compiler *CompilerConfig

	// ExecutionTime is the time it took this component to compile
	ExecutionTime time.Duration
}

func (p *Project) compileImpl(updatedFiles []string) (*CompilationResult, error) {
	logger := p.config.Logger

	sources, err := p.ListSources()
	if err != nil {
		return nil, err
	}
	sources = append([]*Source{}, sources...)
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].relPath() < sources[j].relPath()
	})

	updated := map[string]struct{}{}
	for _, i := range updatedFiles {
		updated[i] = struct{}{}
	}

	sourcesMap := map[string]*Source{}
	for _, s := range sources {
		sourcesMap[s.relPath()] = s
	}

	// build dag map
	dd := &dag.Dag{}
	for _, s := range sources {
		dd.AddVertex(s)
	}
	// add edges
	for _, src := range sources {
		for _, imp := range src.Imports {
			dst, ok := sourcesMap[imp]
			if !ok {
				// not a project file, solc resolves it from the base path
				logger.Debug("Import outside of the project", "source", src.relPath(), "import", imp)
				continue
			}
			dd.AddEdge(dag.Edge{
				Src: src,
				Dst: dst,
			})
		}
	}

	// Create an independent component set for each root of the graph (a
	// file nobody imports) with all of its transitive imports. Only recompute
	// the sets in which at least one node has been modified.
	components := [][]*Source{}
	for _, comp := range dd.FindComponents() {
		found := false
		subComp := []*Source{}
		for _, i := range comp {
			src := i.(*Source)
			if _, ok := updated[src.relPath()]; ok {
				found = true
			}
			subComp = append(subComp, src)
		}
		if found {
			components = append(components, subComp)
		}
	}

	resp := &CompilationResult{
		Contracts: []string{},
		Runs:      []*CompilationRun{},
	}

	// generate the outputs and compile
	for _, comp := range components {
		paths := []string{}
		for _, src := range comp {
			paths = append(paths, src.relPath())
		}

		compiler, err := selectCompiler(p.config.Build, comp)
		if err != nil {
			return nil, fmt.Errorf("failed to select compiler for [%s]: %w", strings.Join(paths, ", "), err)
		}

		path, err := p.svm.Resolve(compiler.Version)
		if err != nil {
			return nil, err
		}

		input := &solcInput{
			sources:  map[string]string{},
			compiler: compiler,
			config:   p.config,
		}
		for _, src := range comp {
			input.sources[src.relPath()] = src.Content
		}

		logger.Info("Compiling sources", "version", compiler.Version, "optimizer", compiler.Settings.Optimizer.Enabled, "runs", compiler.Settings.Optimizer.Runs, "sources", len(paths))
		now := time.Now()

		output, err := Compile(path, input)
		if err != nil {
			return nil, err
		}

		resp.Runs = append(resp.Runs, &CompilationRun{
			Components:    paths,
			Compiler:      compiler,
			ExecutionTime: time.Since(now),
		})

		for sourceName, sourceContracts := range output.Contracts {
			for contractName, contract := range sourceContracts {
				ctnr := &Contract{
					Name:              contractName,
					Source:            sourceName,
					Abi:               contract.Abi,
					Bytecode:          contract.EVM.Bytecode,
					DeployedBytecode:  contract.EVM.DeployedBytecode,
					Metadata:          contract.Metadata,
					MethodIdentifiers: contract.EVM.MethodIdentifiers,
					Compiler:          compiler,
				}
				if err := p.UpsertContract(ctnr); err != nil {
					return nil, err
				}
				resp.Contracts = append(resp.Contracts, sourceName+":"+contractName)
			}
		}

		for sourceName, source := range output.Sources {
			src := p.getSourceByPath(sourceName)
			if src == nil {
				continue
			}
			src.AST = source.AST
		}
	}

	resp.Contracts = unique(resp.Contracts)
	sort.Strings(resp.Contracts)
	return resp, nil
}

var (
	importRegexp = regexp.MustCompile(`import\s+(?:[^"';]*\s+from\s+)?("[^"]*"|'[^']*')`)
)

func parseDependencies(contract string) []string {
	res := importRegexp.FindAllStringSubmatch(contract, -1)
	if len(res) == 0 {
		return []string{}
	}

	clean := []string{}
	for _, j := range res {
		i := j[1]
		i = strings.Trim(i, "'")
		i = strings.Trim(i, "\"")
		clean = append(clean, i)
	}
	return clean
}

var (
	pragmaRegexp = regexp.MustCompile(`pragma\s+solidity\s+([^;]*);`)
)

// parsePragma returns the version pragma of the contract or an empty
// string if it does not declare one
func parsePragma(contract string) string {
	res := pragmaRegexp.FindStringSubmatch(contract)
	if len(res) == 0 {
		return ""
	}
	return strings.TrimSpace(res[1])
}

func unique(a []string) []string {
	b := []string{}
	for _, i := range a {
		found := false
		for _, j := range b {
			if i == j {
				found = true
			}
		}
		if !found {
			b = append(b, i)
		}
	}
	return b
}

type FileDiffType string

const (
	FileDiffAdd FileDiffType = "add"
	FileDiffDel FileDiffType = "del"
	FileDiffMod FileDiffType = "mod"
)

// FileDiff describes a file update
type FileDiff struct {
	// Path of the file being updated
	Path string

	// Type of the file update
	Type FileDiffType

	// Time of modification for the file
	Mod time.Time

	// Content is the content of the file
	Content []byte
}

func calcDiff(sources []*Source, contractsDir string, files []*fileRef) ([]*FileDiff, error) {
	diff := []*FileDiff{}

	sourcesMap := map[string]*Source{}
	for _, src := range sources {
		sourcesMap[src.relPath()] = src
	}

	visited := map[string]struct{}{}
	for _, file := range files {
		visited[file.path] = struct{}{}

		typ := FileDiffAdd
		if src, ok := sourcesMap[file.path]; ok {
			if src.ModTime.Equal(file.modTime) {
				continue
			}
			typ = FileDiffMod
		}

		content, err := os.ReadFile(filepath.Join(contractsDir, file.path))
		if err != nil {
			return nil, err
		}
		diff = append(diff, &FileDiff{
			Path:    file.path,
			Type:    typ,
			Mod:     file.modTime,
			Content: content,
		})
	}

	deleted := []string{}
	for path := range sourcesMap {
		if _, ok := visited[path]; !ok {
			deleted = append(deleted, path)
		}
	}
	sort.Strings(deleted)
	for _, path := range deleted {
		diff = append(diff, &FileDiff{
			Path: path,
			Type: FileDiffDel,
			Mod:  time.Time{},
		})
	}

	return diff, nil
}

func parseSource(content, path string) (*Source, error) {
	dir, filename := filepath.Dir(path), filepath.Base(path)

	relImports := parseDependencies(content)

	absImports, err := resolveRelativeImports(relImports, dir)
	if err != nil {
		return nil, err
	}

	source := &Source{
		Dir:      dir,
		Filename: filename,
		Pragma:   parsePragma(content),
		Imports:  absImports,
		Content:  content,
	}
	return source, nil
}

func resolveRelativeImports(deps []string, path string) ([]string, error) {
	res := []string{}
	for _, dep := range deps {
		if !strings.HasPrefix(dep, ".") {
			// global import, return as it is
			res = append(res, dep)
		} else {
			// local
			fullPath := filepath.Join(path, dep)
			if fullPath == ".." || strings.HasPrefix(fullPath, ".."+string(filepath.Separator)) {
				// if even after the `Join` there are `..` on the path it means that
				// the supplied path is not up enough to cover all the dependencies which
				// should not happen.
				return nil, fmt.Errorf("path '%s' does not contain import '%s'", path, dep)
			}
			res = append(res, fullPath)
		}
	}
	return res, nil
}
