package solcbuild

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	version "github.com/hashicorp/go-version"
)

var ErrNoCompatibleCompiler = errors.New("no compatible compiler")

// selectCompiler picks the compiler for a set of sources that must be
// compiled together. An override on any of the sources wins; otherwise the
// highest configured version that satisfies every pragma is used.
func selectCompiler(build *BuildConfig, sources []*Source) (*CompilerConfig, error) {
	pragmas := []*versionPragma{}
	pragmaSources := []*Source{}
	for _, src := range sources {
		if src.Pragma == "" {
			// no pragma, any version compiles it
			continue
		}
		p, err := parseVersionPragma(src.Pragma)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.relPath(), err)
		}
		pragmas = append(pragmas, p)
		pragmaSources = append(pragmaSources, src)
	}

	var override *CompilerConfig
	var overrideSrc string
	for _, src := range sources {
		c, ok := build.Overrides[filepath.ToSlash(src.relPath())]
		if !ok {
			continue
		}
		if override != nil && !reflect.DeepEqual(*override, c) {
			return nil, fmt.Errorf("sources '%s' and '%s' are compiled together but override different compilers", overrideSrc, src.relPath())
		}
		c = c.copy()
		override, overrideSrc = &c, filepath.ToSlash(src.relPath())
	}

	if override != nil {
		v, err := version.NewVersion(override.Version)
		if err != nil {
			return nil, err
		}
		for indx, p := range pragmas {
			if !p.Check(v) {
				return nil, fmt.Errorf("%w: override %s for '%s' does not satisfy pragma '%s' of '%s'",
					ErrNoCompatibleCompiler, override.Version, overrideSrc, p, pragmaSources[indx].relPath())
			}
		}
		return override, nil
	}

	type candidate struct {
		v *version.Version
		c CompilerConfig
	}
	candidates := []candidate{}
	for _, c := range build.Compilers {
		v, err := version.NewVersion(c.Version)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate{v: v, c: c})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].v.GreaterThan(candidates[j].v)
	})

	for _, cand := range candidates {
		ok := true
		for _, p := range pragmas {
			if !p.Check(cand.v) {
				ok = false
				break
			}
		}
		if ok {
			c := cand.c.copy()
			return &c, nil
		}
	}

	raw := []string{}
	for _, p := range pragmas {
		raw = append(raw, p.String())
	}
	return nil, fmt.Errorf("%w: pragmas [%s] are not satisfied by any of [%s]",
		ErrNoCompatibleCompiler, strings.Join(unique(raw), ", "), strings.Join(build.Versions(), ", "))
}
