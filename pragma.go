package solcbuild

import (
	"fmt"
	"regexp"
	"strings"

	version "github.com/hashicorp/go-version"
)

// versionPragma is a parsed `pragma solidity` expression. It matches a
// version if any of its alternatives (separated by ||) matches.
type versionPragma struct {
	raw          string
	alternatives []version.Constraints
}

var (
	// operators in pragmas may be followed by spaces: `>= 0.8.0`
	operatorSpaceRegexp = regexp.MustCompile(`(>=|<=|>|<|=|\^|~)\s+`)
)

func parseVersionPragma(raw string) (*versionPragma, error) {
	expr := operatorSpaceRegexp.ReplaceAllString(strings.TrimSpace(raw), "$1")
	if expr == "" {
		return nil, fmt.Errorf("empty version pragma")
	}

	p := &versionPragma{
		raw: raw,
	}
	for _, alt := range strings.Split(expr, "||") {
		constraints := []string{}
		for _, term := range strings.Fields(alt) {
			cc, err := expandPragmaTerm(term)
			if err != nil {
				return nil, fmt.Errorf("invalid pragma '%s': %v", raw, err)
			}
			constraints = append(constraints, cc...)
		}
		if len(constraints) == 0 {
			return nil, fmt.Errorf("invalid pragma '%s': empty alternative", raw)
		}

		c, err := version.NewConstraint(strings.Join(constraints, ", "))
		if err != nil {
			return nil, fmt.Errorf("invalid pragma '%s': %v", raw, err)
		}
		p.alternatives = append(p.alternatives, c)
	}
	return p, nil
}

// Check returns whether the compiler version satisfies the pragma
func (p *versionPragma) Check(v *version.Version) bool {
	for _, c := range p.alternatives {
		if c.Check(v) {
			return true
		}
	}
	return false
}

func (p *versionPragma) String() string {
	return p.raw
}

// expandPragmaTerm converts a single npm-style term used by solidity
// into go-version constraints
func expandPragmaTerm(term string) ([]string, error) {
	switch {
	case strings.HasPrefix(term, "^"):
		v, err := version.NewVersion(term[1:])
		if err != nil {
			return nil, err
		}
		return []string{">= " + v.String(), "< " + caretUpperBound(v)}, nil

	case strings.HasPrefix(term, "~"):
		v, err := version.NewVersion(term[1:])
		if err != nil {
			return nil, err
		}
		s := v.Segments()
		return []string{">= " + v.String(), fmt.Sprintf("< %d.%d.0", s[0], s[1]+1)}, nil

	case strings.HasPrefix(term, ">="), strings.HasPrefix(term, "<="):
		return []string{term[:2] + " " + term[2:]}, nil

	case strings.HasPrefix(term, ">"), strings.HasPrefix(term, "<"), strings.HasPrefix(term, "="):
		return []string{term[:1] + " " + term[1:]}, nil

	default:
		return []string{"= " + term}, nil
	}
}

// caretUpperBound returns the exclusive upper bound of ^v: the next
// increment of its first non-zero segment
func caretUpperBound(v *version.Version) string {
	s := v.Segments()
	switch {
	case s[0] != 0:
		return fmt.Sprintf("%d.0.0", s[0]+1)
	case s[1] != 0:
		return fmt.Sprintf("0.%d.0", s[1]+1)
	default:
		return fmt.Sprintf("0.0.%d", s[2]+1)
	}
}
