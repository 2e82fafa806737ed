package solcbuild

import (
	"testing"

	version "github.com/hashicorp/go-version"
	"github.com/stretchr/testify/require"
)

func TestVersionPragma(t *testing.T) {
	cases := []struct {
		pragma   string
		matches  []string
		excludes []string
	}{
		{
			"^0.8.0",
			[]string{"0.8.0", "0.8.23"},
			[]string{"0.7.6", "0.9.0"},
		},
		{
			"^0.0.3",
			[]string{"0.0.3"},
			[]string{"0.0.4"},
		},
		{
			"^1.2.0",
			[]string{"1.2.0", "1.9.9"},
			[]string{"2.0.0", "1.1.9"},
		},
		{
			"~0.8.1",
			[]string{"0.8.1", "0.8.23"},
			[]string{"0.8.0", "0.9.0"},
		},
		{
			">=0.8.0 <0.9.0",
			[]string{"0.8.0", "0.8.23"},
			[]string{"0.9.0", "0.7.6"},
		},
		{
			">= 0.6.0 < 0.8.0",
			[]string{"0.6.12", "0.7.6"},
			[]string{"0.8.0"},
		},
		{
			"0.8.23",
			[]string{"0.8.23"},
			[]string{"0.8.22"},
		},
		{
			"=0.8.4",
			[]string{"0.8.4"},
			[]string{"0.8.5"},
		},
		{
			"^0.6.12 || ^0.8.0",
			[]string{"0.6.12", "0.8.23"},
			[]string{"0.7.6"},
		},
		{
			">0.8.0 <=0.8.20",
			[]string{"0.8.1", "0.8.20"},
			[]string{"0.8.0", "0.8.21"},
		},
	}

	for _, c := range cases {
		t.Run(c.pragma, func(t *testing.T) {
			p, err := parseVersionPragma(c.pragma)
			require.NoError(t, err)

			for _, m := range c.matches {
				require.True(t, p.Check(version.Must(version.NewVersion(m))), m)
			}
			for _, m := range c.excludes {
				require.False(t, p.Check(version.Must(version.NewVersion(m))), m)
			}
		})
	}
}

func TestVersionPragma_Invalid(t *testing.T) {
	cases := []string{
		"",
		"^latest",
		"^0.8.0 ||",
		">=x",
	}

	for _, c := range cases {
		_, err := parseVersionPragma(c)
		require.Error(t, err, c)
	}
}
