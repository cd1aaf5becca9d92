package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		expected bool
	}{
		{"set true", New(map[string]bool{FlagLiteralOnly: true}), FlagLiteralOnly, true},
		{"set false", New(map[string]bool{FlagLiteralOnly: false}), FlagLiteralOnly, false},
		{"unset", New(map[string]bool{}), FlagLiteralOnly, false},
		{"nil map", New(nil), FlagLiteralOnly, false},
		{"nil registry", nil, FlagLiteralOnly, false},
		{"unknown flag", New(map[string]bool{"other": true}), FlagLiteralOnly, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.registry.Enabled(tt.flag))
		})
	}
}

func TestRegistry_Unknown(t *testing.T) {
	r := New(map[string]bool{"zeta": true, FlagLiteralOnly: true, "alpha": false})
	require.Equal(t, []string{"alpha", "zeta"}, r.Unknown())

	var nilReg *Registry
	require.Nil(t, nilReg.Unknown())
}

func TestRegistry_CopiesInput(t *testing.T) {
	in := map[string]bool{FlagLiteralOnly: true}
	r := New(in)
	in[FlagLiteralOnly] = false
	require.True(t, r.Enabled(FlagLiteralOnly))

	all := r.All()
	all[FlagLiteralOnly] = false
	require.True(t, r.Enabled(FlagLiteralOnly))
}

func TestRegistry_AllOnNil(t *testing.T) {
	var r *Registry
	require.NotNil(t, r.All())
	require.Empty(t, r.All())
}

func TestKnown(t *testing.T) {
	require.Equal(t, []string{FlagLiteralOnly}, Known())
}
