package breakpoint

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		token  string
		prefix string
		ok     bool
	}{
		{"sm:p-8", "sm:", true},
		{"mobile:hidden", "mobile:", true},
		{"tablet:block", "tablet:", true},
		{"desktop:flex", "desktop:", true},
		{"md:grid", "md:", true},
		{"lg:w-1/2", "lg:", true},
		{"xl:text-lg", "xl:", true},
		{"2xl:mx-auto", "2xl:", true},
		{"p-4", "", false},
		{"hover:bg-red", "", false},
		{"SM:p-8", "", false},
		{"sm", "", false},
		{"xsm:p-1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			prefix, ok := Match(tt.token)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.prefix, prefix)
		})
	}
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"p-4", "sm:p-8", "text-center"}, Tokens("  p-4\tsm:p-8 \n text-center  "))
	assert.Empty(t, Tokens(""))
	assert.Empty(t, Tokens(" \t\n"))
}

func TestClassify_MixedTokens(t *testing.T) {
	p := Classify(Tokens("p-4 sm:p-8 text-center"))

	require.False(t, p.Empty())
	assert.Equal(t, []string{"p-4", "text-center"}, p.Base)
	require.Len(t, p.Groups, 1)
	assert.Equal(t, "sm:", p.Groups[0].Prefix)
	assert.Equal(t, []string{"sm:p-8"}, p.Groups[0].Tokens)
}

func TestClassify_NoPrefixedTokens(t *testing.T) {
	p := Classify([]string{"flex"})

	assert.True(t, p.Empty())
	assert.Equal(t, []string{"flex"}, p.Base)
}

func TestClassify_EmptyInput(t *testing.T) {
	p := Classify(nil)

	assert.True(t, p.Empty())
	assert.Empty(t, p.Base)
	assert.Equal(t, 0, p.Len())
}

func TestClassify_GroupsInFirstOccurrenceOrder(t *testing.T) {
	p := Classify(Tokens("lg:flex p-2 sm:p-4 lg:gap-2 mobile:hidden sm:m-1"))

	var prefixes []string
	for _, g := range p.Groups {
		prefixes = append(prefixes, g.Prefix)
	}
	assert.Equal(t, []string{"lg:", "sm:", "mobile:"}, prefixes)

	lg, ok := p.Bucket("lg:")
	require.True(t, ok)
	assert.Equal(t, []string{"lg:flex", "lg:gap-2"}, lg)

	sm, ok := p.Bucket("sm:")
	require.True(t, ok)
	assert.Equal(t, []string{"sm:p-4", "sm:m-1"}, sm)

	_, ok = p.Bucket("xl:")
	assert.False(t, ok)
}

func TestClassify_OnlyPrefixedTokens(t *testing.T) {
	p := Classify(Tokens("mobile:hidden desktop:flex"))

	assert.Empty(t, p.Base)
	require.Len(t, p.Groups, 2)
	assert.Equal(t, "mobile:", p.Groups[0].Prefix)
	assert.Equal(t, "desktop:", p.Groups[1].Prefix)
}

func TestPartition_Flatten(t *testing.T) {
	p := Classify(Tokens("sm:a b md:c sm:d e"))
	assert.Equal(t, []string{"b", "e", "sm:a", "sm:d", "md:c"}, p.Flatten())
}

// tokenGen draws class-like tokens, roughly half of them prefixed.
func tokenGen() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		body := rapid.StringMatching(`[a-z][a-z0-9-]{0,6}`).Draw(t, "body")
		if rapid.Bool().Draw(t, "prefixed") {
			return rapid.SampledFrom(Prefixes).Draw(t, "prefix") + body
		}
		return body
	})
}

func TestProperty_PartitionIsCompleteDisjointCover(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tokens := rapid.SliceOf(tokenGen()).Draw(t, "tokens")
		p := Classify(tokens)

		got := p.Flatten()
		want := append([]string(nil), tokens...)
		sort.Strings(got)
		sort.Strings(want)
		if len(want) == 0 {
			want = []string{}
		}
		require.Equal(t, want, got)
		require.Equal(t, len(tokens), p.Len())
	})
}

func TestProperty_GroupsHoldOnlyTheirPrefix(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tokens := rapid.SliceOf(tokenGen()).Draw(t, "tokens")
		p := Classify(tokens)

		for _, tok := range p.Base {
			_, ok := Match(tok)
			require.False(t, ok, "base token %q has a prefix", tok)
		}
		seen := make(map[string]bool)
		for _, g := range p.Groups {
			require.False(t, seen[g.Prefix], "prefix %q appears twice", g.Prefix)
			seen[g.Prefix] = true
			require.NotEmpty(t, g.Tokens)
			for _, tok := range g.Tokens {
				prefix, _ := Match(tok)
				require.Equal(t, g.Prefix, prefix)
			}
		}
		require.Equal(t, len(p.Groups) == 0, p.Empty())
	})
}

func TestProperty_OrderPreserved(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tokens := rapid.SliceOf(tokenGen()).Draw(t, "tokens")
		p := Classify(tokens)

		// Each bucket is the input filtered by its prefix, in input order.
		var base []string
		byPrefix := make(map[string][]string)
		var order []string
		for _, tok := range tokens {
			prefix, ok := Match(tok)
			if !ok {
				base = append(base, tok)
				continue
			}
			if _, seen := byPrefix[prefix]; !seen {
				order = append(order, prefix)
			}
			byPrefix[prefix] = append(byPrefix[prefix], tok)
		}

		require.Equal(t, base, p.Base)
		require.Len(t, p.Groups, len(order))
		for i, prefix := range order {
			require.Equal(t, prefix, p.Groups[i].Prefix)
			require.Equal(t, byPrefix[prefix], p.Groups[i].Tokens)
		}
	})
}
