package breakpoint

// Group holds the tokens that share one breakpoint prefix.
type Group struct {
	Prefix string
	Tokens []string
}

// Partition splits a token list into unprefixed base tokens and
// per-prefix groups. Groups are ordered by the first occurrence of
// their prefix in the input.
type Partition struct {
	Base   []string
	Groups []Group

	index map[string]int // prefix -> position in Groups
}

// Classify partitions tokens by breakpoint prefix.
// Every token lands in exactly one place and relative order is preserved
// within the base list and within each group.
func Classify(tokens []string) Partition {
	var p Partition
	for _, tok := range tokens {
		prefix, ok := Match(tok)
		if !ok {
			p.Base = append(p.Base, tok)
			continue
		}
		p.add(prefix, tok)
	}
	return p
}

func (p *Partition) add(prefix, tok string) {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	i, ok := p.index[prefix]
	if !ok {
		i = len(p.Groups)
		p.index[prefix] = i
		p.Groups = append(p.Groups, Group{Prefix: prefix})
	}
	p.Groups[i].Tokens = append(p.Groups[i].Tokens, tok)
}

// Empty reports whether no token carried a breakpoint prefix.
// An empty partition means there is nothing to regroup.
func (p Partition) Empty() bool {
	return len(p.Groups) == 0
}

// Bucket returns the tokens grouped under prefix.
func (p Partition) Bucket(prefix string) ([]string, bool) {
	i, ok := p.index[prefix]
	if !ok {
		return nil, false
	}
	return p.Groups[i].Tokens, true
}

// Len returns the total number of classified tokens.
func (p Partition) Len() int {
	n := len(p.Base)
	for _, g := range p.Groups {
		n += len(g.Tokens)
	}
	return n
}

// Flatten returns the base tokens followed by each group's tokens,
// which is the order the rewritten call passes them.
func (p Partition) Flatten() []string {
	out := make([]string, 0, p.Len())
	out = append(out, p.Base...)
	for _, g := range p.Groups {
		out = append(out, g.Tokens...)
	}
	return out
}
