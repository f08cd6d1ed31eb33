package args

import "slices"

// Tokens returns a copy of the argument tokens.
func (a *Args) Tokens() []string {
	return slices.Clone(a.tokens)
}

// Len returns the number of tokens.
func (a *Args) Len() int {
	return len(a.tokens)
}

// Get returns token i, or "" when i is out of range.
func (a *Args) Get(i int) string {
	if i < 0 || i >= len(a.tokens) {
		return ""
	}
	return a.tokens[i]
}

// Set replaces token i.
func (a *Args) Set(i int, v string) {
	a.tokens[i] = v
}

// Index returns the position of the first token equal to v, or -1.
func (a *Args) Index(v string) int {
	return slices.Index(a.tokens, v)
}

// Contains reports whether any token equals v.
func (a *Args) Contains(v string) bool {
	return slices.Contains(a.tokens, v)
}

// Insert inserts vs at position i.
func (a *Args) Insert(i int, vs ...string) {
	a.tokens = slices.Insert(a.tokens, i, vs...)
}

// Delete removes the first token equal to v and reports whether one was found.
func (a *Args) Delete(v string) bool {
	i := a.Index(v)
	if i < 0 {
		return false
	}
	a.DeleteAt(i)
	return true
}

// DeleteAt removes and returns token i, or "" when i is out of range.
func (a *Args) DeleteAt(i int) string {
	if i < 0 || i >= len(a.tokens) {
		return ""
	}
	v := a.tokens[i]
	a.tokens = slices.Delete(a.tokens, i, i+1)
	return v
}

// Remove removes every token equal to v and reports whether any was found.
func (a *Args) Remove(v string) bool {
	n := len(a.tokens)
	a.tokens = slices.DeleteFunc(a.tokens, func(t string) bool { return t == v })
	return len(a.tokens) != n
}

// Push appends vs.
func (a *Args) Push(vs ...string) {
	a.tokens = append(a.tokens, vs...)
}

// Pop removes and returns the last token.
func (a *Args) Pop() (string, bool) {
	if len(a.tokens) == 0 {
		return "", false
	}
	return a.DeleteAt(len(a.tokens) - 1), true
}

// Shift removes and returns the first token.
func (a *Args) Shift() (string, bool) {
	if len(a.tokens) == 0 {
		return "", false
	}
	return a.DeleteAt(0), true
}

// Replace swaps all tokens for vs.
func (a *Args) Replace(vs ...string) {
	a.tokens = slices.Clone(vs)
}
