package rewrite

// Replace makes the whole text become s.
func Replace(s string) Transform {
	return func(*Match) (string, error) {
		return s, nil
	}
}

// Splice replaces the matched text with s and keeps the rest.
func Splice(s string) Transform {
	return func(m *Match) (string, error) {
		return m.Splice(s), nil
	}
}

// SpliceFunc replaces the matched text with fn(matched text).
func SpliceFunc(fn func(string) string) Transform {
	return func(m *Match) (string, error) {
		return m.Splice(fn(m.Text)), nil
	}
}

// Template replaces the matched text with tmpl expanded against the match
// groups, see Match.Expand.
func Template(tmpl string) Transform {
	return func(m *Match) (string, error) {
		return m.Splice(m.Expand(tmpl)), nil
	}
}

// Func adapts a transform that cannot fail.
func Func(fn func(*Match) string) Transform {
	return func(m *Match) (string, error) {
		return fn(m), nil
	}
}
