package enumerate

import "strings"

// Rules is the exclusion rule set. The two kinds are applied independently and a
// path is excluded if it matches any rule of either kind.
type Rules struct {
	// DirPrefixes match when the path contains the pattern anywhere.
	DirPrefixes []string
	// Suffixes match against the end of the path.
	Suffixes []string
}

// DefaultRules returns the built-in exclusion set.
func DefaultRules() Rules {
	return ParseRules([]string{
		"target/", ".git/", "node_modules/",
		".DS_Store", "Cargo.lock", "*.lock", "*.log",
		"gm_ml/lib/", "gm_ml/lib64/", "gm_ml/include/",
		"traces/", "trained-agents/",
	})
}

// ParseRules sorts raw patterns into rule kinds. A pattern ending in '/' is a
// directory rule. Anything else is a suffix rule, with a leading '*' stripped.
func ParseRules(patterns []string) Rules {
	var r Rules
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
		case strings.HasSuffix(p, "/"):
			r.DirPrefixes = append(r.DirPrefixes, p)
		default:
			if s := strings.TrimLeft(p, "*"); s != "" {
				r.Suffixes = append(r.Suffixes, s)
			}
		}
	}
	return r
}

// Merge returns a rule set holding the rules of both r and other.
func (r Rules) Merge(other Rules) Rules {
	return Rules{
		DirPrefixes: append(append([]string{}, r.DirPrefixes...), other.DirPrefixes...),
		Suffixes:    append(append([]string{}, r.Suffixes...), other.Suffixes...),
	}
}

// Excludes reports whether path matches any rule.
func (r Rules) Excludes(path string) bool {
	for _, d := range r.DirPrefixes {
		if strings.Contains(path, d) {
			return true
		}
	}
	for _, s := range r.Suffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}
