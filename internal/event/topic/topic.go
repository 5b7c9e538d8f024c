package topic

import "strings"

// Topic names an event ("basket.changed") or, when it contains wildcard
// segments, a set of events ("basket.*", "form.**").
type Topic string

const (
	// WildcardSingle stands for exactly one segment.
	WildcardSingle = "*"
	// WildcardMulti stands for any number of segments, including none.
	WildcardMulti = "**"
	// Separator splits segments.
	Separator = "."
)

func (t Topic) String() string { return string(t) }

// Segments returns the dot-separated parts of t, or nil for "".
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// IsWildcard reports whether any segment is "*" or "**".
func (t Topic) IsWildcard() bool {
	rest := string(t)
	for rest != "" {
		var seg string
		seg, rest, _ = strings.Cut(rest, Separator)
		if seg == WildcardSingle || seg == WildcardMulti {
			return true
		}
	}
	return false
}

// IsValid rejects the empty topic and topics with empty segments.
func (t Topic) IsValid() bool {
	s := string(t)
	return s != "" &&
		!strings.HasPrefix(s, Separator) &&
		!strings.HasSuffix(s, Separator) &&
		!strings.Contains(s, Separator+Separator)
}

// Matches reports whether the concrete topic t is selected by pattern.
// Matching against many patterns at once is the Matcher's job.
func (t Topic) Matches(pattern Topic) bool {
	return matchSegments(t.Segments(), pattern.Segments())
}

func matchSegments(name, pattern []string) bool {
	if len(pattern) == 0 {
		return len(name) == 0
	}
	switch head := pattern[0]; {
	case head == WildcardMulti:
		// Try every split point, shortest first.
		for i := 0; i <= len(name); i++ {
			if matchSegments(name[i:], pattern[1:]) {
				return true
			}
		}
		return false
	case len(name) == 0:
		return false
	case head == WildcardSingle || head == name[0]:
		return matchSegments(name[1:], pattern[1:])
	}
	return false
}
