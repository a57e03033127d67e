package domain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultTagSeparator joins tags on the wire and splits user input.
const DefaultTagSeparator = ","

// TagSet is an ordered collection of normalized, unique tags.
// The zero value is not usable; construct with NewTagSet or one of the helpers.
type TagSet struct {
	sep  string
	tags []string
}

// NewTagSet returns an empty set using sep for splitting and joining.
func NewTagSet(sep string) *TagSet {
	if sep == "" {
		sep = DefaultTagSeparator
	}
	return &TagSet{sep: sep}
}

// ParseTags builds a set from a separator-joined string such as "a, b,c".
func ParseTags(s, sep string) *TagSet {
	return NewTagSet(sep).Add(s)
}

// TagSetOf builds a set from individual items using the default separator.
func TagSetOf(items ...string) *TagSet {
	return NewTagSet(DefaultTagSeparator).Add(items...)
}

// TagSetFrom accepts nil, a string, a string slice, a slice of scalars, a
// fmt.Stringer or a scalar number/bool. Anything else is malformed input.
func TagSetFrom(src any, sep string) (*TagSet, error) {
	ts := NewTagSet(sep)
	switch v := src.(type) {
	case nil:
		return ts, nil
	case []string:
		return ts.Add(v...), nil
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := scalarText(item)
			if !ok {
				return nil, &MalformedInputError{Value: item}
			}
			items = append(items, s)
		}
		return ts.Add(items...), nil
	default:
		s, ok := scalarText(v)
		if !ok {
			return nil, &MalformedInputError{Value: src}
		}
		return ts.Add(s), nil
	}
}

func scalarText(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case fmt.Stringer:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	default:
		return "", false
	}
}

// Normalize trims whitespace and surrounding separators and lowercases s.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s, sep string) string {
	if sep == "" {
		sep = DefaultTagSeparator
	}
	s = strings.TrimSpace(s)
	for {
		trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(s, sep), sep))
		if trimmed == s {
			break
		}
		s = trimmed
	}
	return strings.ToLower(s)
}

// normalizeAll splits items on the separator and drops empty results, so no
// stored tag ever contains the separator.
func (t *TagSet) normalizeAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		for _, part := range strings.Split(item, t.sep) {
			if n := Normalize(part, t.sep); n != "" {
				out = append(out, n)
			}
		}
	}
	return out
}

func (t *TagSet) index(tag string) int {
	for i, existing := range t.tags {
		if existing == tag {
			return i
		}
	}
	return -1
}

// Add appends items that are not already present.
func (t *TagSet) Add(items ...string) *TagSet {
	return t.AddAt(len(t.tags), items...)
}

// AddAt inserts items that are not already present starting at pos.
// pos is clamped to [0, Len()].
func (t *TagSet) AddAt(pos int, items ...string) *TagSet {
	if pos < 0 {
		pos = 0
	}
	for _, tag := range t.normalizeAll(items) {
		if t.index(tag) >= 0 {
			continue
		}
		if pos > len(t.tags) {
			pos = len(t.tags)
		}
		t.tags = append(t.tags, "")
		copy(t.tags[pos+1:], t.tags[pos:])
		t.tags[pos] = tag
		pos++
	}
	return t
}

// Remove deletes items that are present; absent items are ignored.
func (t *TagSet) Remove(items ...string) *TagSet {
	for _, tag := range t.normalizeAll(items) {
		if i := t.index(tag); i >= 0 {
			t.tags = append(t.tags[:i], t.tags[i+1:]...)
		}
	}
	return t
}

// LimitByMinLength drops every tag shorter than n characters.
func (t *TagSet) LimitByMinLength(n int) *TagSet {
	kept := t.tags[:0]
	for _, tag := range t.tags {
		if utf8.RuneCountInString(tag) >= n {
			kept = append(kept, tag)
		}
	}
	t.tags = kept
	return t
}

// LimitByMaxCount removes the shortest tags, earliest first on ties, until
// at most n remain.
func (t *TagSet) LimitByMaxCount(n int) *TagSet {
	if n < 0 {
		n = 0
	}
	for len(t.tags) > n {
		shortest := 0
		for i, tag := range t.tags {
			if utf8.RuneCountInString(tag) < utf8.RuneCountInString(t.tags[shortest]) {
				shortest = i
			}
		}
		t.tags = append(t.tags[:shortest], t.tags[shortest+1:]...)
	}
	return t
}

// Clone returns an independent copy of the set.
func (t *TagSet) Clone() *TagSet {
	return &TagSet{sep: t.sep, tags: t.List()}
}

// Contains reports whether the normalized form of tag is in the set.
func (t *TagSet) Contains(tag string) bool {
	return t.index(Normalize(tag, t.sep)) >= 0
}

// Len returns the number of tags.
func (t *TagSet) Len() int { return len(t.tags) }

// List returns a copy of the tags in order.
func (t *TagSet) List() []string {
	out := make([]string, len(t.tags))
	copy(out, t.tags)
	return out
}

// Join joins the tags with sep.
func (t *TagSet) Join(sep string) string {
	return strings.Join(t.tags, sep)
}

// String joins the tags with the set's separator.
func (t *TagSet) String() string {
	return t.Join(t.sep)
}
