package response

import (
	"strconv"
	"strings"

	"github.com/CrestNiraj12/tumblrpost/domain"
)

type step struct {
	raw     string
	name    string
	bracket bool
	key     string
}

// parseStep splits "name[key]"; ok is false for an unterminated bracket.
func parseStep(raw string) (step, bool) {
	s := step{raw: raw, name: raw}
	open := strings.IndexByte(raw, '[')
	if open < 0 {
		return s, true
	}
	if !strings.HasSuffix(raw, "]") {
		return s, false
	}
	s.name = raw[:open]
	s.bracket = true
	s.key = strings.TrimSpace(raw[open+1 : len(raw)-1])
	return s, true
}

// Get walks path from v. Steps are separated by "/" and take the forms
// "name", "name[]" (first element), "name[3]" and "name[key]".
func Get(v Value, path string) (Value, error) {
	cur := v
	for _, raw := range strings.Split(path, "/") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		st, ok := parseStep(raw)
		if !ok {
			return Value{}, &domain.PathNotFoundError{Path: path, Step: raw}
		}
		if st.name != "" {
			next, ok := cur.Field(st.name)
			if !ok {
				return Value{}, &domain.PathNotFoundError{Path: path, Step: st.name}
			}
			cur = next
		}
		if !st.bracket {
			continue
		}
		var err error
		if cur, err = applyBracket(cur, st, path); err != nil {
			return Value{}, err
		}
	}
	return cur, nil
}

func applyBracket(cur Value, st step, path string) (Value, error) {
	switch cur.Kind() {
	case Array:
		idx := 0
		if st.key != "" {
			n, err := strconv.Atoi(st.key)
			if err != nil {
				return Value{}, &domain.TypeMismatchError{Path: path, Step: st.raw, Got: "array"}
			}
			idx = n
		}
		item, ok := cur.Index(idx)
		if !ok {
			return Value{}, &domain.PathNotFoundError{Path: path, Step: st.raw}
		}
		return item, nil
	case Object:
		if st.key == "" {
			return Value{}, &domain.TypeMismatchError{Path: path, Step: st.raw, Got: "object"}
		}
		item, ok := cur.Field(st.key)
		if !ok {
			return Value{}, &domain.PathNotFoundError{Path: path, Step: st.raw}
		}
		return item, nil
	default:
		return Value{}, &domain.TypeMismatchError{Path: path, Step: st.raw, Got: cur.Kind().String()}
	}
}

// Text is Get followed by Value.Text.
func Text(v Value, path string) (string, error) {
	got, err := Get(v, path)
	if err != nil {
		return "", err
	}
	return got.Text(), nil
}
