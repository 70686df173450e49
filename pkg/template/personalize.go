package template

import "strings"

// Personalize substitutes contact fields into tmpl.
//
// Placeholders are $name or ${name}, where name starts with an ASCII letter or
// underscore followed by letters, digits or underscores. "$$" yields a single
// "$". A placeholder whose name is not in fields, and any "$" that does not
// start a valid placeholder, is copied to the output unchanged. Personalize
// never fails.
func Personalize(tmpl string, fields map[string]string) string {
	if !strings.Contains(tmpl, "$") {
		return tmpl
	}

	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); {
		c := tmpl[i]
		if c != '$' || i+1 >= len(tmpl) {
			b.WriteByte(c)
			i++
			continue
		}

		next := tmpl[i+1]
		switch {
		case next == '$':
			b.WriteByte('$')
			i += 2

		case next == '{':
			end := i + 2 + identLen(tmpl[i+2:])
			if end == i+2 || end >= len(tmpl) || tmpl[end] != '}' {
				b.WriteByte('$')
				i++
				continue
			}
			name := tmpl[i+2 : end]
			if v, ok := fields[name]; ok {
				b.WriteString(v)
			} else {
				b.WriteString(tmpl[i : end+1])
			}
			i = end + 1

		default:
			n := identLen(tmpl[i+1:])
			if n == 0 {
				b.WriteByte('$')
				i++
				continue
			}
			name := tmpl[i+1 : i+1+n]
			if v, ok := fields[name]; ok {
				b.WriteString(v)
			} else {
				b.WriteString(tmpl[i : i+1+n])
			}
			i += 1 + n
		}
	}

	return b.String()
}

// Placeholders returns the distinct placeholder names used in tmpl, in order
// of first appearance. Escaped "$$" sequences are skipped.
func Placeholders(tmpl string) []string {
	var names []string
	seen := map[string]bool{}
	for i := 0; i < len(tmpl)-1; i++ {
		if tmpl[i] != '$' {
			continue
		}
		var name string
		switch tmpl[i+1] {
		case '$':
			i++
			continue
		case '{':
			n := identLen(tmpl[i+2:])
			if n == 0 || i+2+n >= len(tmpl) || tmpl[i+2+n] != '}' {
				continue
			}
			name = tmpl[i+2 : i+2+n]
			i += 2 + n
		default:
			n := identLen(tmpl[i+1:])
			if n == 0 {
				continue
			}
			name = tmpl[i+1 : i+1+n]
			i += n
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// identLen returns the length of the identifier at the start of s.
func identLen(s string) int {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return i
		}
	}
	return len(s)
}
