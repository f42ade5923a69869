package ui

import (
	"fmt"
	"os"
	"strings"
)

type decl struct {
	prop, value string
}

// Stylesheet holds ".class { prop: value; }" rules. Later declarations win.
type Stylesheet struct {
	rules map[string][]decl
}

// ParseStylesheet reads class rules. Comments are stripped; any other
// selector, a malformed declaration or a bad value is an error.
func ParseStylesheet(src string) (*Stylesheet, error) {
	sheet := &Stylesheet{rules: map[string][]decl{}}
	src = stripComments(src)
	for {
		src = strings.TrimSpace(src)
		if src == "" {
			return sheet, nil
		}
		head, rest, ok := strings.Cut(src, "{")
		if !ok {
			return nil, fmt.Errorf("stylesheet: missing { after %q", head)
		}
		sel := strings.TrimSpace(head)
		class, ok := strings.CutPrefix(sel, ".")
		if !ok || class == "" || strings.ContainsAny(class, " \t\n.#>,:") {
			return nil, fmt.Errorf("stylesheet: unsupported selector %q", sel)
		}
		body, rest, ok := strings.Cut(rest, "}")
		if !ok {
			return nil, fmt.Errorf("stylesheet: unterminated rule %q", sel)
		}
		for _, d := range strings.Split(body, ";") {
			if strings.TrimSpace(d) == "" {
				continue
			}
			prop, value, ok := strings.Cut(d, ":")
			if !ok {
				return nil, fmt.Errorf("stylesheet: %s: malformed declaration %q", sel, strings.TrimSpace(d))
			}
			prop = strings.ToLower(strings.TrimSpace(prop))
			value = strings.TrimSpace(value)
			var check Style
			if err := check.set(prop, value); err != nil {
				return nil, fmt.Errorf("stylesheet: %s: %w", sel, err)
			}
			sheet.rules[class] = append(sheet.rules[class], decl{prop, value})
		}
		src = rest
	}
}

// LoadStylesheet parses the file at path.
func LoadStylesheet(path string) (*Stylesheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseStylesheet(string(data))
}

func stripComments(s string) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "/*")
		if start < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:start])
		end := strings.Index(s[start+2:], "*/")
		if end < 0 {
			return b.String()
		}
		s = s[start+2+end+2:]
	}
}

// Style merges classes left to right over the defaults.
func (s *Stylesheet) Style(classes ...string) Style {
	st := defaultStyle()
	if s == nil {
		return st
	}
	for _, c := range classes {
		for _, d := range s.rules[c] {
			_ = st.set(d.prop, d.value)
		}
	}
	return st
}
