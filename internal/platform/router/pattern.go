package router

import (
	"fmt"
	"strconv"
	"strings"
)

type segment struct {
	literal string
	param   string
}

// Pattern is a compiled route template such as /api/patients/{id}.
// Literal segments must match exactly; a {name} placeholder matches one
// segment made only of ASCII digits and is delivered as an int64.
type Pattern struct {
	template string
	segments []segment
}

// Compile parses a template. Templates must be absolute, must not contain
// empty segments and must not repeat a placeholder name.
func Compile(template string) (Pattern, error) {
	if !strings.HasPrefix(template, "/") {
		return Pattern{}, fmt.Errorf("route template %q must start with /", template)
	}
	p := Pattern{template: template}
	if template == "/" {
		return p, nil
	}
	seen := make(map[string]bool)
	for _, part := range strings.Split(template[1:], "/") {
		if part == "" {
			return Pattern{}, fmt.Errorf("route template %q has an empty segment", template)
		}
		if strings.HasPrefix(part, "{") || strings.HasSuffix(part, "}") {
			name := strings.TrimSuffix(strings.TrimPrefix(part, "{"), "}")
			if len(part) < 3 || !strings.HasPrefix(part, "{") || !strings.HasSuffix(part, "}") || strings.ContainsAny(name, "{}") {
				return Pattern{}, fmt.Errorf("route template %q has malformed placeholder %q", template, part)
			}
			if seen[name] {
				return Pattern{}, fmt.Errorf("route template %q repeats placeholder %q", template, name)
			}
			seen[name] = true
			p.segments = append(p.segments, segment{param: name})
			continue
		}
		p.segments = append(p.segments, segment{literal: part})
	}
	return p, nil
}

// MustCompile is like Compile but panics on an invalid template.
func MustCompile(template string) Pattern {
	p, err := Compile(template)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pattern) String() string { return p.template }

// Match reports whether path matches the pattern and extracts the
// placeholder values. A placeholder whose digits overflow int64 does not
// match.
func (p Pattern) Match(path string) (Params, bool) {
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}
	var parts []string
	if path != "/" {
		parts = strings.Split(path[1:], "/")
	}
	if len(parts) != len(p.segments) {
		return nil, false
	}
	var params Params
	for i, seg := range p.segments {
		if seg.param == "" {
			if parts[i] != seg.literal {
				return nil, false
			}
			continue
		}
		if !allDigits(parts[i]) {
			return nil, false
		}
		n, err := strconv.ParseInt(parts[i], 10, 64)
		if err != nil {
			return nil, false
		}
		if params == nil {
			params = make(Params)
		}
		params[seg.param] = n
	}
	return params, true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Params holds the placeholder values of a matched route.
type Params map[string]int64

// Int64 returns the named placeholder value; zero when absent.
func (p Params) Int64(name string) int64 { return p[name] }
