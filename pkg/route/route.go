// Package route maps actions to URL templates and resolves templates
// into concrete request URLs.
package route

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Map associates an action name (fetch, save, delete, or custom) with
// a route value. The default form of a route value is a URL path
// template with {name} placeholders.
type Map map[string]string

// DefaultParameterPattern matches {name} placeholders; the single
// capture group is the parameter name.
const DefaultParameterPattern = `\{([^{}]+)\}`

// Resolver translates a route value plus parameters into a request
// URL. The default is TemplateResolver; hosts with non-path route
// systems can substitute their own.
type Resolver interface {
	Resolve(route string, params map[string]any) (string, error)
}

// TemplateResolver interpolates placeholder parameters into a URL
// template. Parameter values are URL path escaped.
type TemplateResolver struct {
	pattern *regexp.Regexp
	err     error
}

// NewTemplateResolver creates a resolver using pattern to find
// placeholders; the pattern's first capture group must be the
// parameter name. An empty pattern uses DefaultParameterPattern. An
// invalid pattern is reported by Resolve rather than here, so the
// resolver can be built inside option lists that cannot fail.
func NewTemplateResolver(pattern string) *TemplateResolver {
	if pattern == "" {
		pattern = DefaultParameterPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return &TemplateResolver{err: fmt.Errorf("invalid route parameter pattern %q: %w", pattern, err)}
	}
	return &TemplateResolver{pattern: re}
}

// Resolve interpolates params into the route template. Placeholders
// without a matching parameter are an error; extra parameters are
// ignored.
func (r *TemplateResolver) Resolve(route string, params map[string]any) (string, error) {
	if r.err != nil {
		return "", r.err
	}

	var missing []string
	resolved := r.pattern.ReplaceAllStringFunc(route, func(match string) string {
		groups := r.pattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			missing = append(missing, match)
			return match
		}
		name := groups[1]
		value, ok := params[name]
		if !ok {
			missing = append(missing, name)
			return match
		}
		return url.PathEscape(fmt.Sprintf("%v", value))
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("unresolved route parameters: %s", strings.Join(missing, ", "))
	}
	return resolved, nil
}
