package authz

import (
	"net/http"
	"slices"
	"strings"
)

// RouteRule declares a public route. Methods limits the rule to those verbs;
// an empty Methods makes the pattern public for every verb.
type RouteRule struct {
	Pattern string
	Methods []string
}

// RoutePolicy is an ordered, immutable table of public routes.
type RoutePolicy struct {
	rules []RouteRule
}

// NewRoutePolicy builds a policy from rules, evaluated in the given order.
func NewRoutePolicy(rules ...RouteRule) *RoutePolicy {
	cp := make([]RouteRule, len(rules))
	for i, r := range rules {
		cp[i] = RouteRule{Pattern: r.Pattern, Methods: upper(r.Methods)}
	}
	return &RoutePolicy{rules: cp}
}

// Public returns a rule that is public for every verb.
func Public(pattern string) RouteRule {
	return RouteRule{Pattern: pattern}
}

// PublicFor returns a rule that is public only for the listed verbs.
func PublicFor(pattern string, methods ...string) RouteRule {
	return RouteRule{Pattern: pattern, Methods: methods}
}

// DefaultRoutePolicy is the public surface of the user service: token
// acquisition, credential recovery, account verification, self-registration
// and documentation/health endpoints.
func DefaultRoutePolicy() *RoutePolicy {
	return NewRoutePolicy(
		Public("/api/v1/auth/**"),
		Public("/api/v1/users/*/password"),
		Public("/api/v1/users/*/account_status"),
		PublicFor("/api/v1/users", http.MethodPost),
		Public("/v3/api-docs/**"),
		Public("/swagger-ui/**"),
		Public("/swagger-ui.html"),
		Public("/actuator/health"),
		Public("/openapi.json"),
		Public("/health/**"),
	)
}

// Rules returns a copy of the policy's rules.
func (p *RoutePolicy) Rules() []RouteRule {
	return slices.Clone(p.rules)
}

// RouteGate decides whether a request may skip authentication.
type RouteGate struct {
	policy      *RoutePolicy
	contextPath string
}

// NewRouteGate creates a gate. contextPath is the deployment prefix (for
// example "/users-api") stripped from request paths before matching.
func NewRouteGate(policy *RoutePolicy, contextPath string) *RouteGate {
	return &RouteGate{
		policy:      policy,
		contextPath: strings.TrimRight(contextPath, "/"),
	}
}

// IsPublic reports whether method+path may proceed without a token.
// Preflight OPTIONS requests are always public. The first rule whose pattern
// matches decides; a path nothing matches is protected.
func (g *RouteGate) IsPublic(method, urlPath string) bool {
	if strings.EqualFold(method, http.MethodOptions) {
		return true
	}
	p := g.stripContext(urlPath)
	for _, r := range g.policy.rules {
		if !MatchPath(r.Pattern, p) {
			continue
		}
		return len(r.Methods) == 0 || slices.Contains(r.Methods, strings.ToUpper(method))
	}
	return false
}

func (g *RouteGate) stripContext(urlPath string) string {
	if g.contextPath == "" {
		return urlPath
	}
	if urlPath == g.contextPath {
		return "/"
	}
	if rest, ok := strings.CutPrefix(urlPath, g.contextPath+"/"); ok {
		return "/" + rest
	}
	return urlPath
}

func upper(methods []string) []string {
	out := make([]string, len(methods))
	for i, m := range methods {
		out[i] = strings.ToUpper(m)
	}
	return out
}
