package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

var (
	defaultCORSMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	defaultCORSHeaders = []string{"Accept", "Content-Type", CorrelationHeader, ProfileHeader, SessionHeader}
)

const defaultCORSMaxAge = 3600

// CORSConfig holds configuration for the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists origins allowed to call the storefront API. "*"
	// allows any origin; "https://*.example.com" allows any subdomain over
	// that scheme.
	AllowedOrigins []string

	// AllowedMethods defaults to GET, POST, DELETE, OPTIONS.
	AllowedMethods []string

	// AllowedHeaders defaults to the storefront request headers.
	AllowedHeaders []string

	ExposedHeaders []string

	// MaxAge in seconds for cached preflight results. Defaults to 3600.
	MaxAge int

	AllowCredentials bool

	// Environment "development" allows any origin.
	Environment string
}

// DefaultCORSConfig returns the development configuration: any origin, the
// storefront headers, and the correlation id exposed to scripts.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: defaultCORSMethods,
		AllowedHeaders: defaultCORSHeaders,
		ExposedHeaders: []string{CorrelationHeader},
		MaxAge:         defaultCORSMaxAge,
		Environment:    "development",
	}
}

// subdomainPattern matches "https://*.example.com" style origins.
type subdomainPattern struct {
	prefix string // "https://"
	suffix string // ".example.com"
}

func (sp subdomainPattern) match(origin string) bool {
	return len(origin) > len(sp.prefix)+len(sp.suffix) &&
		strings.HasPrefix(origin, sp.prefix) && strings.HasSuffix(origin, sp.suffix)
}

// corsPolicy is a CORSConfig compiled into header values and origin matchers.
type corsPolicy struct {
	anyOrigin   bool
	exact       map[string]struct{}
	subdomains  []subdomainPattern
	methods     string
	headers     string
	exposed     string
	maxAge      string
	credentials bool
}

func compileCORS(cfg CORSConfig) *corsPolicy {
	p := &corsPolicy{
		anyOrigin:   cfg.Environment == "development",
		exact:       make(map[string]struct{}, len(cfg.AllowedOrigins)),
		methods:     strings.Join(orDefault(cfg.AllowedMethods, defaultCORSMethods), ", "),
		headers:     strings.Join(orDefault(cfg.AllowedHeaders, defaultCORSHeaders), ", "),
		exposed:     strings.Join(cfg.ExposedHeaders, ", "),
		maxAge:      strconv.Itoa(defaultCORSMaxAge),
		credentials: cfg.AllowCredentials,
	}
	if cfg.MaxAge > 0 {
		p.maxAge = strconv.Itoa(cfg.MaxAge)
	}

	for _, o := range cfg.AllowedOrigins {
		o = strings.TrimSpace(o)
		switch {
		case o == "*":
			p.anyOrigin = true
		case strings.Contains(o, "://*."):
			scheme, suffix, _ := strings.Cut(o, "://*")
			p.subdomains = append(p.subdomains, subdomainPattern{prefix: scheme + "://", suffix: suffix})
		case o != "":
			p.exact[o] = struct{}{}
		}
	}
	return p
}

func orDefault(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return v
}

func (p *corsPolicy) allows(origin string) bool {
	if _, ok := p.exact[origin]; ok {
		return true
	}
	for _, sp := range p.subdomains {
		if sp.match(origin) {
			return true
		}
	}
	return false
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin, or
// "" when it must be omitted. Credentialed responses never use "*".
func (p *corsPolicy) allowOrigin(origin string) (value string, vary bool) {
	if p.anyOrigin {
		if p.credentials && origin != "" {
			return origin, true
		}
		return "*", false
	}
	if origin != "" && p.allows(origin) {
		return origin, true
	}
	return "", false
}

// CORS returns middleware that handles Cross-Origin Resource Sharing headers
// based on the provided configuration. OPTIONS requests end with 204.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	p := compileCORS(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()

			if value, vary := p.allowOrigin(r.Header.Get("Origin")); value != "" {
				h.Set("Access-Control-Allow-Origin", value)
				if vary {
					h.Add("Vary", "Origin")
				}
			}
			h.Set("Access-Control-Allow-Methods", p.methods)
			h.Set("Access-Control-Allow-Headers", p.headers)
			h.Set("Access-Control-Max-Age", p.maxAge)
			if p.exposed != "" {
				h.Set("Access-Control-Expose-Headers", p.exposed)
			}
			if p.credentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
