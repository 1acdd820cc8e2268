// Package middleware provides HTTP middleware for the inventory API.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig holds CORS configuration options.
type CORSConfig struct {
	// AllowedOrigins lists origins allowed to make cross-origin requests.
	// "*" allows every origin.
	AllowedOrigins []string

	// AllowedMethods lists the allowed HTTP methods. "*" echoes whatever
	// method the preflight asks for.
	AllowedMethods []string

	// AllowedHeaders lists the allowed request headers. "*" echoes whatever
	// headers the preflight asks for.
	AllowedHeaders []string

	// ExposedHeaders specifies which headers the browser can access.
	ExposedHeaders []string

	// MaxAge is the value for Access-Control-Max-Age header (in seconds).
	MaxAge int
}

// PermissiveCORSConfig allows any origin, method and header. The API has no
// credentials to protect, so there is no allow-list.
func PermissiveCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"*"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-ID", "Location"},
		MaxAge:         86400, // 24 hours
	}
}

// CORS returns a middleware that handles Cross-Origin Resource Sharing.
// With a wildcard origin the Access-Control-Allow-Origin header is set on
// every response, whether or not the request carried an Origin header.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	anyOrigin := contains(cfg.AllowedOrigins, "*")
	anyMethod := contains(cfg.AllowedMethods, "*")
	anyHeader := contains(cfg.AllowedHeaders, "*")

	methodsStr := strings.Join(cfg.AllowedMethods, ", ")
	headersStr := strings.Join(cfg.AllowedHeaders, ", ")
	exposedStr := strings.Join(cfg.ExposedHeaders, ", ")
	maxAgeStr := ""
	if cfg.MaxAge > 0 {
		maxAgeStr = strconv.Itoa(cfg.MaxAge)
	}

	originMap := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		originMap[strings.ToLower(origin)] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			switch {
			case anyOrigin:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && originMap[strings.ToLower(origin)]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			default:
				if origin != "" && isPreflight(r) {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if exposedStr != "" {
				w.Header().Set("Access-Control-Expose-Headers", exposedStr)
			}

			if !isPreflight(r) {
				next.ServeHTTP(w, r)
				return
			}

			methods := methodsStr
			if anyMethod {
				if requested := r.Header.Get("Access-Control-Request-Method"); requested != "" {
					methods = requested
				}
			}
			w.Header().Set("Access-Control-Allow-Methods", methods)

			headers := headersStr
			if anyHeader {
				if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
					headers = requested
				}
			}
			w.Header().Set("Access-Control-Allow-Headers", headers)

			if maxAgeStr != "" {
				w.Header().Set("Access-Control-Max-Age", maxAgeStr)
			}

			w.WriteHeader(http.StatusNoContent)
		})
	}
}

// isPreflight reports whether r is a CORS preflight request.
func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
