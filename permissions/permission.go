package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission is one route entry. Skip marks a public route: no token is required, though a
// valid one is still attached. Permissions lists the roles allowed; empty means any principal.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role may call the route.
func (p Permission) Allows(role string) bool {
	return p.Skip || len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`
}

// FindPermissions looks a chi route pattern up, e.g. "/v1/bookings/{id}/approve".
// Routes missing from permissions.json need a principal and nothing else.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	idx := slices.IndexFunc(r.Endpoints, func(rp Permission) bool {
		return rp.Path == path && strings.EqualFold(rp.Method, method)
	})

	if idx == -1 {
		return Permission{Path: path, Method: method}
	}

	return r.Endpoints[idx]
}

func (r *PermissionData) validate() error {
	seen := map[string]bool{}

	for _, endpoint := range r.Endpoints {
		key := strings.ToUpper(endpoint.Method) + " " + endpoint.Path

		switch {
		case !strings.HasPrefix(endpoint.Path, "/v1/"):
			return fmt.Errorf("endpoint %q is outside /v1", key)
		case !slices.Contains(methods, strings.ToUpper(endpoint.Method)):
			return fmt.Errorf("endpoint %q has an unknown method", key)
		case seen[key]:
			return fmt.Errorf("endpoint %q is listed twice", key)
		case endpoint.Skip && len(endpoint.Permissions) > 0:
			return fmt.Errorf("public endpoint %q cannot require roles", key)
		}

		seen[key] = true
	}

	return nil
}

var methods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

// Parse decodes and checks a permissions document.
func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	if err := permissions.validate(); err != nil {
		return nil, err
	}

	return &permissions, nil
}

// Get loads the embedded permissions. A broken file yields nil, which RBAC treats as deny-all.
func Get() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		log.Err(err).Msg("Failed to load embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return permissions
}
