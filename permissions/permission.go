package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"hostel/shared/constant"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

var knownRoles = []string{constant.RoleSuperAdmin, constant.RoleAdmin, constant.RoleStaff}

// Permission describes one chi route pattern. Skip marks it public.
// An empty Permissions list admits every authenticated role.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

func routeKey(path, method string) string {
	return strings.ToUpper(method) + " " + path
}

// FindPermissions returns the entry for a route pattern, or the zero Permission when none is declared.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	if r.index != nil {
		return r.index[routeKey(path, method)]
	}

	idx := slices.IndexFunc(r.Endpoints, func(rp Permission) bool {
		return rp.Path == path && strings.EqualFold(rp.Method, method)
	})

	if idx == -1 {
		return Permission{}
	}

	return r.Endpoints[idx]
}

// Load decodes and validates a permissions document.
func Load(raw []byte) (*PermissionData, error) {
	var data PermissionData

	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	data.index = make(map[string]Permission, len(data.Endpoints))

	for _, endpoint := range data.Endpoints {
		if endpoint.Path == constant.Empty || endpoint.Method == constant.Empty {
			return nil, fmt.Errorf("permission entry %q %q is incomplete", endpoint.Method, endpoint.Path)
		}

		for _, role := range endpoint.Permissions {
			if !slices.Contains(knownRoles, role) {
				return nil, fmt.Errorf("permission entry %s %s names unknown role %q", endpoint.Method, endpoint.Path, role)
			}
		}

		key := routeKey(endpoint.Path, endpoint.Method)
		if _, exists := data.index[key]; exists {
			return nil, fmt.Errorf("permission entry %s is declared twice", key)
		}

		data.index[key] = endpoint
	}

	return &data, nil
}

func Get() *PermissionData {
	data, err := Load(permissionsData)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load embedded permissions")
	}

	log.Info().Int("endpoints", len(data.Endpoints)).Msg("Successfully loaded embedded permissions")

	return data
}
