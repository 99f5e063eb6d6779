/*
Copyright 2025 Tandem Payments Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package auth

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned when a caller holds none of the roles granting a
// required privilege. The HTTP layer maps it to 403.
var ErrForbidden = errors.New("forbidden: caller lacks required privilege")

// SecurityContext identifies the caller of a governance operation. It is
// resolved from a bearer token by the transport layer; this package only
// consumes it.
type SecurityContext struct {
	Username        string   `json:"username"`
	ClientID        string   `json:"client_id"`
	PlatformRoleIDs []string `json:"platform_role_ids"`
}

// Authorization resolves whether a role grants a privilege.
type Authorization interface {
	RoleHasPrivilege(roleID, privilegeName string) bool
}

// CheckPrivilege verifies that at least one of the caller's roles grants the
// named privilege. Roles are OR-ed; any single grant is enough.
func CheckPrivilege(a Authorization, sec *SecurityContext, privilegeName string) error {
	if sec != nil {
		for _, roleID := range sec.PlatformRoleIDs {
			if a.RoleHasPrivilege(roleID, privilegeName) {
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %s", ErrForbidden, privilegeName)
}

// Registry is a static role-to-privileges table, typically loaded from
// configuration. It stands in for the platform authorization service.
type Registry struct {
	roles map[string]map[string]struct{}
}

// NewRegistry builds a Registry from a role -> privilege list mapping.
func NewRegistry(roles map[string][]string) *Registry {
	r := &Registry{roles: make(map[string]map[string]struct{}, len(roles))}
	for roleID, privileges := range roles {
		set := make(map[string]struct{}, len(privileges))
		for _, p := range privileges {
			set[p] = struct{}{}
		}
		r.roles[roleID] = set
	}
	return r
}

// RoleHasPrivilege implements Authorization.
func (r *Registry) RoleHasPrivilege(roleID, privilegeName string) bool {
	set, ok := r.roles[roleID]
	if !ok {
		return false
	}
	_, ok = set[privilegeName]
	return ok
}
