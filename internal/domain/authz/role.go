package authz

import "strings"

// Role es un paquete de capacidades que un usuario puede tener. Un usuario puede
// tener varios roles simultáneamente.
type Role string

// Roles válidos (enumeración cerrada).
const (
	RoleOwner        Role = "owner" // dueño de la clínica
	RoleAdmin        Role = "admin"
	RoleVet          Role = "vet"
	RoleAssistant    Role = "assistant"
	RoleStockManager Role = "stock_manager"
)

// DefaultRole se sustituye cuando el conjunto de roles llega vacío, para que la
// evaluación nunca opere sobre una identidad indefinida.
const DefaultRole = RoleAssistant

// Valid indica si el rol pertenece a la enumeración.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleVet, RoleAssistant, RoleStockManager:
		return true
	}
	return false
}

// ParseRoles convierte un string separado por comas ("vet,assistant") en la lista
// de roles del dominio. Se usa UNA sola vez en el borde (claim JWT); strings crudos
// con delimitadores nunca entran al núcleo de autorización. Duplicados y nombres
// desconocidos se descartan.
func ParseRoles(s string) []Role {
	seen := make(map[Role]struct{})
	var roles []Role
	for _, part := range strings.Split(s, ",") {
		r := Role(strings.TrimSpace(part))
		if !r.Valid() {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		roles = append(roles, r)
	}
	return roles
}

// JoinRoles serializa la lista de roles al formato del claim JWT.
func JoinRoles(roles []Role) string {
	parts := make([]string, 0, len(roles))
	for _, r := range roles {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, ",")
}
