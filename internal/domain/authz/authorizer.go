package authz

// Authorize evalúa si el conjunto de roles permite la acción sobre el recurso.
// Semántica de unión: basta con que UN rol del conjunto conceda el permiso; no
// existe rol que reste permisos a otro rol presente.
//
// Sin efectos secundarios ni I/O. Recursos o acciones fuera del vocabulario
// evalúan a denegación, nunca a error. Debe invocarse ANTES de abrir cualquier
// transacción: una denegación garantiza cero escrituras.
func Authorize(roles []Role, resource, action string) bool {
	if len(roles) == 0 {
		roles = []Role{DefaultRole}
	}
	for _, r := range roles {
		perms, ok := matrix[r]
		if !ok {
			continue
		}
		if as, ok := perms[resource]; ok {
			if _, ok := as[action]; ok {
				return true
			}
		}
	}
	return false
}
