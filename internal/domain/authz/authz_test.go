package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vetorya/clinica-api/internal/domain/authz"
)

// Caso 1: cada rol individual conserva sus permisos básicos.
func TestAuthorize_RolesIndividuales(t *testing.T) {
	cases := []struct {
		name     string
		roles    []authz.Role
		resource string
		action   string
		want     bool
	}{
		{"owner puede borrar facturas", []authz.Role{authz.RoleOwner}, authz.ResourceInvoices, authz.ActionDelete, true},
		{"admin puede crear productos", []authz.Role{authz.RoleAdmin}, authz.ResourceProducts, authz.ActionCreate, true},
		{"vet puede crear facturas", []authz.Role{authz.RoleVet}, authz.ResourceInvoices, authz.ActionCreate, true},
		{"vet no puede borrar colaboradores", []authz.Role{authz.RoleVet}, authz.ResourceCollaborators, authz.ActionDelete, false},
		{"vet no puede mover stock", []authz.Role{authz.RoleVet}, authz.ResourceStock, authz.ActionCreate, false},
		{"assistant solo lee facturas", []authz.Role{authz.RoleAssistant}, authz.ResourceInvoices, authz.ActionCreate, false},
		{"assistant lee facturas", []authz.Role{authz.RoleAssistant}, authz.ResourceInvoices, authz.ActionRead, true},
		{"stock_manager mueve stock", []authz.Role{authz.RoleStockManager}, authz.ResourceStock, authz.ActionCreate, true},
		{"stock_manager no crea facturas", []authz.Role{authz.RoleStockManager}, authz.ResourceInvoices, authz.ActionCreate, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, authz.Authorize(tc.roles, tc.resource, tc.action))
		})
	}
}

// Caso 2: multi-rol es unión de permisos, nunca intersección. Un assistant que
// además es stock_manager puede mover stock aunque assistant solo no pueda.
func TestAuthorize_UnionDePermisos(t *testing.T) {
	roles := []authz.Role{authz.RoleAssistant, authz.RoleStockManager}

	assert.True(t, authz.Authorize(roles, authz.ResourceStock, authz.ActionCreate),
		"stock_manager aporta el permiso de mover stock")
	assert.True(t, authz.Authorize(roles, authz.ResourceInvoices, authz.ActionRead),
		"ambos roles leen facturas")
	assert.False(t, authz.Authorize(roles, authz.ResourceInvoices, authz.ActionCreate),
		"ninguno de los dos roles crea facturas")

	// {vet, assistant}: vet aporta la creación de facturas.
	assert.True(t, authz.Authorize([]authz.Role{authz.RoleVet, authz.RoleAssistant}, authz.ResourceInvoices, authz.ActionCreate))
}

// Caso 3: conjunto vacío de roles cae al rol por defecto (assistant).
func TestAuthorize_SinRolesAplicaDefault(t *testing.T) {
	assert.True(t, authz.Authorize(nil, authz.ResourceInvoices, authz.ActionRead),
		"sin roles se aplica assistant, que lee facturas")
	assert.False(t, authz.Authorize(nil, authz.ResourceInvoices, authz.ActionCreate),
		"sin roles se aplica assistant, que no crea facturas")
	assert.False(t, authz.Authorize([]authz.Role{}, authz.ResourceStock, authz.ActionCreate))
}

// Caso 4: recurso o acción fuera del vocabulario se deniega siempre, incluso para owner.
func TestAuthorize_DesconocidoSeDeniega(t *testing.T) {
	assert.False(t, authz.Authorize([]authz.Role{authz.RoleOwner}, "reportes", authz.ActionRead))
	assert.False(t, authz.Authorize([]authz.Role{authz.RoleOwner}, authz.ResourceInvoices, "approve"))
	assert.False(t, authz.Authorize([]authz.Role{authz.Role("superuser")}, authz.ResourceInvoices, authz.ActionRead),
		"un rol desconocido no aporta ningún permiso y además deja al conjunto sin default")
}

// ParseRoles: deduplica, descarta desconocidos y preserva orden.
func TestParseRoles(t *testing.T) {
	assert.Equal(t, []authz.Role{authz.RoleVet, authz.RoleStockManager},
		authz.ParseRoles("vet,stock_manager"))
	assert.Equal(t, []authz.Role{authz.RoleVet},
		authz.ParseRoles(" vet , vet , superuser "))
	assert.Empty(t, authz.ParseRoles(""))

	assert.Equal(t, "vet,stock_manager",
		authz.JoinRoles([]authz.Role{authz.RoleVet, authz.RoleStockManager}))
}
