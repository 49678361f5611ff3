package authz

// Recursos y acciones del vocabulario cerrado de permisos.
const (
	ResourceInvoices      = "invoices"
	ResourceProducts      = "products"
	ResourceStock         = "stock"
	ResourceServices      = "services"
	ResourceOwners        = "owners"
	ResourceAnimals       = "animals"
	ResourceAppointments  = "appointments"
	ResourceCollaborators = "collaborators"
	ResourceClinic        = "clinic"

	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

type actionSet map[string]struct{}

func actions(as ...string) actionSet {
	set := make(actionSet, len(as))
	for _, a := range as {
		set[a] = struct{}{}
	}
	return set
}

var (
	readOnly = actions(ActionRead)
	noDelete = actions(ActionRead, ActionCreate, ActionUpdate)
	full     = actions(ActionRead, ActionCreate, ActionUpdate, ActionDelete)
)

// matrix es la tabla de permisos: Role -> recurso -> acciones permitidas.
// Se construye una vez al cargar el paquete y no existe ninguna ruta de mutación
// en runtime.
var matrix = map[Role]map[string]actionSet{
	RoleOwner: {
		ResourceInvoices:      full,
		ResourceProducts:      full,
		ResourceStock:         full,
		ResourceServices:      full,
		ResourceOwners:        full,
		ResourceAnimals:       full,
		ResourceAppointments:  full,
		ResourceCollaborators: full,
		ResourceClinic:        full,
	},
	RoleAdmin: {
		ResourceInvoices:      full,
		ResourceProducts:      full,
		ResourceStock:         full,
		ResourceServices:      full,
		ResourceOwners:        full,
		ResourceAnimals:       full,
		ResourceAppointments:  full,
		ResourceCollaborators: noDelete,
		ResourceClinic:        noDelete,
	},
	RoleVet: {
		ResourceInvoices:     noDelete,
		ResourceProducts:     readOnly,
		ResourceStock:        readOnly,
		ResourceServices:     readOnly,
		ResourceOwners:       noDelete,
		ResourceAnimals:      noDelete,
		ResourceAppointments: noDelete,
	},
	RoleAssistant: {
		ResourceInvoices:     readOnly,
		ResourceProducts:     readOnly,
		ResourceServices:     readOnly,
		ResourceOwners:       noDelete,
		ResourceAnimals:      noDelete,
		ResourceAppointments: noDelete,
	},
	RoleStockManager: {
		ResourceInvoices: readOnly,
		ResourceProducts: full,
		ResourceStock:    noDelete,
		ResourceServices: readOnly,
	},
}
