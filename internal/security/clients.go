package security

// In-memory client registry (replace with DB/config later)
type Client struct {
	ID      string
	Secret  string
	Perms   []string // e.g. {"catalog.write","orders.read"}
	Enabled bool
}

var Clients = map[string]Client{
	"storefront-admin": {
		ID:     "storefront-admin",
		Secret: "storefront-admin-secret",
		Perms: []string{
			"catalog.read", "catalog.write",
			"orders.read", "orders.write",
			"settings.read", "settings.write",
			"customers.read",
			"coupons.write",
		},
		Enabled: true,
	},
	"svc-fulfilment": {
		ID:      "svc-fulfilment",
		Secret:  "fulfilment-secret",
		Perms:   []string{"orders.read", "orders.write"},
		Enabled: true,
	},
	"svc-analytics": {
		ID:      "svc-analytics",
		Secret:  "ana-secret",
		Perms:   []string{"orders.read", "catalog.read", "customers.read"},
		Enabled: true,
	},
}
