// Package refdata holds the static lookup tables used across the tracker:
// officers, agencies, destinations and customs regimes. None of this is
// user-editable.
package refdata

// Officer describes a known field/retrieval officer.
type Officer struct {
	Name     string
	Phone    string
	Color    string
	Initials string
	Username string
}

// Officers lists the known officers in a stable order.
var Officers = []Officer{
	{Name: "Yaw Boateng", Phone: "233597563674", Color: "#1a2b5c", Initials: "YB", Username: "yaw.boateng"},
	{Name: "Kojo Rexford", Phone: "233206748677", Color: "#007a67", Initials: "KR", Username: "kojo.rexford"},
	{Name: "Elias Brown", Phone: "233244675874", Color: "#b45309", Initials: "EB", Username: "elias.brown"},
	{Name: "Kofi Brew", Phone: "233509765467", Color: "#6d28d9", Initials: "KB", Username: "kofi.brew"},
}

// OfficerNames returns the officer names in declaration order.
func OfficerNames() []string {
	names := make([]string, 0, len(Officers))
	for _, o := range Officers {
		names = append(names, o.Name)
	}
	return names
}

// OfficerByName finds an officer by display name.
func OfficerByName(name string) (Officer, bool) {
	for _, o := range Officers {
		if o.Name == name {
			return o, true
		}
	}
	return Officer{}, false
}

// Agencies lists the agencies devices are issued to.
var Agencies = []string{
	"COMPASS POWER AFRICA LTD",
	"KOMENDA SUGAR FACTORY",
	"RONOR MOTORS",
	"WEB HELP GHANA",
	"DAILY FOOD",
	"WESTERN BEVERAGES LTD",
	"CAVE AND GARDEN",
	"GLOBAL POLY GHANA",
	"MIRO TIMBER",
	"KING RECYCLING SOLUTIONS LTD",
}

// Destinations lists the known delivery sites.
var Destinations = []string{
	"Elubo",
	"Daily food Limited",
	"Sunda Ghana Ltd",
	"Spaceplast Gh Ltd",
	"Newrest",
	"Paga",
	"Keda",
	"Kumasi",
	"Tema",
	"Takoradi",
}

// Regimes lists the customs regimes.
var Regimes = []string{"Warehouse", "Freezones", "Re-Export", "Transit", "Petroleum"}

// RegimeColors maps regimes to their dashboard colors.
var RegimeColors = map[string]string{
	"Warehouse": "#1e3a5f",
	"Freezones": "#00c5a3",
	"Re-Export": "#d97706",
	"Transit":   "#ea580c",
	"Petroleum": "#dc2626",
}

// KnownRegime reports whether the regime is one of the fixed five.
func KnownRegime(regime string) bool {
	for _, r := range Regimes {
		if r == regime {
			return true
		}
	}
	return false
}
