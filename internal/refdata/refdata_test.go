package refdata

import "testing"

func TestOfficerByName(t *testing.T) {
	officer, ok := OfficerByName("Yaw Boateng")
	if !ok {
		t.Fatalf("Yaw Boateng not found")
	}
	if officer.Phone == "" || officer.Color == "" || officer.Initials == "" {
		t.Fatalf("officer record incomplete: %+v", officer)
	}
	if _, ok := OfficerByName("Nobody"); ok {
		t.Fatalf("unknown officer resolved")
	}
}

func TestEveryRegimeHasAColor(t *testing.T) {
	for _, regime := range Regimes {
		if !KnownRegime(regime) {
			t.Fatalf("regime %s not known to itself", regime)
		}
		if RegimeColors[regime] == "" {
			t.Fatalf("regime %s has no color", regime)
		}
	}
	if KnownRegime("Smuggling") {
		t.Fatalf("unknown regime accepted")
	}
}

func TestOfficerNamesMatchOfficers(t *testing.T) {
	names := OfficerNames()
	if len(names) != len(Officers) {
		t.Fatalf("names = %d, officers = %d", len(names), len(Officers))
	}
	for i, o := range Officers {
		if names[i] != o.Name {
			t.Fatalf("name %d = %q, want %q", i, names[i], o.Name)
		}
	}
}
