// Package seed bootstraps a demo-ready dataset on first run: default users,
// the SLA configuration document, a device fleet whose derived fields satisfy
// the lifecycle invariants at the reference date, and a handful of
// notifications. It runs once, guarded by the users table being populated.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/retrievaltrack/retrievaltrack/internal/models"
	"github.com/retrievaltrack/retrievaltrack/internal/refdata"
	"github.com/retrievaltrack/retrievaltrack/internal/security"
	"github.com/retrievaltrack/retrievaltrack/internal/sla"
	"github.com/retrievaltrack/retrievaltrack/internal/store"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// retrievedCount is how many leading descriptors are seeded already
// retrieved.
const retrievedCount = 4

// Descriptor describes one synthetic device scenario. Building the device
// from a descriptor is separate from generating descriptors so the
// invariant-preserving construction can be tested without randomness.
type Descriptor struct {
	ID             string
	Regime         string
	Agency         string
	Dest           string
	DaysIssued     int // Negative: days before the reference date.
	ReturnDays     int // Agreed return window.
	FieldConfirmed bool
}

// FixedDescriptors returns the hand-picked device scenarios.
func FixedDescriptors() []Descriptor {
	return []Descriptor{
		{ID: "8294402634", Regime: "Warehouse", Agency: "COMPASS POWER AFRICA LTD", Dest: "Elubo", DaysIssued: -3, ReturnDays: 14, FieldConfirmed: true},
		{ID: "8294402610", Regime: "Warehouse", Agency: "KOMENDA SUGAR FACTORY", Dest: "Daily food Limited", DaysIssued: -5, ReturnDays: 14, FieldConfirmed: true},
		{ID: "8294402587", Regime: "Warehouse", Agency: "RONOR MOTORS", Dest: "Sunda Ghana Ltd", DaysIssued: -3, ReturnDays: 14, FieldConfirmed: true},
		{ID: "8294402577", Regime: "Warehouse", Agency: "WEB HELP GHANA", Dest: "Spaceplast Gh Ltd", DaysIssued: -3, ReturnDays: 8, FieldConfirmed: true},
		{ID: "8150640211", Regime: "Freezones", Agency: "CAVE AND GARDEN", Dest: "Newrest", DaysIssued: -3, ReturnDays: 7, FieldConfirmed: true},
		{ID: "81506402562", Regime: "Warehouse", Agency: "COMPASS POWER AFRICA LTD", Dest: "Elubo", DaysIssued: -16, ReturnDays: 5, FieldConfirmed: true},
		{ID: "8150640374", Regime: "Petroleum", Agency: "DAILY FOOD", Dest: "Paga", DaysIssued: -25, ReturnDays: 5, FieldConfirmed: true},
		{ID: "8150640436", Regime: "Transit", Agency: "MIRO TIMBER", Dest: "Keda", DaysIssued: -6, ReturnDays: 5, FieldConfirmed: false},
		{ID: "8294402562", Regime: "Warehouse", Agency: "WESTERN BEVERAGES LTD", Dest: "Tema", DaysIssued: -2, ReturnDays: 12, FieldConfirmed: true},
		{ID: "8294402557", Regime: "Freezones", Agency: "GLOBAL POLY GHANA", Dest: "Takoradi", DaysIssued: -4, ReturnDays: 10, FieldConfirmed: false},
	}
}

// extraIDs supplements the fixed scenarios with randomly parameterized ones.
var extraIDs = []string{
	"8294402553", "8294402545", "8294402511", "8294402446", "8294402404",
	"8294402378", "8294402349", "8294402340", "8294402303", "8294402274",
	"8294402256", "8294402229", "8294402204", "8294402182", "8294402149",
	"8294402123", "8294402093", "8294402016", "8150640478", "8025134271",
	"8025134378", "8025134394", "8025134410", "8025134474", "8025134495",
	"8025134625", "8150640057", "8150640085", "8150640177", "8150640232",
	"8150640258", "8150640306", "8150640351", "8150640415", "8150640417",
	"8150640423", "8150640436b", "8150640466",
}

// Generator produces the bootstrap dataset.
type Generator struct {
	db        *gorm.DB
	kv        *store.KV
	rng       *rand.Rand
	reference time.Time
}

// New constructs a Generator. The rand source is injectable so the randomized
// portion of the dataset is reproducible under a fixed seed.
func New(db *gorm.DB, kv *store.KV, rng *rand.Rand, reference time.Time) *Generator {
	return &Generator{db: db, kv: kv, rng: rng, reference: reference}
}

// pick returns a random element of a non-empty slice.
func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

// intn returns a uniform integer in [lo, hi].
func (g *Generator) intn(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

// Descriptors returns the full seed plan: the fixed scenarios followed by the
// randomly parameterized extras.
func (g *Generator) Descriptors() []Descriptor {
	all := FixedDescriptors()
	for _, id := range extraIDs {
		all = append(all, Descriptor{
			ID:             id,
			Regime:         g.pick(refdata.Regimes),
			Agency:         g.pick(refdata.Agencies),
			Dest:           g.pick(refdata.Destinations),
			DaysIssued:     -g.intn(1, 20),
			ReturnDays:     g.intn(7, 21),
			FieldConfirmed: g.rng.Float64() > 0.2,
		})
	}
	return all
}

// BuildDevice constructs a device from a descriptor with its derived fields
// consistent with the SLA rules at the reference date. Pure; all randomness
// (officer names) is supplied by the caller.
func BuildDevice(reference time.Time, desc Descriptor, retrieved bool, fcOfficer, retOfficer string, cfg sla.Config) models.Device {
	issued := reference.AddDate(0, 0, desc.DaysIssued)
	expectedReturn := issued.AddDate(0, 0, desc.ReturnDays)
	overdue := sla.DaysOverdue(reference, expectedReturn)
	delayed := overdue >= cfg.Threshold(desc.Regime)

	d := models.Device{
		ID:             desc.ID,
		Regime:         desc.Regime,
		Agency:         desc.Agency,
		Dest:           desc.Dest,
		Issued:         issued,
		ExpectedReturn: expectedReturn,
		FieldConfirmed: desc.FieldConfirmed,
		DaysOverdue:    overdue,
		CreatedAt:      issued,
	}
	d.AppendTrail(models.TrailEntry{
		Event:  "Device Issued",
		Detail: fmt.Sprintf("Assigned to %s – %s (%s)", desc.Agency, desc.Dest, desc.Regime),
		Time:   issued.Format("January 2, 2006"),
		Color:  "#1e3a5f",
	})
	if desc.FieldConfirmed {
		d.FieldConfirmedBy = &fcOfficer
		d.AppendTrail(models.TrailEntry{
			Event:  "Field Confirmed",
			Detail: "Confirmed by " + fcOfficer,
			Time:   issued.AddDate(0, 0, 1).Format("January 2, 2006"),
			Color:  "#007a67",
		})
	} else {
		d.AppendTrail(models.TrailEntry{
			Event:  "Pending Confirmation",
			Detail: "Awaiting field officer",
			Time:   issued.AddDate(0, 0, 1).Format("January 2, 2006"),
			Color:  "#d97706",
		})
	}

	if retrieved {
		now := reference
		d.Status = models.StatusRetrieved
		d.IsDelayed = false
		d.RetrievalOfficer = &retOfficer
		d.RetrievalTime = &now
		d.AppendTrail(models.TrailEntry{
			Event:  "Retrieved",
			Detail: "Collected by " + retOfficer,
			Time:   reference.Format("January 2, 2006"),
			Color:  "#00c5a3",
		})
		return d
	}

	d.IsDelayed = delayed
	if delayed {
		d.Status = models.StatusDelayed
	} else {
		d.Status = models.StatusAwaiting
	}
	return d
}

// defaultUser describes one bootstrap account.
type defaultUser struct {
	username string
	password string
	name     string
	role     string
	phone    string
	color    string
}

// defaultUsers are the accounts created on first run.
var defaultUsers = []defaultUser{
	{"admin", "admin123", "Admin User", models.RoleAdministrator, "admin@retrievaltrack.com", "#1e3a5f"},
	{"ama.owusu", "sup123", "Ama Owusu", models.RoleSupervisor, "233201234567", "#dc2626"},
	{"yaw.boateng", "ret123", "Yaw Boateng", models.RoleRetrievalOfficer, "233597563674", "#1a2b5c"},
	{"kojo.rexford", "ret123", "Kojo Rexford", models.RoleRetrievalOfficer, "233206748677", "#007a67"},
	{"elias.brown", "field123", "Elias Brown", models.RoleFieldOfficer, "233244675874", "#b45309"},
	{"kofi.brew", "ret123", "Kofi Brew", models.RoleRetrievalOfficer, "233509765467", "#6d28d9"},
}

// Run generates the bootstrap dataset unless users already exist. Returns
// true when seeding happened.
func (g *Generator) Run(ctx context.Context) (bool, error) {
	var userCount int64
	if errCount := g.db.WithContext(ctx).Model(&models.User{}).Count(&userCount).Error; errCount != nil {
		return false, errCount
	}
	if userCount > 0 {
		return false, nil
	}

	if errUsers := g.seedUsers(ctx); errUsers != nil {
		return false, errUsers
	}
	if errSLA := g.kv.Set(ctx, store.SLAKey, sla.DefaultConfig()); errSLA != nil {
		return false, errSLA
	}
	if errDevices := g.seedDevices(ctx); errDevices != nil {
		return false, errDevices
	}
	if errNotifs := g.seedNotifications(ctx); errNotifs != nil {
		return false, errNotifs
	}
	if errMark := g.kv.Set(ctx, store.SeededKey, time.Now().UTC().Format(time.RFC3339)); errMark != nil {
		return false, errMark
	}
	log.Infof("seeded bootstrap dataset (reference date %s)", g.reference.Format("2006-01-02"))
	return true, nil
}

// seedUsers creates the default accounts with hashed passwords.
func (g *Generator) seedUsers(ctx context.Context) error {
	for _, u := range defaultUsers {
		hash, errHash := security.HashPassword(u.password)
		if errHash != nil {
			return errHash
		}
		user := models.User{
			Username: u.username,
			Password: hash,
			Name:     u.name,
			Role:     u.role,
			Phone:    u.phone,
			Color:    u.color,
			Active:   true,
		}
		if errCreate := g.db.WithContext(ctx).Create(&user).Error; errCreate != nil {
			return errCreate
		}
	}
	return nil
}

// seedDevices builds the fleet from the seed plan. The first retrievedCount
// descriptors are forced Retrieved; the rest follow the SLA evaluation.
func (g *Generator) seedDevices(ctx context.Context) error {
	cfg := sla.DefaultConfig()
	officers := refdata.OfficerNames()

	for idx, desc := range g.Descriptors() {
		fcOfficer := ""
		if desc.FieldConfirmed {
			fcOfficer = g.pick(officers)
		}
		retrieved := idx < retrievedCount
		retOfficer := ""
		if retrieved {
			retOfficer = g.pick(officers)
		}
		d := BuildDevice(g.reference, desc, retrieved, fcOfficer, retOfficer, cfg)
		if errCreate := g.db.WithContext(ctx).Create(&d).Error; errCreate != nil {
			return errCreate
		}
	}
	return nil
}

// seedNotifications writes the bootstrap feed directly; the journal cap is
// irrelevant at five entries, and seed entries carry explicit timestamps.
func (g *Generator) seedNotifications(ctx context.Context) error {
	notifs := []models.Notification{
		{Type: models.NotifyUpcoming, Title: "Upcoming – COMPASS POWER AFRICA LTD", Desc: "3 devices at Elubo (Warehouse) are due March 3rd. Assign officer promptly.", Tag: "upcoming", Extra: "Expected: March 3rd, 2026 · Warehouse · 3 devices"},
		{Type: models.NotifyDelayed, Title: "Device Overdue – CAVE AND GARDEN", Desc: "Device 8150640211 at Newrest (Freezones) is 8 days overdue.", Tag: "delayed", Extra: "Device ID: 8150640211 · Overdue: 8 days"},
		{Type: models.NotifyDelayed, Title: "Device Overdue – MIRO TIMBER", Desc: "Device 8150640436 at Keda (Transit) is 9 days overdue. Field confirmation pending.", Tag: "delayed", Extra: "Device ID: 8150640436 · Overdue: 9 days"},
		{Type: models.NotifyAssign, Title: "Assignment – Yaw Boateng", Desc: "Yaw Boateng assigned to RONOR MOTORS at Sunda Ghana Ltd.", Tag: "assignment", Officer: "Yaw Boateng", Extra: "Regime: Warehouse · Expected: March 3rd"},
		{Type: models.NotifyRetrieved, Title: "Retrieved – Kojo Rexford", Desc: "Kojo Rexford retrieved 2 devices from WESTERN BEVERAGES LTD.", Tag: "retrieved", Officer: "Kojo Rexford"},
	}
	// Newest first: later list entries get older timestamps and are created
	// first so ids keep feed order.
	for i := len(notifs) - 1; i >= 0; i-- {
		n := notifs[i]
		n.Unread = i < 2
		n.CreatedAt = g.reference.Add(-time.Duration(i*3) * time.Hour)
		if errCreate := g.db.WithContext(ctx).Create(&n).Error; errCreate != nil {
			return errCreate
		}
	}
	return nil
}
