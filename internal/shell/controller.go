package shell

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
	"github.com/andresuchdata/vaxstock/backend-go/internal/report"
	"github.com/rs/zerolog/log"
)

const unknownLocationLabel = "Lieu Inconnu"

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrForbidden   = errors.New("not allowed for this role")
)

// API is the subset of the dashboard API the console talks to.
type API interface {
	Login(ctx context.Context, username, password string) (*domain.Session, error)
	FetchData(ctx context.Context) (*domain.Snapshot, error)
	SubmitInventory(ctx context.Context, entry domain.InventoryEntry) error
	SaveDemographics(ctx context.Context, demo domain.Demographics) error
}

// Controller owns the console state. It is safe for concurrent use.
type Controller struct {
	api API
	dir report.Directory
	now func() time.Time

	mu    sync.RWMutex
	state AppState
}

func NewController(api API, dir report.Directory) *Controller {
	return &Controller{api: api, dir: dir, now: time.Now}
}

// Login authenticates and loads the first snapshot.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	session, err := c.api.Login(ctx, username, password)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.state = AppState{User: session}
	c.mu.Unlock()

	log.Debug().Str("username", session.Username).Str("role", string(session.Role)).Msg("logged in")
	return c.Refresh(ctx)
}

// Logout drops the session and all loaded data.
func (c *Controller) Logout() {
	c.mu.Lock()
	c.state = AppState{}
	c.mu.Unlock()
}

// Refresh replaces the snapshot. On error the previous state is kept.
func (c *Controller) Refresh(ctx context.Context) error {
	snap, err := c.api.FetchData(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = AppState{
		User:         c.state.User,
		Demographics: snap.Demo.WithTotal(),
		Locations:    snap.Locations,
		Inventory:    snap.Inventory,
	}
	return nil
}

// State returns the current state.
func (c *Controller) State() AppState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Views lists what the logged-in role may open.
func (c *Controller) Views() []View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state.User == nil {
		return nil
	}
	return ViewsFor(c.state.User.Role)
}

// EPSPName is the title shown in the header.
func (c *Controller) EPSPName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state.Demographics.EPSPName == "" {
		return "EPSP Gestion"
	}
	return c.state.Demographics.EPSPName
}

// Report builds the report from the current snapshot.
func (c *Controller) Report() (report.Report, error) {
	state, err := c.require(ViewReport)
	if err != nil {
		return report.Report{}, err
	}
	return report.BuildReport(state.Locations, state.Inventory, c.dir, state.Demographics), nil
}

// UserLocation returns the display name of the staff member's facility.
func (c *Controller) UserLocation() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state.User == nil {
		return unknownLocationLabel
	}
	for _, loc := range c.state.Locations {
		if loc.ID == c.state.User.LocationID {
			return loc.Name
		}
	}
	return unknownLocationLabel
}

// SubmitInventory sends a weekly entry for the user's own facility. An empty
// date means today.
func (c *Controller) SubmitInventory(ctx context.Context, date string, n, o, q, r int64) (domain.InventoryEntry, error) {
	state, err := c.require(ViewEntryForm)
	if err != nil {
		return domain.InventoryEntry{}, err
	}
	if date == "" {
		date = c.now().Format("2006-01-02")
	}

	entry := domain.InventoryEntry{
		LocationID: state.User.LocationID,
		Date:       date,
		N:          domain.Count(n),
		O:          domain.Count(o),
		Q:          domain.Count(q),
		R:          domain.Count(r),
	}
	if err := c.api.SubmitInventory(ctx, entry); err != nil {
		return domain.InventoryEntry{}, fmt.Errorf("error saving inventory: %w", err)
	}
	return entry, nil
}

// SaveDemographics stores the EPSP configuration and reloads the snapshot.
func (c *Controller) SaveDemographics(ctx context.Context, demo domain.Demographics) error {
	if _, err := c.require(ViewConfiguration); err != nil {
		return err
	}
	if err := c.api.SaveDemographics(ctx, demo); err != nil {
		return fmt.Errorf("error saving configuration: %w", err)
	}
	return c.Refresh(ctx)
}

func (c *Controller) require(v View) (AppState, error) {
	state := c.State()
	if state.User == nil {
		return state, ErrNotLoggedIn
	}
	if !allows(state.User.Role, v) {
		return state, fmt.Errorf("%w: %s cannot open %s", ErrForbidden, state.User.Role, v)
	}
	return state, nil
}
