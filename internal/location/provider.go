// Package location supplies the city and coordinates prayer times are fetched for.
package location

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/shalat/internal/model"
)

var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrUnavailable      = errors.New("location unavailable")
	ErrTimeout          = errors.New("location request timed out")
)

// DefaultLocateTimeout bounds a single device location request.
const DefaultLocateTimeout = 10 * time.Second

// PreferenceStore persists the single saved preference of each device.
type PreferenceStore interface {
	GetPreference(ctx context.Context, deviceID string) (*model.Preference, error)
	SaveCity(ctx context.Context, deviceID string, city model.City) error
	SavePermission(ctx context.Context, deviceID string, granted bool) error
}

// Locator resolves the position of the device behind ip.
type Locator interface {
	Locate(ctx context.Context, ip string) (model.Coordinate, error)
}

// Change is delivered to listeners after a city is saved.
type Change struct {
	DeviceID string     `json:"device_id"`
	City     model.City `json:"city"`
	At       time.Time  `json:"at"`
}

type Listener func(Change)

type Provider struct {
	store         PreferenceStore
	catalog       *Catalog
	locator       Locator
	locateTimeout time.Duration

	mu        sync.RWMutex
	listeners map[int]Listener
	nextID    int
}

// NewProvider builds a Provider. locator may be nil, in which case device
// location is always unavailable.
func NewProvider(store PreferenceStore, catalog *Catalog, locator Locator) *Provider {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Provider{
		store:         store,
		catalog:       catalog,
		locator:       locator,
		locateTimeout: DefaultLocateTimeout,
		listeners:     make(map[int]Listener),
	}
}

// SetLocateTimeout overrides DefaultLocateTimeout.
func (p *Provider) SetLocateTimeout(d time.Duration) {
	p.locateTimeout = d
}

func (p *Provider) Catalog() *Catalog {
	return p.catalog
}

// Preference returns the stored preference, or an empty one if the device has none.
func (p *Provider) Preference(ctx context.Context, deviceID string) (*model.Preference, error) {
	pref, err := p.store.GetPreference(ctx, deviceID)
	if errors.Is(err, model.ErrNotFound) {
		return &model.Preference{DeviceID: deviceID}, nil
	}
	if err != nil {
		return nil, err
	}
	return pref, nil
}

// CurrentCity returns the saved city of the device, or the catalog default.
// A store failure degrades to the default.
func (p *Provider) CurrentCity(ctx context.Context, deviceID string) model.City {
	pref, err := p.Preference(ctx, deviceID)
	if err != nil {
		log.Warn().Err(err).Str("device_id", deviceID).Msg("falling back to default city")
		return p.catalog.Default()
	}
	if pref.City == nil {
		return p.catalog.Default()
	}
	return *pref.City
}

// SetCity persists city as the device's preference and notifies listeners.
func (p *Provider) SetCity(ctx context.Context, deviceID string, city model.City) error {
	if err := city.Validate(); err != nil {
		return err
	}
	if err := p.store.SaveCity(ctx, deviceID, city); err != nil {
		return fmt.Errorf("failed to save city: %w", err)
	}

	log.Info().Str("device_id", deviceID).Str("city", city.Name).Msg("city changed")
	p.notify(Change{DeviceID: deviceID, City: city, At: time.Now()})
	return nil
}

// MarkPermissionAsked records that the user was asked for location access.
func (p *Provider) MarkPermissionAsked(ctx context.Context, deviceID string, granted bool) error {
	if err := p.store.SavePermission(ctx, deviceID, granted); err != nil {
		return fmt.Errorf("failed to save permission: %w", err)
	}
	return nil
}

// RequestDeviceLocation locates the device behind ip. It fails with
// ErrPermissionDenied when the user refused location access,
// ErrTimeout when the locator does not answer in time, and
// ErrUnavailable for any other failure.
func (p *Provider) RequestDeviceLocation(ctx context.Context, deviceID, ip string) (model.Coordinate, error) {
	pref, err := p.Preference(ctx, deviceID)
	if err != nil {
		log.Warn().Err(err).Str("device_id", deviceID).Msg("could not read permission flag")
	} else if pref.PermissionDenied() {
		return model.Coordinate{}, ErrPermissionDenied
	}

	if p.locator == nil {
		return model.Coordinate{}, fmt.Errorf("%w: no locator configured", ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, p.locateTimeout)
	defer cancel()

	coord, err := p.locator.Locate(ctx, ip)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return model.Coordinate{}, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		if errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable) {
			return model.Coordinate{}, err
		}
		return model.Coordinate{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := coord.Validate(); err != nil {
		return model.Coordinate{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return coord, nil
}

// UseDeviceLocation locates the device and saves it as the "Lokasi Saya" city.
func (p *Provider) UseDeviceLocation(ctx context.Context, deviceID, ip string) (model.City, error) {
	coord, err := p.RequestDeviceLocation(ctx, deviceID, ip)
	if err != nil {
		return model.City{}, err
	}
	city := model.MyLocation(coord)
	if err := p.SetCity(ctx, deviceID, city); err != nil {
		return model.City{}, err
	}
	return city, nil
}

// Subscribe registers l for city changes and returns a func that removes it.
func (p *Provider) Subscribe(l Listener) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = l
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *Provider) notify(change Change) {
	p.mu.RLock()
	listeners := make([]Listener, 0, len(p.listeners))
	for _, l := range p.listeners {
		listeners = append(listeners, l)
	}
	p.mu.RUnlock()

	for _, l := range listeners {
		l(change)
	}
}
