package location

import (
	"context"
	"sync"
	"time"

	"github.com/Nixie-Tech-LLC/shalat/internal/model"
)

// MemoryStore keeps preferences in process memory. Used when no database
// is configured, and by the CLI.
type MemoryStore struct {
	mu    sync.RWMutex
	prefs map[string]model.Preference
}

var _ PreferenceStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{prefs: make(map[string]model.Preference)}
}

func (m *MemoryStore) GetPreference(_ context.Context, deviceID string) (*model.Preference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pref, ok := m.prefs[deviceID]
	if !ok {
		return nil, model.ErrNotFound
	}
	if pref.City != nil {
		c := *pref.City
		pref.City = &c
	}
	return &pref, nil
}

func (m *MemoryStore) SaveCity(_ context.Context, deviceID string, city model.City) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pref := m.prefs[deviceID]
	pref.DeviceID = deviceID
	pref.City = &city
	pref.UpdatedAt = time.Now()
	m.prefs[deviceID] = pref
	return nil
}

func (m *MemoryStore) SavePermission(_ context.Context, deviceID string, granted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pref := m.prefs[deviceID]
	pref.DeviceID = deviceID
	pref.PermissionAsked = true
	pref.PermissionGranted = granted
	pref.UpdatedAt = time.Now()
	m.prefs[deviceID] = pref
	return nil
}
