package reference

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
)

type memoryCatalog struct {
	mu        sync.RWMutex
	states    map[string]State
	districts map[string]District
}

// NewMemoryCatalog creates a Catalog holding the given data
func NewMemoryCatalog(states []State, districts []District) Catalog {
	c := &memoryCatalog{
		states:    make(map[string]State),
		districts: make(map[string]District),
	}
	_ = c.Upsert(context.Background(), states, districts)
	return c
}

func (c *memoryCatalog) ListStates(_ context.Context) ([]State, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := slices.AppendSeq(make([]State, 0, len(c.states)), maps.Values(c.states))
	slices.SortFunc(out, func(a, b State) int { return cmp.Compare(a.NameEn, b.NameEn) })
	return out, nil
}

func (c *memoryCatalog) ListDistricts(_ context.Context, stateCode string) ([]District, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]District, 0)
	for _, d := range c.districts {
		if d.StateCode == stateCode {
			out = append(out, d)
		}
	}
	slices.SortFunc(out, func(a, b District) int { return cmp.Compare(a.NameEn, b.NameEn) })
	return out, nil
}

func (c *memoryCatalog) GetDistrict(_ context.Context, code string) (District, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.districts[code]
	if !ok {
		return District{}, ErrNotFound
	}
	return d, nil
}

func (c *memoryCatalog) NearestDistrict(_ context.Context, latitude, longitude float64) (District, error) {
	c.mu.RLock()
	districts := slices.SortedFunc(maps.Values(c.districts), func(a, b District) int {
		return cmp.Compare(a.Code, b.Code)
	})
	c.mu.RUnlock()
	return nearest(districts, latitude, longitude)
}

func (c *memoryCatalog) Upsert(_ context.Context, states []State, districts []District) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range states {
		c.states[s.Code] = s
	}
	for _, d := range districts {
		c.districts[d.Code] = d
	}
	return nil
}
