package reference

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	lucknow := SeedDistricts[0]
	assert.InDelta(t, 0, Distance(26.8467, 80.9462, lucknow), 1e-9)

	// One degree of latitude is 69.1 miles
	assert.InDelta(t, 69.1, Distance(25.8467, 80.9462, lucknow), 1e-9)

	assert.True(t, math.IsInf(Distance(0, 0, District{Code: "x"}), 1))
}

func TestStateCodeForName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{name: "Uttar Pradesh", want: "up", wantOK: true},
		{name: "UTTAR PRADESH", want: "up", wantOK: true},
		{name: "  west   bengal ", want: "wb", wantOK: true},
		{name: "Atlantis"},
		{name: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := StateCodeForName(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// runCatalogContract exercises the behaviour shared by every Catalog.
// newCatalog must return a catalog holding only the seed data.
func runCatalogContract(t *testing.T, newCatalog func(t *testing.T) Catalog) {
	t.Helper()
	ctx := context.Background()

	t.Run("states are ordered by english name", func(t *testing.T) {
		states, err := newCatalog(t).ListStates(ctx)
		require.NoError(t, err)

		var names []string
		for _, s := range states {
			names = append(names, s.NameEn)
		}
		assert.Equal(t, []string{"Bihar", "Madhya Pradesh", "Maharashtra", "Uttar Pradesh", "West Bengal"}, names)
	})

	t.Run("districts of a state", func(t *testing.T) {
		catalog := newCatalog(t)

		districts, err := catalog.ListDistricts(ctx, "up")
		require.NoError(t, err)
		require.Len(t, districts, len(SeedDistricts))
		assert.Equal(t, "Agra", districts[0].NameEn)
		assert.Equal(t, "Varanasi", districts[len(districts)-1].NameEn)

		districts, err = catalog.ListDistricts(ctx, "mh")
		require.NoError(t, err)
		assert.Empty(t, districts)
	})

	t.Run("get district", func(t *testing.T) {
		catalog := newCatalog(t)

		d, err := catalog.GetDistrict(ctx, "up_lucknow")
		require.NoError(t, err)
		assert.Equal(t, "लखनऊ", d.NameHi)
		require.True(t, d.Located())
		assert.InDelta(t, 26.8467, *d.Latitude, 1e-9)

		_, err = catalog.GetDistrict(ctx, "up_nowhere")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("nearest district", func(t *testing.T) {
		catalog := newCatalog(t)

		d, err := catalog.NearestDistrict(ctx, 26.9, 80.9)
		require.NoError(t, err)
		assert.Equal(t, "up_lucknow", d.Code)

		d, err = catalog.NearestDistrict(ctx, 29.0, 77.7)
		require.NoError(t, err)
		assert.Equal(t, "up_meerut", d.Code)
	})

	t.Run("upsert replaces by code", func(t *testing.T) {
		catalog := newCatalog(t)

		renamed := SeedDistricts[0]
		renamed.NameEn = "Lakhnau"
		renamed.Latitude, renamed.Longitude = nil, nil
		require.NoError(t, catalog.Upsert(ctx, nil, []District{renamed}))

		d, err := catalog.GetDistrict(ctx, renamed.Code)
		require.NoError(t, err)
		assert.Equal(t, "Lakhnau", d.NameEn)
		assert.False(t, d.Located())

		d, err = catalog.NearestDistrict(ctx, 26.8467, 80.9462)
		require.NoError(t, err)
		assert.NotEqual(t, renamed.Code, d.Code, "districts without coordinates are never nearest")
	})
}

func TestMemoryCatalog(t *testing.T) {
	t.Parallel()

	runCatalogContract(t, func(*testing.T) Catalog {
		return NewMemoryCatalog(SeedStates, SeedDistricts)
	})
}

func TestNearestWithoutLocatedDistricts(t *testing.T) {
	t.Parallel()

	catalog := NewMemoryCatalog(SeedStates, []District{{Code: "up_x", StateCode: "up"}})
	_, err := catalog.NearestDistrict(context.Background(), 26, 80)
	assert.ErrorIs(t, err, ErrNotFound)
}
