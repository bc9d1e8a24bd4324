package layers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "geojson", want: KindGeoJSON},
		{in: " WMS ", want: KindWMS},
		{in: "3dtiles", want: Kind3DTiles},
		{in: "shapefile", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLayer)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := New("Rivers", KindGeoJSON, "https://example.org/rivers.json", now)

	require.NoError(t, l.Validate())
	assert.True(t, l.Visible)
	assert.Equal(t, 1.0, l.Opacity)
	assert.Equal(t, now, l.AddedAt)
	assert.False(t, l.KeepOnTop)

	other := New("Roads", KindWMS, "", now)
	assert.NotEqual(t, l.ID, other.ID)
}

func TestValidate(t *testing.T) {
	base := func() *Layer {
		return New("Parcels", KindCSV, "parcels.csv", time.Time{})
	}

	l := base()
	l.ID = "not-a-uuid"
	assert.ErrorIs(t, l.Validate(), ErrInvalidLayer)

	l = base()
	l.Name = "  "
	assert.ErrorIs(t, l.Validate(), ErrInvalidLayer)

	l = base()
	l.Kind = "raster"
	assert.ErrorIs(t, l.Validate(), ErrInvalidLayer)

	l = base()
	l.Opacity = 1.5
	assert.ErrorIs(t, l.Validate(), ErrInvalidLayer)
}

func TestShortIDAndMatch(t *testing.T) {
	l := &Layer{ID: "0c6f2a8e-1b1d-4c55-9a7e-3f1f0b6c2d11"}

	assert.Equal(t, "0c6f2a8e", l.ShortID())
	assert.True(t, l.MatchID("0c6f"))
	assert.True(t, l.MatchID("0C6F2A8E"))
	assert.True(t, l.MatchID(l.ID))
	assert.False(t, l.MatchID(""))
	assert.False(t, l.MatchID("ffff"))
}
