package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name       string
		lat1, lng1 float64
		lat2, lng2 float64
		want       float64
		tolerance  float64
	}{
		{
			name: "same point",
			lat1: 6.9271, lng1: 79.8612,
			lat2: 6.9271, lng2: 79.8612,
			want: 0, tolerance: 0.001,
		},
		{
			name: "one degree of latitude",
			lat1: 0, lng1: 0,
			lat2: 1, lng2: 0,
			want: 111195, tolerance: 50,
		},
		{
			name: "colombo to kandy",
			lat1: 6.9271, lng1: 79.8612,
			lat2: 7.2906, lng2: 80.6337,
			want: 94300, tolerance: 500,
		},
		{
			name: "short hop",
			lat1: 6.9271, lng1: 79.8612,
			lat2: 6.92755, lng2: 79.8612,
			want: 50, tolerance: 1,
		},
		{
			name: "antipodal",
			lat1: 0, lng1: 0,
			lat2: 0, lng2: 180,
			want: 20015087, tolerance: 10000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			require.InDelta(t, tt.want, got, tt.tolerance)
		})
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	a := Distance(6.9271, 79.8612, 7.2906, 80.6337)
	b := Distance(7.2906, 80.6337, 6.9271, 79.8612)
	require.InDelta(t, a, b, 0.0001)
}
