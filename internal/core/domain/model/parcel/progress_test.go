package parcel_test

import (
	"testing"
	"time"

	"parceltrack/internal/core/domain/model/parcel"

	"github.com/stretchr/testify/assert"
)

func TestTargetIndex(t *testing.T) {
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		elapsed  time.Duration
		days     int
		n        int
		expected int
	}{
		{"halfway on 101 points", 24 * time.Hour, 2, 101, 50},
		{"at creation", 0, 2, 101, 0},
		{"clock behind creation", -5 * time.Hour, 2, 101, 0},
		{"exactly on time", 48 * time.Hour, 2, 101, 100},
		{"overdue is clamped", 30 * time.Hour, 1, 100, 99},
		{"floor not round", 47*time.Hour + 59*time.Minute, 2, 101, 99},
		{"one hour into a day", time.Hour, 1, 100, 4},
		{"invalid days", time.Hour, 0, 100, 0},
		{"invalid route", time.Hour, 1, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parcel.TargetIndex(created, created.Add(tt.elapsed), tt.days, tt.n))
		})
	}
}

func TestTargetIndex_IsMonotonicInTime(t *testing.T) {
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	prev := 0
	for minutes := 0; minutes <= 3*24*60; minutes += 17 {
		idx := parcel.TargetIndex(created, created.Add(time.Duration(minutes)*time.Minute), 3, 100)
		assert.GreaterOrEqual(t, idx, prev)
		assert.LessOrEqual(t, idx, 99)
		prev = idx
	}
	assert.Equal(t, 99, parcel.TargetIndex(created, created.Add(72*time.Hour), 3, 100))
}

func TestEstimatedDeliveryAt(t *testing.T) {
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, created.Add(48*time.Hour), parcel.EstimatedDeliveryAt(created, 2))
	assert.Equal(t, created, parcel.EstimatedDeliveryAt(created, 0))
}

func TestPercentAlong(t *testing.T) {
	cases := map[string]struct {
		index, count int
		want         float64
	}{
		"start":           {index: 0, count: 101, want: 0},
		"halfway":         {index: 50, count: 101, want: 50},
		"last waypoint":   {index: 99, count: 100, want: 100},
		"no route":        {index: 0, count: 0, want: 0},
		"single waypoint": {index: 0, count: 1, want: 0},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, tc.want, parcel.PercentAlong(tc.index, tc.count), 1e-9)
		})
	}
}
