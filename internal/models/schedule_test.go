package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockMinutes(t *testing.T) {
	m, err := ClockMinutes("08:00")
	require.NoError(t, err)
	assert.Equal(t, 480, m)

	m, err = ClockMinutes("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, m)

	m, err = ClockMinutes("23:59")
	require.NoError(t, err)
	assert.Equal(t, 23*60+59, m)

	_, err = ClockMinutes("8am")
	require.Error(t, err)

	_, err = ClockMinutes("25:00")
	require.Error(t, err)
}

func TestOverlaps(t *testing.T) {
	// 08:00-10:00 vs 09:00-11:00 intersect.
	assert.True(t, Overlaps(480, 600, 540, 660))
	// Containment intersects.
	assert.True(t, Overlaps(480, 600, 510, 540))
	// Identical intervals intersect.
	assert.True(t, Overlaps(480, 600, 480, 600))
	// Abutting intervals do not: 08:00-10:00 then 10:00-12:00.
	assert.False(t, Overlaps(480, 600, 600, 720))
	assert.False(t, Overlaps(600, 720, 480, 600))
	// Disjoint intervals do not.
	assert.False(t, Overlaps(480, 540, 600, 660))
}
