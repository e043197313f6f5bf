// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jst

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatsCarryJSTOffset(t *testing.T) {
	// UTC noon is 21:00 in Tokyo.
	utcNoon := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-08-29", Date(utcNoon))
	assert.Equal(t, "2026-08-29 21:00:00 +0900", DateTime(utcNoon))
	assert.Equal(t, "20260829_210000", Timestamp(utcNoon))
}

func TestDateCrossesMidnight(t *testing.T) {
	// 16:00 UTC is already the next day in Tokyo.
	lateUTC := time.Date(2026, 8, 29, 16, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-30", Date(lateUTC))
}

func TestWindowSpansMaxAgeDays(t *testing.T) {
	fixed := time.Date(2026, 8, 29, 0, 0, 0, 0, Location)
	nowFunc = func() time.Time { return fixed }
	defer func() { nowFunc = time.Now }()

	from, to := Window(7)
	assert.True(t, to.Equal(fixed))
	assert.Equal(t, "2026-08-22", Date(from))
}

func TestNowUsesLocation(t *testing.T) {
	_, offset := Now().Zone()
	assert.Equal(t, 9*3600, offset)
}
