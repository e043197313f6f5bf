// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jst provides Japan Standard Time helpers. The pipeline runs in
// UTC environments (CI schedulers) but all published dates, freshness
// windows and file timestamps use JST.
package jst

import "time"

// Location is the fixed JST zone (UTC+9, no DST).
var Location = time.FixedZone("JST", 9*60*60)

// nowFunc is swapped by tests for deterministic output.
var nowFunc = time.Now

// Now returns the current time in JST.
func Now() time.Time {
	return nowFunc().In(Location)
}

// Date formats t as "2006-01-02". A zero t means now.
func Date(t time.Time) string {
	if t.IsZero() {
		t = Now()
	}
	return t.In(Location).Format("2006-01-02")
}

// DateTime formats t for Jekyll front matter: "2006-01-02 15:04:05 +0900".
func DateTime(t time.Time) string {
	if t.IsZero() {
		t = Now()
	}
	return t.In(Location).Format("2006-01-02 15:04:05 +0900")
}

// Timestamp formats t as a filename-safe stamp: "20060102_150405".
// A zero t means now.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		t = Now()
	}
	return t.In(Location).Format("20060102_150405")
}

// Window returns the [from, to] freshness window ending now and spanning
// maxAgeDays days.
func Window(maxAgeDays int) (from, to time.Time) {
	to = Now()
	from = to.AddDate(0, 0, -maxAgeDays)
	return from, to
}
