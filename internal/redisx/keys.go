package redisx

import "time"

const (
	// Cart per session: session:{sid}:cart -> JSON array of cart items
	KeySessionCart = "session:%s:cart"

	// Data diri per session: session:{sid}:user -> JSON object
	KeySessionUser = "session:%s:user"

	// Parsed catalog snapshot so tiap page render tidak re-fetch sheet
	KeyCatalogSnapshot = "catalog:snapshot"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	// localStorage is durable on the device; 30 hari is the server-side
	// analog for an abandoned session.
	TTLSessionRecord = 30 * 24 * time.Hour

	TTLCatalogSnapshot = 5 * time.Minute
	TTLDedup           = 48 * time.Hour
)
