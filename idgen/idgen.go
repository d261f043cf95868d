// Package idgen provides pluggable ID generation.
//
// Anything that mints identifiers (scan records, export files) takes a
// Generator value, so the ID scheme is chosen at wiring time instead of
// being baked into each component.
package idgen

import (
	"time"

	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// UUIDv7 returns a Generator producing RFC 9562 UUID v7 strings, which sort
// by creation time. This is the default scheme for persisted records.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed prepends a fixed type tag to every ID from gen, e.g. "scn_" for
// scan records.
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// Timestamped prefixes each ID from gen with a UTC timestamp in the form
// "20060102T150405Z_", which keeps generated file names sortable by eye.
func Timestamped(gen Generator) Generator {
	return func() string {
		return time.Now().UTC().Format("20060102T150405Z") + "_" + gen()
	}
}
