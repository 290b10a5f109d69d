package storage

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// timestampLayout yields lexicographically sortable names at second
// granularity, e.g. 20260827_153012.
const timestampLayout = "20060102_150405"

// tokenLength is the number of hex characters appended after the timestamp.
// 8 hex chars carry 32 bits of entropy, enough that two requests landing in
// the same second collide with negligible probability.
const tokenLength = 8

// newToken returns a fresh random hex token. It is a variable so tests can
// force collisions deterministically.
var newToken = func() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:tokenLength]
}

// filenameAt builds an artifact name of the form
// {YYYYMMDD_HHMMSS}_{8 hex}.json for the given wall-clock time.
func filenameAt(t time.Time) string {
	return t.Format(timestampLayout) + "_" + newToken() + ".json"
}
