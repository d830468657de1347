// Package timeouts defines shared timeout constants used across the
// client. Centralizing these values prevents drift between call sites and
// makes the durations discoverable.
package timeouts

import "time"

// HTTPRequest caps a single relying party API call end to end, including
// connection setup and body read.
const HTTPRequest = 30 * time.Second

// OTELShutdown limits how long a command waits for pending spans to flush
// on exit.
const OTELShutdown = 5 * time.Second
