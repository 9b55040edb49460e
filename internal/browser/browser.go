// Package browser provides scoped headless-browser sessions for scrape
// adapters. A session is acquired per fetch call and must be released on
// every exit path; it is never held across search calls.
package browser

import "context"

// Browser creates sessions. Implemented by Chrome in production and by test
// doubles counting open/close calls.
type Browser interface {
	NewSession(ctx context.Context) (Session, error)
}

// Session is one scoped browser process instance.
type Session interface {
	// HTML navigates to url, waits until any of the waitFor selectors is
	// present in the DOM, and returns the rendered document.
	HTML(ctx context.Context, url string, waitFor []string) (string, error)

	// Close releases the underlying browser process. Safe to call once on
	// every exit path, including after a failed HTML call.
	Close() error
}
