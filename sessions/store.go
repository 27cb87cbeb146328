// Package sessions provides storage scoped to a single sign-in session.
//
// A session lasts as long as the process that owns it. Nothing written to a
// Store survives the session, and nothing is shared between sessions.
package sessions

// Store is a session-scoped key/value store.
type Store interface {
	// Get returns the value stored under key and whether it was present
	Get(key string) (string, bool)

	// Set stores value under key, replacing any previous value
	Set(key, value string) error

	// Remove deletes key. Removing a missing key is not an error
	Remove(key string)
}
