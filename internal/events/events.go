// Package events names the process-local event bus topics. The bus carries
// the "dependent components re-hydrate on identity change" signal and the
// store change feed.
package events

const (
	// TopicSessionChanged fires with the new *domain.Principal (nil on
	// logout) whenever the current identity changes.
	TopicSessionChanged = "session:changed"

	// TopicStoreChanged fires with the changed store key after every put or
	// delete, the equivalent of a cross-tab storage listener.
	TopicStoreChanged = "store:changed"
)
