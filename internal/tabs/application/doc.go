// Package application is the service layer between the sidebar and the tabs store.
//
// Service wraps a domain.Store and adds:
//   - a read-through cache of the pinned and group lists of each space
//   - one pubsub event per store command, so every open view can refresh
//   - the sidebar actions that are built from several store calls: putting a
//     pinned tab to sleep, renaming and resetting it, and clearing a space
//
// Service itself satisfies domain.Store, so the reorder engine can run on top of
// it and every command it issues invalidates the cache and emits an event.
package application
