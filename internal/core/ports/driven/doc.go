// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - NetworkService: Starts and stops the local upload server
//   - FileEventObserver: One-way sink for file operation callbacks
//   - LifecycleSource: Delivers background/foreground events via subscriptions
//   - NotificationScheduler: Schedules and cancels timed notifications
//   - StatusSink: Displays the service status
//
// # Optional Interfaces
//
//   - SessionStore: Session history persistence (SQLite or memory)
//   - ConfigStore: Application configuration (TOML file)
package driven
