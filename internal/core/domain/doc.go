// Package domain defines the core business entities for pocketserve.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ServiceSession: One run of the local upload server
//   - SuspensionWarning: A pending notification warning of suspension
//   - LifecycleEvent: Screen and foreground/background signals
//   - StatusReport: Human-readable service status
//   - FileEvent: Informational upload/download/move/create/delete record
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
