// Package uploader implements driven.NetworkService as a local HTTP file
// server. Clients on the network can browse, download, upload, move,
// create and delete entries under a single upload root.
//
// Every completed file operation is reported to a driven.FileEventObserver.
// The observer is informational; it cannot affect the server.
package uploader
