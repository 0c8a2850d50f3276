// Package server holds the HTTP server configuration.
//
// The Config struct defines the listen port, the API key guarding every
// route, and how long the remote tree snapshot is cached between requests.
package server
