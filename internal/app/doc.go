// Package app wires configuration, logging, observability, services and
// HTTP transport into a runnable application with graceful shutdown.
package app
