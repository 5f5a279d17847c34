// Package http contains the chi HTTP handlers. Handlers validate and
// decode requests, delegate to the services layer, and render JSON via
// go-chi/render, with failures mapped to RFC 7807 problem responses by
// the shared ErrorHandler.
package http
