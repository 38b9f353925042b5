// Package backend is the HTTP client for the inference backend.
//
// A Client sends one chat-completion request per relay and exposes the
// response body as a Stream of raw chunks. Nothing is parsed or buffered
// beyond a single read: the gateway relays whatever bytes the backend
// produces, in the order and grouping they arrive.
//
// The client never retries and applies no overall timeout. Cancelling the
// request context, which net/http does when the caller disconnects, tears
// down the backend connection.
package backend
