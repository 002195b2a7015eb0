// Package httpapi is the HTTP channel adapter for ConahGPT.
//
// It serves the Slack Events API webhook, a JSON question endpoint and
// health endpoints on a fiber app. Slack mentions are acknowledged at once
// and answered by a background task submitted to a dispatcher. With an
// app-level token, SocketMode receives the same events over a websocket.
package httpapi
