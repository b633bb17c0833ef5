/*
Package server implements msgpack IPC and a small HTTP API for phrase suggestions.

The IPC side reads a stream of msgpack encoded requests from stdin and writes one msgpack
response per request to stdout. Every message carries an ID; when the client leaves it
empty a UUID is assigned and echoed back.

# IPC

Suggestion requests carry pre-split tokens and optional extra stop words:

	{"id": "req_001", "action": "suggest", "tk": ["The", "farmers", "market", "."], "sw": ["market"]}

The server responds with suggestions in the order they were first produced:

	{"id": "req_001", "s": ["farmers"], "c": 1, "t": 12}

Setting "ix" to true, or using the "index" action, also stores the suggestions in the
shared index, which "complete" requests then query by prefix:

	{"id": "req_002", "action": "complete", "p": "farm", "l": 10}
	{"id": "req_002", "s": ["farmers", "farmers market"], "c": 2, "t": 4}

Other actions are "reset" (empty the index) and "health".
Failures are answered with an error message and a status code:

	{"id": "req_003", "e": "unknown action: foo", "c": 400}

The time field "t" is in microseconds.

# HTTP

The same operations are exposed over HTTP with JSON bodies, see HTTPServer.
*/
package server

// Actions understood by the IPC server
const (
	ActionSuggest  = "suggest"
	ActionIndex    = "index"
	ActionComplete = "complete"
	ActionReset    = "reset"
	ActionHealth   = "health"
)

// Request is the single envelope for every IPC action
type Request struct {
	ID        string   `msgpack:"id"`
	Action    string   `msgpack:"action"`
	Tokens    []string `msgpack:"tk,omitempty"`
	StopWords []string `msgpack:"sw,omitempty"`
	Index     bool     `msgpack:"ix,omitempty"`
	Prefix    string   `msgpack:"p,omitempty"`
	Limit     int      `msgpack:"l,omitempty"`
}

// SuggestResponse answers suggest and complete requests
type SuggestResponse struct {
	ID          string   `msgpack:"id"`
	Suggestions []string `msgpack:"s"`
	Count       int      `msgpack:"c"`
	TimeTaken   int64    `msgpack:"t"`
}

// IndexResponse - index operation response
type IndexResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Added  int    `msgpack:"added"`
	Total  int    `msgpack:"total"`
}

// StatusResponse is sent on startup and for health and reset requests
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
