// Package provider holds the request and result types shared by the
// external capability adapters and the services that call them.
package provider

import "time"

// UnderstandRequest is the input to a text-understanding provider.
type UnderstandRequest struct {
	Text   string
	Locale string
	Hints  map[string]string
	// Now anchors relative dates ("tomorrow") in the command.
	Now time.Time
	// Schema is the JSON schema the produced document must satisfy.
	Schema string
}
