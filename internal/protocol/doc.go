// Package protocol implements the webOS second-screen wire vocabulary.
//
// This package holds everything that describes what goes over the wire to a
// webOS television, without owning any socket itself. The tv package builds on
// it to run sessions.
//
// # Control Channel
//
// The primary WebSocket (ws://<host>:3000) carries JSON envelopes. Requests
// look like:
//
//	{"id": "3fa9c1_4", "type": "request", "uri": "ssap://audio/getVolume"}
//
// and responses echo the request ID:
//
//	{"id": "3fa9c1_4", "type": "response", "payload": {"volume": 12, "returnValue": true}}
//
// Message IDs are a random per-session prefix followed by a counter. A new
// IDGenerator is created on every connect, so IDs never collide across
// reconnects.
//
// # Registration
//
// The first message of a session is a "register" request carrying the
// application manifest and, when known, the client key issued by the TV on a
// previous pairing. See NewRegistrationRequest.
//
// # Input Pointer Channel
//
// Remote-control input is sent on a second socket as plain text frames:
//
//	type:button
//	name:LEFT
//
// followed by a blank line. Clicks use "type:click". See ButtonFrame and
// ClickFrame.
//
// # Stereoscopic Modes
//
// Display3dMode is ordered: the ordinal distance between two modes is the
// number of LEFT/RIGHT presses needed to move the TV's 3D menu cursor from one
// to the other. Navigation computes that press sequence.
package protocol
