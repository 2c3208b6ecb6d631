// Package tv talks to a webOS television over its second-screen API.
//
// A Client owns one session: the control WebSocket on port 3000 and,
// optionally, the input pointer socket used for remote-control buttons.
//
// # Session Lifecycle
//
//  1. Connect normalizes the host to ws://<host>:3000 and dials it
//  2. A "register" request is sent with the stored client key, if any
//  3. Without a valid key the TV shows a prompt; the second reply arrives
//     once the user accepts it
//  4. A new client key is persisted through the KeyStore
//  5. The input pointer socket is opened (optional, failures are logged)
//
// # Command Protocol
//
// Every query and command goes through SendCommand. Exactly one request is
// outstanding on the control socket at a time. If the socket closes before
// the reply arrives, the client reconnects with a fresh message-ID prefix and
// resends once. Replies are matched by ID; a mismatch is reported, not
// repaired.
//
// # 3D Switching
//
// The TV offers no call to pick a 3D format. Switch3DMode drives the 3D menu
// with LEFT/RIGHT presses and verifies the result with get3DStatus:
//
//	client := tv.NewClient(config.NewRegistryKeyStore(registry))
//	if err := client.Connect("192.168.1.20"); err != nil {
//	    return err
//	}
//	defer client.Disconnect()
//
//	if err := client.Set3DMode(protocol.ModeSideSideHalf); err != nil {
//	    fmt.Println(tv.GetTroubleshootingHint(err))
//	}
//
// # Error Handling
//
// Failures are returned as *Error values carrying an ErrorType. Use the Is*
// helpers to classify them and GetTroubleshootingHint for user-facing advice.
package tv
