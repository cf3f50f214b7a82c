// Package client implements the client side of the ballistic UDP protocol.
//
// The client moves through three states:
//	1. Disconnected: the zero state. Connect resolves the server address and
//	   opens a local UDP endpoint, moving to Connected.
//	2. Connected: Authenticate sends AUTH and moves to Authenticated when the
//	   server replies with success.
//	3. Authenticated: SendSimulation and SendHelp exchange one request for
//	   one reply each.
//
// Every request blocks until a reply, a timeout, or an I/O failure. The
// first reply datagram is awaited under the primary timeout; if it carries a
// fragment header the client keeps receiving under the shorter fragment
// timeout until all fragments are present or that timeout fires, then
// concatenates the received slices in index order. A partial reassembly is
// returned as-is, never as an error.
//
// Disconnect sends QUIT best-effort, discards the acknowledgement if it
// arrives within a short grace period, and releases the endpoint. The state
// is Disconnected afterwards no matter what the network did; a finished
// client is not reusable, open a new instance instead.
package client
