// Package server implements the UDP side of the ballistic service.
//
// The server performs the following steps:
//	1. Opens a UDP socket and reads datagrams sequentially from it.
//	2. Hands each datagram to a fixed-size worker pool; the pool bounds
//	   concurrency and the socket's receive buffer absorbs bursts.
//	3. Each worker resolves the sender's session by endpoint, executes the
//	   command through the handler, and sends back exactly one reply.
//	4. Replies larger than the safe payload bound are split into FRAG:<i>/<N>:
//	   datagrams, sent in order with a paced delay between chunks.
//	5. A background task periodically sweeps sessions idle past the timeout.
//	6. On context cancellation the read loop stops, workers drain within a
//	   bounded grace period, and the socket is released.
//
// Workers share only the session store and the serialized send path, so one
// malformed or hostile datagram can never take the process down: errors are
// logged, the datagram is dropped, and the loop keeps serving.
package server
