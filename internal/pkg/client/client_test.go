package client

import (
	"net"
	"strings"
	"testing"
	"time"

	"ballistic/internal/pkg/ballistics"
	"ballistic/internal/pkg/protocol"

	"github.com/stretchr/testify/require"
)

// startFakeServer binds a loopback UDP socket and answers each inbound
// datagram with the datagrams produced by handle. A nil slice drops the
// request without replying, which is how the timeout paths are exercised.
func startFakeServer(t *testing.T, handle func(req string) [][]byte) int {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	go func() {
		buf := make([]byte, 65535)
		for {
			n, addr, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			for _, datagram := range handle(string(buf[:n])) {
				if _, err := conn.WriteToUDP(datagram, addr); err != nil {
					return
				}
			}
		}
	}()
	return conn.LocalAddr().(*net.UDPAddr).Port
}

func newTestClient(t *testing.T, port int, cfgs ...Cfg) *Client {
	t.Helper()
	cfgs = append([]Cfg{
		WithServerHost("127.0.0.1"),
		WithServerPort(port),
		WithTimeout(2 * time.Second),
		WithFragmentTimeout(time.Second),
	}, cfgs...)
	c, err := NewClient(cfgs...)
	require.NoError(t, err)
	return c
}

func single(reply string) [][]byte {
	return [][]byte{[]byte(reply)}
}

func TestStateGuards(t *testing.T) {
	c, err := NewClient()
	require.NoError(t, err)

	_, err = c.Authenticate("admin", "password123")
	require.ErrorIs(t, err, ErrNotConnected)
	_, err = c.SendHelp()
	require.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = c.SendSimulation(ballistics.MedievalCannon())
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestConnectTwice(t *testing.T) {
	port := startFakeServer(t, func(string) [][]byte { return nil })
	c := newTestClient(t, port)
	require.NoError(t, c.Connect())
	defer c.Disconnect()

	require.ErrorIs(t, c.Connect(), ErrAlreadyConnected)
}

func TestAuthenticateSuccess(t *testing.T) {
	port := startFakeServer(t, func(req string) [][]byte {
		if req == "AUTH admin password123" {
			return single(protocol.ReplyOK)
		}
		return single(protocol.ReplyBadCredentials(2))
	})
	c := newTestClient(t, port)
	require.NoError(t, c.Connect())
	defer c.Disconnect()

	reply, err := c.Authenticate("admin", "password123")
	require.NoError(t, err)
	require.Equal(t, protocol.ReplyOK, reply)
	require.Equal(t, StateAuthenticated, c.State())
}

func TestAuthenticateRejected(t *testing.T) {
	port := startFakeServer(t, func(string) [][]byte {
		return single(protocol.ReplyBadCredentials(2))
	})
	c := newTestClient(t, port)
	require.NoError(t, c.Connect())
	defer c.Disconnect()

	reply, err := c.Authenticate("admin", "wrong")
	require.NoError(t, err)
	require.Equal(t, protocol.ReplyBadCredentials(2), reply)
	require.Equal(t, StateConnected, c.State())
}

func TestSimulationValidatedLocally(t *testing.T) {
	port := startFakeServer(t, func(string) [][]byte {
		t.Error("request must not reach the server")
		return nil
	})
	c := newTestClient(t, port)
	require.NoError(t, c.Connect())
	defer c.Disconnect()
	c.state = StateAuthenticated

	_, err := c.SendSimulation(ballistics.Params{Velocity: -1, Angle: 45, Mass: 5, DragCoeff: 0.47})
	require.Error(t, err)
	require.Contains(t, err.Error(), "velocity")
}

func TestSimulationExtractsResult(t *testing.T) {
	const body = "===== RISULTATI SIMULAZIONE =====\nGittata massima:  100.00 m"
	port := startFakeServer(t, func(req string) [][]byte {
		require.True(t, strings.HasPrefix(req, "SIMULATE "))
		return single(protocol.WrapResult(body))
	})
	c := newTestClient(t, port)
	require.NoError(t, c.Connect())
	defer c.Disconnect()
	c.state = StateAuthenticated

	report, err := c.SendSimulation(ballistics.MedievalCannon())
	require.NoError(t, err)
	require.Equal(t, body+"\n", report)
}

func TestFragmentedReplyReassembled(t *testing.T) {
	body := protocol.WrapResult(strings.Repeat("la traiettoria del proiettile ", 40))
	codec := protocol.Codec{MaxPayload: 128}
	datagrams := codec.Split([]byte(body))
	require.Greater(t, len(datagrams), 1)

	port := startFakeServer(t, func(string) [][]byte { return datagrams })
	c := newTestClient(t, port)
	require.NoError(t, c.Connect())
	defer c.Disconnect()
	c.state = StateAuthenticated

	report, err := c.SendHelp()
	require.NoError(t, err)
	require.Equal(t, protocol.ExtractResult(body), report)
}

func TestPartialReplyOnFragmentTimeout(t *testing.T) {
	codec := protocol.Codec{MaxPayload: 32}
	datagrams := codec.Split([]byte(strings.Repeat("x", 40)))
	require.Len(t, datagrams, 4)

	// Only the first two fragments are ever sent.
	port := startFakeServer(t, func(string) [][]byte { return datagrams[:2] })
	c := newTestClient(t, port, WithFragmentTimeout(100*time.Millisecond))
	require.NoError(t, c.Connect())
	defer c.Disconnect()
	c.state = StateAuthenticated

	report, err := c.SendHelp()
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("x", 24), report)
}

func TestRequestTimeout(t *testing.T) {
	port := startFakeServer(t, func(string) [][]byte { return nil })
	c := newTestClient(t, port, WithTimeout(100*time.Millisecond))
	require.NoError(t, c.Connect())
	defer c.Disconnect()

	_, err := c.Authenticate("admin", "password123")
	require.ErrorIs(t, err, ErrTimeout)
}

func TestDisconnectSendsQuit(t *testing.T) {
	quit := make(chan string, 1)
	port := startFakeServer(t, func(req string) [][]byte {
		if strings.EqualFold(req, "QUIT") {
			quit <- req
			return single(protocol.ReplyBye)
		}
		return single(protocol.ReplyOK)
	})
	c := newTestClient(t, port)
	require.NoError(t, c.Connect())
	_, err := c.Authenticate("admin", "password123")
	require.NoError(t, err)

	c.Disconnect()
	require.Equal(t, StateDisconnected, c.State())
	select {
	case <-quit:
	case <-time.After(2 * time.Second):
		t.Fatal("QUIT never reached the server")
	}

	// Disconnecting again is harmless.
	c.Disconnect()
	require.Equal(t, StateDisconnected, c.State())
}
