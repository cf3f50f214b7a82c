package client

import (
	"net"
	"strconv"
	"time"

	"ballistic/internal/pkg/ballistics"
	"ballistic/internal/pkg/protocol"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// Timeout defaults.
const (
	DefaultTimeout         = 10 * time.Second
	DefaultFragmentTimeout = 5 * time.Second

	disconnectGrace   = time.Second
	receiveBufferSize = 65535
)

// State is the client session state.
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "disconnected"
	}
}

// Client drives the authenticate/request/disconnect protocol against one
// server. One request is outstanding at a time; methods must not be called
// concurrently on the same instance.
type Client struct {
	host            string
	port            int
	timeout         time.Duration
	fragmentTimeout time.Duration

	conn  *net.UDPConn
	state State
	recv  []byte
}

// Cfg configures a Client.
type Cfg func(*Client) error

// WithServerHost sets the server host to connect to.
func WithServerHost(host string) Cfg {
	return func(c *Client) error {
		c.host = host
		return nil
	}
}

// WithServerPort sets the server port to connect to.
func WithServerPort(port int) Cfg {
	return func(c *Client) error {
		c.port = port
		return nil
	}
}

// WithTimeout sets the receive timeout for the first datagram of a reply.
func WithTimeout(d time.Duration) Cfg {
	return func(c *Client) error {
		c.timeout = d
		return nil
	}
}

// WithFragmentTimeout sets the receive timeout while reassembling fragments.
func WithFragmentTimeout(d time.Duration) Cfg {
	return func(c *Client) error {
		c.fragmentTimeout = d
		return nil
	}
}

// NewClient creates a new Client with the given configuration.
func NewClient(cfgs ...Cfg) (*Client, error) {
	client := &Client{
		host:            "localhost",
		port:            5000,
		timeout:         DefaultTimeout,
		fragmentTimeout: DefaultFragmentTimeout,
		recv:            make([]byte, receiveBufferSize),
	}
	for _, cfg := range cfgs {
		if err := cfg(client); err != nil {
			return nil, errors.Wrap(err, "apply Client cfg failed")
		}
	}
	return client, nil
}

// State returns the current session state.
func (c *Client) State() State {
	return c.state
}

// Connect resolves the server address and opens the local endpoint.
func (c *Client) Connect() error {
	if c.state != StateDisconnected {
		return ErrAlreadyConnected
	}
	raddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(c.host, strconv.Itoa(c.port)))
	if err != nil {
		return errors.Wrapf(err, "resolve %s:%d failed", c.host, c.port)
	}
	c.conn, err = net.DialUDP("udp", nil, raddr)
	if err != nil {
		return errors.Wrap(err, "open local endpoint failed")
	}
	c.state = StateConnected
	return nil
}

// Authenticate sends the credentials and awaits the reply. The session
// becomes authenticated only on a success reply from the server.
func (c *Client) Authenticate(username, password string) (string, error) {
	if c.state == StateDisconnected {
		return "", ErrNotConnected
	}
	reply, err := c.request("AUTH " + username + " " + password)
	if err != nil {
		return "", errors.Wrap(err, "authenticate failed")
	}
	if len(reply) >= 2 && reply[:2] == protocol.ReplyOK {
		c.state = StateAuthenticated
	}
	return reply, nil
}

// SendSimulation requests a simulation for the given parameters and returns
// the report extracted from the reply.
func (c *Client) SendSimulation(params ballistics.Params) (string, error) {
	if c.state != StateAuthenticated {
		return "", ErrNotAuthenticated
	}
	if err := params.Validate(); err != nil {
		return "", errors.Wrap(err, "invalid parameters")
	}
	reply, err := c.request(params.ProtocolString())
	if err != nil {
		return "", errors.Wrap(err, "simulation request failed")
	}
	return protocol.ExtractResult(reply), nil
}

// SendHelp requests the server's command reference.
func (c *Client) SendHelp() (string, error) {
	if c.state != StateAuthenticated {
		return "", ErrNotAuthenticated
	}
	reply, err := c.request("HELP")
	if err != nil {
		return "", errors.Wrap(err, "help request failed")
	}
	return protocol.ExtractResult(reply), nil
}

// Disconnect sends a best-effort QUIT, waits briefly for the acknowledgement,
// and releases the local endpoint. It never fails observably; the client is
// Disconnected afterwards regardless of the network outcome.
func (c *Client) Disconnect() {
	if c.state == StateDisconnected {
		return
	}
	if _, err := c.conn.Write([]byte("QUIT")); err == nil {
		if err := c.conn.SetReadDeadline(time.Now().Add(disconnectGrace)); err == nil {
			_, _ = c.conn.Read(c.recv) // BYE, discarded
		}
	}
	if err := c.conn.Close(); err != nil {
		logger.WithError(err).Debug("close endpoint failed")
	}
	c.conn = nil
	c.state = StateDisconnected
}

// request sends one command and returns the reassembled reply. The primary
// timeout governs the first datagram; fragment waits use the shorter
// fragment timeout and a timeout mid-reassembly yields the partial reply.
func (c *Client) request(command string) (string, error) {
	if _, err := c.conn.Write([]byte(command)); err != nil {
		return "", errors.Wrap(err, "send command failed")
	}

	first, err := c.receive(c.timeout)
	if err != nil {
		return "", err
	}

	reassembler, ok := protocol.NewReassembler(first)
	if !ok {
		return string(first), nil
	}
	for !reassembler.Complete() {
		fragment, err := c.receive(c.fragmentTimeout)
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				logger.WithFields(logrus.Fields{
					"received": reassembler.Received(),
					"total":    reassembler.Total(),
				}).Warn("fragment reassembly timed out")
				break
			}
			return "", err
		}
		reassembler.Add(fragment)
	}
	return string(reassembler.Assemble()), nil
}

func (c *Client) receive(timeout time.Duration) ([]byte, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, errors.Wrap(err, "set read deadline failed")
	}
	n, err := c.conn.Read(c.recv)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, errors.Wrapf(ErrTimeout, "no reply within %s", timeout)
		}
		return nil, errors.Wrap(err, "receive failed")
	}
	datagram := make([]byte, n)
	copy(datagram, c.recv[:n])
	return datagram, nil
}
