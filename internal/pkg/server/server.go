package server

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"ballistic/internal/pkg/auth"
	"ballistic/internal/pkg/handler"
	"ballistic/internal/pkg/log"
	"ballistic/internal/pkg/protocol"
	"ballistic/internal/pkg/session"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// Defaults applied by NewServer.
const (
	DefaultWorkers        = 10
	DefaultMaxPayload     = 1400
	DefaultFragmentDelay  = 5 * time.Millisecond
	DefaultSessionTimeout = 5 * time.Minute
	DefaultSweepInterval  = time.Minute

	receiveBufferSize = 65535
	shutdownGrace     = 5 * time.Second
)

// Server reads datagrams from a UDP socket and processes each one on a
// fixed-size worker pool.
type Server struct {
	host           string
	port           int
	workers        int
	fragmentDelay  time.Duration
	sessionTimeout time.Duration
	sweepInterval  time.Duration

	store session.Store
	auth  auth.Authenticator
	codec protocol.Codec

	conn    *net.UDPConn
	sendMu  sync.Mutex
	limiter *rate.Limiter
	closeMu sync.Once
	ready   chan struct{}
}

// Cfg configures a Server.
type Cfg func(*Server) error

// WithAddr sets the listen host and port.
func WithAddr(host string, port int) Cfg {
	return func(s *Server) error {
		s.host = host
		s.port = port
		return nil
	}
}

// WithSessionStore sets the session store for the server.
func WithSessionStore(store session.Store) Cfg {
	return func(s *Server) error {
		s.store = store
		return nil
	}
}

// WithAuthenticator sets the credential predicate.
func WithAuthenticator(a auth.Authenticator) Cfg {
	return func(s *Server) error {
		s.auth = a
		return nil
	}
}

// WithWorkers sets the worker pool size.
func WithWorkers(n int) Cfg {
	return func(s *Server) error {
		if n <= 0 {
			return errors.Errorf("invalid worker count %d", n)
		}
		s.workers = n
		return nil
	}
}

// WithMaxPayload sets the largest reply sent as a single datagram.
func WithMaxPayload(n int) Cfg {
	return func(s *Server) error {
		s.codec.MaxPayload = n
		return nil
	}
}

// WithFragmentDelay sets the pause between fragment sends.
func WithFragmentDelay(d time.Duration) Cfg {
	return func(s *Server) error {
		s.fragmentDelay = d
		return nil
	}
}

// WithSessionExpiry sets the idle threshold and the sweep period.
func WithSessionExpiry(maxIdle, sweepInterval time.Duration) Cfg {
	return func(s *Server) error {
		s.sessionTimeout = maxIdle
		s.sweepInterval = sweepInterval
		return nil
	}
}

// NewServer creates a new Server with the given configuration.
func NewServer(cfgs ...Cfg) (*Server, error) {
	server := &Server{
		host:           "0.0.0.0",
		port:           5000,
		workers:        DefaultWorkers,
		fragmentDelay:  DefaultFragmentDelay,
		sessionTimeout: DefaultSessionTimeout,
		sweepInterval:  DefaultSweepInterval,
		codec:          protocol.Codec{MaxPayload: DefaultMaxPayload},
		ready:          make(chan struct{}),
	}
	for _, cfg := range cfgs {
		if err := cfg(server); err != nil {
			return nil, errors.Wrap(err, "apply Server cfg failed")
		}
	}
	if server.store == nil {
		server.store = session.NewMemoryStore()
	}
	if server.auth == nil {
		return nil, errors.New("authenticator is required")
	}
	return server, nil
}

type datagram struct {
	addr    *net.UDPAddr
	payload []byte
}

// Run listens for datagrams until the context is cancelled, then drains the
// worker pool with a bounded grace period and releases the socket. It is safe
// to cancel the context more than once; cleanup happens exactly once.
func (s *Server) Run(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(s.host, strconv.Itoa(s.port)))
	if err != nil {
		return errors.Wrap(err, "resolve listen address failed")
	}
	s.conn, err = net.ListenUDP("udp", addr)
	if err != nil {
		return errors.Wrap(err, "listen UDP failed")
	}
	defer s.close()
	close(s.ready)

	h, err := handler.NewHandler(
		handler.WithSessionStore(s.store),
		handler.WithAuthenticator(s.auth),
	)
	if err != nil {
		return errors.Wrap(err, "new handler failed")
	}

	s.limiter = rate.NewLimiter(rate.Every(s.fragmentDelay), 1)

	logger.WithFields(logrus.Fields{
		"addr":    s.conn.LocalAddr().String(),
		"workers": s.workers,
	}).Info("ballistic server listening")

	work := make(chan datagram)
	var wg sync.WaitGroup
	wg.Add(s.workers)
	for i := 0; i < s.workers; i++ {
		go func() {
			defer wg.Done()
			for d := range work {
				s.process(ctx, h, d)
			}
		}()
	}

	sweepDone := make(chan struct{})
	go s.sweepLoop(ctx, sweepDone)

	// Unblock the blocking read when the context is cancelled.
	go func() {
		<-ctx.Done()
		if err := s.conn.SetReadDeadline(time.Now()); err != nil {
			logger.WithError(err).Warn("set read deadline failed")
		}
	}()

	for {
		buf := make([]byte, receiveBufferSize)
		n, raddr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.WithError(err).Warn("read datagram failed")
			continue
		}
		work <- datagram{addr: raddr, payload: buf[:n]}
	}
	close(work)

	drained := make(chan struct{})
	go func() {
		wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(shutdownGrace):
		logger.Warn("workers did not drain within grace period")
	}
	<-sweepDone

	logger.Info("server stopped")
	return nil
}

// Ready is closed once Run has opened the socket; Addr is valid after that.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound local address once Run has opened the socket.
func (s *Server) Addr() net.Addr {
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

func (s *Server) close() {
	s.closeMu.Do(func() {
		if err := s.conn.Close(); err != nil {
			logger.WithError(err).Warn("close socket failed")
		}
	})
}

func (s *Server) sweepLoop(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.store.SweepExpired(s.sessionTimeout); removed > 0 {
				logger.WithFields(logrus.Fields{
					"removed": removed,
					"active":  s.store.Len(),
				}).Info("expired sessions removed")
			}
		}
	}
}

func (s *Server) process(ctx context.Context, h *handler.Handler, d datagram) {
	requestID := uuid.New().String()
	logger.WithFields(log.DatagramToFields(requestID, d.addr, d.payload)).Debug("datagram received")

	reply := h.Handle(d.addr.String(), d.payload)
	if err := s.send(ctx, d.addr, reply); err != nil {
		// No reply path back to the client; log and keep serving.
		logger.WithFields(log.DatagramToFields(requestID, d.addr, d.payload)).
			WithError(err).Error("send reply failed")
		return
	}
	fragments := len(s.codec.Split([]byte(reply)))
	logger.WithFields(log.ReplyToFields(requestID, d.addr, reply, fragments)).Debug("reply sent")
}

// send writes one reply, fragmenting when it exceeds the safe payload bound.
// Individual datagram writes are serialized; fragment sends of one reply are
// paced by the limiter to reduce back-to-back loss.
func (s *Server) send(ctx context.Context, raddr *net.UDPAddr, reply string) error {
	datagrams := s.codec.Split([]byte(reply))
	for i, dg := range datagrams {
		if i > 0 {
			if err := s.limiter.Wait(ctx); err != nil {
				return errors.Wrap(err, "fragment pacing interrupted")
			}
		}
		s.sendMu.Lock()
		_, err := s.conn.WriteToUDP(dg, raddr)
		s.sendMu.Unlock()
		if err != nil {
			return errors.Wrapf(err, "write datagram %d/%d failed", i+1, len(datagrams))
		}
	}
	return nil
}
