// Package handler dispatches one inbound datagram as one unit of work.
package handler

import (
	"strconv"

	"ballistic/internal/pkg/auth"
	"ballistic/internal/pkg/ballistics"
	"ballistic/internal/pkg/protocol"
	"ballistic/internal/pkg/session"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// MaxAuthAttempts is the failed-attempt ceiling after which a session is
// locked until it expires or is recreated.
const MaxAuthAttempts = 3

// Handler resolves sessions and executes parsed commands.
type Handler struct {
	store session.Store
	auth  auth.Authenticator
}

// Cfg configures a Handler.
type Cfg func(*Handler) error

// WithSessionStore sets the session store.
func WithSessionStore(store session.Store) Cfg {
	return func(h *Handler) error {
		h.store = store
		return nil
	}
}

// WithAuthenticator sets the credential predicate.
func WithAuthenticator(a auth.Authenticator) Cfg {
	return func(h *Handler) error {
		h.auth = a
		return nil
	}
}

// NewHandler creates a new Handler with the given configuration.
func NewHandler(cfgs ...Cfg) (*Handler, error) {
	h := &Handler{}
	for _, cfg := range cfgs {
		if err := cfg(h); err != nil {
			return nil, errors.Wrap(err, "apply Handler cfg failed")
		}
	}
	if h.store == nil {
		return nil, errors.New("session store is required")
	}
	if h.auth == nil {
		return nil, errors.New("authenticator is required")
	}
	return h, nil
}

// Handle processes one datagram payload from the given endpoint and returns
// the single reply to send. Session creation, activity refresh and removal
// happen here; every branch yields exactly one reply.
func (h *Handler) Handle(endpoint string, payload []byte) string {
	sess := h.store.GetOrCreate(endpoint)
	sess.Touch()

	cmd := protocol.Parse(string(payload))

	switch c := cmd.(type) {
	case protocol.Auth:
		return h.handleAuth(sess, c)
	case protocol.Quit:
		if err := h.store.Remove(endpoint); err != nil {
			logger.WithField("client", endpoint).WithError(err).Warn("remove session failed")
		}
		logger.WithFields(logrus.Fields{"client": endpoint, "user": sess.Username()}).Info("client disconnected")
		return protocol.ReplyBye
	}

	if !sess.Authenticated() {
		return protocol.ReplyNotAuthenticated
	}

	switch c := cmd.(type) {
	case protocol.Simulate:
		return h.handleSimulate(sess, c)
	case protocol.Help:
		return protocol.WrapResult(protocol.HelpText)
	case protocol.Unknown:
		logger.WithFields(logrus.Fields{"client": endpoint, "command": c.Text}).Debug("unknown command")
		return protocol.ReplyUnknownCommand
	default:
		return protocol.ReplyUnknownCommand
	}
}

func (h *Handler) handleAuth(sess *session.Session, cmd protocol.Auth) string {
	if sess.Authenticated() {
		return protocol.ReplyAlreadyAuthenticated(sess.Username())
	}
	if sess.Locked(MaxAuthAttempts) {
		return protocol.ReplyLockedRetry
	}
	if cmd.Malformed {
		return protocol.ReplyAuthFormat
	}
	if h.auth.Authenticate(cmd.Username, cmd.Password) {
		sess.SetAuthenticated(cmd.Username)
		logger.WithFields(logrus.Fields{"client": sess.Endpoint(), "user": cmd.Username}).Info("authenticated")
		return protocol.ReplyOK
	}
	attempts := sess.RecordFailure()
	remaining := MaxAuthAttempts - attempts
	if remaining > 0 {
		logger.WithFields(logrus.Fields{"client": sess.Endpoint(), "remaining": remaining}).Info("authentication failed")
		return protocol.ReplyBadCredentials(remaining)
	}
	logger.WithField("client", sess.Endpoint()).Warn("session locked")
	return protocol.ReplyLockedOut
}

func (h *Handler) handleSimulate(sess *session.Session, cmd protocol.Simulate) string {
	if len(cmd.Args) != 4 {
		return protocol.WrapResult(protocol.ErrSimulateFormat)
	}
	values := make([]float64, 4)
	for i, arg := range cmd.Args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return protocol.WrapResult(protocol.ErrSimulateNotNumeric)
		}
		values[i] = v
	}
	params := ballistics.Params{
		Velocity:  values[0],
		Angle:     values[1],
		Mass:      values[2],
		DragCoeff: values[3],
	}
	if err := params.Validate(); err != nil {
		return protocol.WrapResult(protocol.ErrSimulateInvalidPrefix + err.Error())
	}

	logger.WithFields(logrus.Fields{
		"client": sess.Endpoint(),
		"user":   sess.Username(),
		"params": params.String(),
	}).Info("simulation requested")

	result := ballistics.Simulate(params)
	return protocol.WrapResult(ballistics.Format(result))
}
