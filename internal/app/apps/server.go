package apps

import (
	"context"
	"time"

	"ballistic/internal/pkg/auth"
	"ballistic/internal/pkg/server"
	"ballistic/internal/pkg/session"
	"ballistic/internal/pkg/validate"

	"github.com/pkg/errors"
)

// ServerAppCfg configures a ServerApp.
type ServerAppCfg interface {
	ApplyServerApp(*ServerApp) error
}

// ServerApp runs the ballistic UDP server.
type ServerApp struct {
	Host              string `validate:"required"`
	Port              int    `validate:"required"`
	Workers           int    `validate:"required,gt=0"`
	UsersFile         string `validate:"required"`
	SessionTimeoutSec int    `validate:"required,gt=0"`
	SweepIntervalSec  int    `validate:"required,gt=0"`
	MaxPayload        int    `validate:"required,gte=64"`
	FragDelayMS       int    `validate:"gte=0"`
}

// NewServerApp creates a new ServerApp.
func NewServerApp(cfgs ...ServerAppCfg) (*ServerApp, error) {
	app := &ServerApp{}
	for _, cfg := range cfgs {
		if err := cfg.ApplyServerApp(app); err != nil {
			return nil, errors.Wrap(err, "apply ServerApp cfg failed")
		}
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate ServerApp failed")
	}
	return app, nil
}

// Run serves until the context is cancelled.
func (app *ServerApp) Run(ctx context.Context, _ []string) error {
	table := auth.LoadFileOrDefaults(app.UsersFile)
	srv, err := server.NewServer(
		server.WithAddr(app.Host, app.Port),
		server.WithSessionStore(session.NewMemoryStore()),
		server.WithAuthenticator(table),
		server.WithWorkers(app.Workers),
		server.WithMaxPayload(app.MaxPayload),
		server.WithFragmentDelay(time.Duration(app.FragDelayMS)*time.Millisecond),
		server.WithSessionExpiry(
			time.Duration(app.SessionTimeoutSec)*time.Second,
			time.Duration(app.SweepIntervalSec)*time.Second,
		),
	)
	if err != nil {
		return errors.Wrap(err, "create server failed")
	}
	return errors.Wrap(srv.Run(ctx), "run server failed")
}
