package apps

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ballistic/internal/pkg/ballistics"
	"ballistic/internal/pkg/client"
	"ballistic/internal/pkg/plot"
	"ballistic/internal/pkg/validate"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// ClientAppCfg configures a ClientApp.
type ClientAppCfg interface {
	ApplyClientApp(*ClientApp) error
}

// ClientApp drives one authenticate/request/disconnect exchange against the
// server: a simulation when launch parameters are given, the remote command
// reference otherwise.
type ClientApp struct {
	Host          string `validate:"required"`
	Port          int    `validate:"required"`
	Username      string `validate:"required"`
	Password      string `validate:"required"`
	TimeoutMS     int    `validate:"required,gt=0"`
	FragTimeoutMS int    `validate:"required,gt=0"`
}

// NewClientApp creates a new ClientApp.
func NewClientApp(cfgs ...ClientAppCfg) (*ClientApp, error) {
	app := &ClientApp{}
	for _, cfg := range cfgs {
		if err := cfg.ApplyClientApp(app); err != nil {
			return nil, errors.Wrap(err, "apply ClientApp cfg failed")
		}
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate ClientApp failed")
	}
	return app, nil
}

// Run connects, authenticates, performs the requested exchange and disconnects.
// args carries the command name followed by optional launch parameters.
func (app *ClientApp) Run(_ context.Context, args []string) error {
	c, err := client.NewClient(
		client.WithServerHost(app.Host),
		client.WithServerPort(app.Port),
		client.WithTimeout(time.Duration(app.TimeoutMS)*time.Millisecond),
		client.WithFragmentTimeout(time.Duration(app.FragTimeoutMS)*time.Millisecond),
	)
	if err != nil {
		return errors.Wrap(err, "create client failed")
	}
	if err := c.Connect(); err != nil {
		return errors.Wrap(err, "connect client failed")
	}
	defer c.Disconnect()

	reply, err := c.Authenticate(app.Username, app.Password)
	if err != nil {
		return errors.Wrap(err, "authenticate failed")
	}
	if !strings.HasPrefix(reply, "OK") {
		return errors.Errorf("authentication rejected: %s", reply)
	}
	logger.WithField("user", app.Username).Info("authenticated")

	if len(args) <= 1 {
		report, err := c.SendHelp()
		if err != nil {
			return errors.Wrap(err, "help request failed")
		}
		fmt.Println(report)
		return nil
	}

	params, err := parseParams(args[1:])
	if err != nil {
		return errors.Wrap(err, "parse launch parameters failed")
	}
	report, err := c.SendSimulation(params)
	if err != nil {
		return errors.Wrap(err, "simulation failed")
	}
	fmt.Println(report)

	if trajectory, err := plot.Parse(report); err == nil {
		logger.WithFields(logrus.Fields{
			"range_m":  trajectory.MaxRange,
			"height_m": trajectory.MaxHeight,
			"flight_s": trajectory.FlightTime,
			"points":   len(trajectory.Points),
		}).Info("trajectory data parsed")
	}
	return nil
}

func parseParams(args []string) (ballistics.Params, error) {
	if len(args) != 4 {
		return ballistics.Params{}, errors.Errorf("expected 4 values (speed angle mass dragCoeff), got %d", len(args))
	}
	values := make([]float64, 4)
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return ballistics.Params{}, errors.Wrapf(err, "parse %q failed", arg)
		}
		values[i] = v
	}
	return ballistics.Params{
		Velocity:  values[0],
		Angle:     values[1],
		Mass:      values[2],
		DragCoeff: values[3],
	}, nil
}
