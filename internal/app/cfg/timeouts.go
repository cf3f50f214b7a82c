package cfg

import (
	"ballistic/internal"
	"ballistic/internal/app/apps"
)

// TimeoutsCfg is configuration for the protocol's timing knobs.
type TimeoutsCfg struct {
	timeoutMS         int
	fragTimeoutMS     int
	fragDelayMS       int
	sessionTimeoutSec int
	sweepIntervalSec  int
}

// TimeoutsFromEnv creates a new TimeoutsCfg from the current environment.
func TimeoutsFromEnv() *TimeoutsCfg {
	return &TimeoutsCfg{
		timeoutMS:         internal.TimeoutMS,
		fragTimeoutMS:     internal.FragTimeoutMS,
		fragDelayMS:       internal.FragDelayMS,
		sessionTimeoutSec: internal.SessionTimeoutSec,
		sweepIntervalSec:  internal.SweepIntervalSec,
	}
}

// ApplyClientApp applies the TimeoutsCfg to a ClientApp.
func (cfg TimeoutsCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.TimeoutMS = cfg.timeoutMS
	app.FragTimeoutMS = cfg.fragTimeoutMS
	return nil
}

// ApplyServerApp applies the TimeoutsCfg to a ServerApp.
func (cfg TimeoutsCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.SessionTimeoutSec = cfg.sessionTimeoutSec
	app.SweepIntervalSec = cfg.sweepIntervalSec
	app.FragDelayMS = cfg.fragDelayMS
	return nil
}
