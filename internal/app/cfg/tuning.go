package cfg

import (
	"ballistic/internal"
	"ballistic/internal/app/apps"
)

// TuningCfg is configuration for the server's pool and transport bounds.
type TuningCfg struct {
	workers    int
	usersFile  string
	maxPayload int
}

// TuningFromEnv creates a new TuningCfg from the current environment.
func TuningFromEnv() *TuningCfg {
	return &TuningCfg{
		workers:    internal.Workers,
		usersFile:  internal.UsersFile,
		maxPayload: internal.MaxPayload,
	}
}

// ApplyServerApp applies the TuningCfg to a ServerApp.
func (cfg TuningCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.Workers = cfg.workers
	app.UsersFile = cfg.usersFile
	app.MaxPayload = cfg.maxPayload
	return nil
}
