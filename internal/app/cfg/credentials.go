package cfg

import (
	"ballistic/internal"
	"ballistic/internal/app/apps"
)

// CredentialsCfg is configuration for the client login.
type CredentialsCfg struct {
	username string
	password string
}

// NewCredentialsCfg creates a new CredentialsCfg from the given config.
func NewCredentialsCfg(username, password string) *CredentialsCfg {
	return &CredentialsCfg{
		username: username,
		password: password,
	}
}

// CredentialsFromEnv creates a new CredentialsCfg from the current environment.
func CredentialsFromEnv() *CredentialsCfg {
	return &CredentialsCfg{
		username: internal.Username,
		password: internal.Password,
	}
}

// ApplyClientApp applies the CredentialsCfg to a ClientApp.
func (cfg CredentialsCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.Username = cfg.username
	app.Password = cfg.password
	return nil
}
