// Package internal holds process-wide configuration shared by the CLI commands.
//
// Flags are declared once as Flag values, bound to cobra commands with
// RegisterCommandFlags, and may be overridden from the environment. An
// optional .env file is loaded by ValidateEnv before the overrides apply.
package internal

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Configuration values populated from flags and the environment.
var (
	Env      string
	LogLevel string
	Profile  string

	Host string
	Port int

	Workers           int
	UsersFile         string
	SessionTimeoutSec int
	SweepIntervalSec  int

	MaxPayload    int
	FragDelayMS   int
	FragTimeoutMS int
	TimeoutMS     int

	Username string
	Password string
)

// Flag describes a single configuration flag and its environment override.
// Exactly one of String or Int must be set.
type Flag struct {
	Name   string
	Usage  string
	EnvVar string

	String        *string
	StringDefault string
	Int           *int
	IntDefault    int
}

// Flag definitions.
var (
	EnvFlag = Flag{
		Name: "env", Usage: "path to a .env file to load (optional)",
		EnvVar: "BALLISTIC_ENV", String: &Env,
	}
	LogLevelFlag = Flag{
		Name: "log-level", Usage: "log level (trace|debug|info|warn|error)",
		EnvVar: "BALLISTIC_LOG_LEVEL", String: &LogLevel, StringDefault: "info",
	}
	ProfileFlag = Flag{
		Name: "profile", Usage: "enable profiling (cpu|mem)",
		EnvVar: "BALLISTIC_PROFILE", String: &Profile,
	}
	HostFlag = Flag{
		Name: "host", Usage: "server host",
		EnvVar: "BALLISTIC_HOST", String: &Host, StringDefault: "localhost",
	}
	PortFlag = Flag{
		Name: "port", Usage: "server UDP port",
		EnvVar: "BALLISTIC_PORT", Int: &Port, IntDefault: 5000,
	}
	WorkersFlag = Flag{
		Name: "workers", Usage: "size of the datagram worker pool",
		EnvVar: "BALLISTIC_WORKERS", Int: &Workers, IntDefault: 10,
	}
	UsersFileFlag = Flag{
		Name: "users-file", Usage: "credential file with user:password lines",
		EnvVar: "BALLISTIC_USERS_FILE", String: &UsersFile, StringDefault: "data/users.txt",
	}
	SessionTimeoutSecFlag = Flag{
		Name: "session-timeout", Usage: "idle seconds before a session expires",
		EnvVar: "BALLISTIC_SESSION_TIMEOUT", Int: &SessionTimeoutSec, IntDefault: 300,
	}
	SweepIntervalSecFlag = Flag{
		Name: "sweep-interval", Usage: "seconds between expired-session sweeps",
		EnvVar: "BALLISTIC_SWEEP_INTERVAL", Int: &SweepIntervalSec, IntDefault: 60,
	}
	MaxPayloadFlag = Flag{
		Name: "max-payload", Usage: "largest reply sent as a single datagram, in bytes",
		EnvVar: "BALLISTIC_MAX_PAYLOAD", Int: &MaxPayload, IntDefault: 1400,
	}
	FragDelayMSFlag = Flag{
		Name: "frag-delay-ms", Usage: "pause between fragment sends, in milliseconds",
		EnvVar: "BALLISTIC_FRAG_DELAY_MS", Int: &FragDelayMS, IntDefault: 5,
	}
	FragTimeoutMSFlag = Flag{
		Name: "frag-timeout-ms", Usage: "receive timeout while reassembling fragments, in milliseconds",
		EnvVar: "BALLISTIC_FRAG_TIMEOUT_MS", Int: &FragTimeoutMS, IntDefault: 5000,
	}
	TimeoutMSFlag = Flag{
		Name: "timeout-ms", Usage: "client receive timeout for the first reply datagram, in milliseconds",
		EnvVar: "BALLISTIC_TIMEOUT_MS", Int: &TimeoutMS, IntDefault: 10000,
	}
	UsernameFlag = Flag{
		Name: "username", Usage: "username sent with AUTH",
		EnvVar: "BALLISTIC_USERNAME", String: &Username, StringDefault: "admin",
	}
	PasswordFlag = Flag{
		Name: "password", Usage: "password sent with AUTH",
		EnvVar: "BALLISTIC_PASSWORD", String: &Password, StringDefault: "password123",
	}
)

type registration struct {
	flag *Flag
	set  *pflag.FlagSet
}

var registered []registration

// RegisterCommandFlags binds the given flags to the command and records them
// for environment overrides in ValidateEnv.
func RegisterCommandFlags(cmd *cobra.Command, flags []*Flag) error {
	for _, f := range flags {
		switch {
		case f.String != nil:
			cmd.PersistentFlags().StringVar(f.String, f.Name, f.StringDefault, f.Usage)
		case f.Int != nil:
			cmd.PersistentFlags().IntVar(f.Int, f.Name, f.IntDefault, f.Usage)
		default:
			return errors.Errorf("flag %s has no target", f.Name)
		}
		registered = append(registered, registration{flag: f, set: cmd.PersistentFlags()})
	}
	return nil
}

// ValidateEnv loads the optional .env file, applies environment overrides for
// flags not set on the command line, and sanity-checks the resulting values.
func ValidateEnv() error {
	if Env != "" {
		if err := godotenv.Load(Env); err != nil {
			return errors.Wrapf(err, "load env file %s failed", Env)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return errors.Wrap(err, "load .env failed")
		}
	}
	for _, reg := range registered {
		f := reg.flag
		if f.EnvVar == "" || reg.set.Changed(f.Name) {
			continue
		}
		raw, ok := os.LookupEnv(f.EnvVar)
		if !ok {
			continue
		}
		if f.String != nil {
			*f.String = raw
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return errors.Wrapf(err, "parse %s failed", f.EnvVar)
		}
		*f.Int = n
	}
	return validateValues()
}

// validateValues sanity-checks flags after overrides. Flags not registered
// on the running command keep their zero value and are skipped.
func validateValues() error {
	if Port <= 0 || Port > 65535 {
		return fmt.Errorf("port %d out of range", Port)
	}
	if Workers < 0 {
		return fmt.Errorf("workers must be positive, got %d", Workers)
	}
	if MaxPayload != 0 && (MaxPayload < 64 || MaxPayload > 65507) {
		return fmt.Errorf("max-payload %d out of range (64..65507)", MaxPayload)
	}
	switch Profile {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("unknown profile mode %q", Profile)
	}
	return nil
}
