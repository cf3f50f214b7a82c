// Package main is the ballistic application entrypoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"ballistic/internal"
	"ballistic/internal/app/apps"
	"ballistic/internal/app/cfg"
	"ballistic/internal/pkg/log"

	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CLI command definitions.
var (
	logger logrus.FieldLogger = logrus.StandardLogger()

	rootCmd = &cobra.Command{
		Use: "ballistic",
		RunE: func(*cobra.Command, []string) error {
			return nil
		},
	}

	clientCmd = &cobra.Command{
		Use:   "client [speed angle mass dragCoeff]",
		Short: "Runs one simulation request against the server.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return nil
			}
			if len(args) != 4 {
				return errors.Errorf("expected 0 or 4 arguments, got %d", len(args))
			}
			for _, arg := range args {
				if _, err := strconv.ParseFloat(arg, 64); err != nil {
					return errors.Wrapf(err, "parse argument %q failed", arg)
				}
			}
			return nil
		},
		RunE: runCmd,
	}

	serverCmd = &cobra.Command{
		Use:   "server",
		Short: "Starts the ballistic UDP server.",
		RunE:  runCmd,
	}
)

func newApp(_ context.Context, cmd *cobra.Command, args []string) (apps.App, []string, error) {
	var err error
	var app apps.App
	switch cmd.Name() {
	case "client":
		app, err = apps.NewClientApp(
			cfg.HostFromEnv(),
			cfg.PortFromEnv(),
			cfg.CredentialsFromEnv(),
			cfg.TimeoutsFromEnv(),
		)
		if err != nil {
			return nil, nil, errors.Wrap(err, "new client app failed")
		}
		args = append([]string{cmd.Name()}, args...)
		return app, args, nil
	case "server":
		app, err = apps.NewServerApp(
			cfg.HostFromEnv(),
			cfg.PortFromEnv(),
			cfg.TimeoutsFromEnv(),
			cfg.TuningFromEnv(),
		)
		if err != nil {
			return nil, nil, errors.Wrap(err, "new server app failed")
		}
		args = append([]string{cmd.Name()}, args...)
		return app, args, nil
	default:
		return nil, nil, fmt.Errorf("unknown command: %s", cmd.Name())
	}
}

func runCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := chainedCheck(
		ctx,
		envCheck,
	); err != nil {
		return errors.Wrap(err, "chained check failed")
	}
	switch internal.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.MemProfileAllocs).Stop()
	}
	app, args, err := newApp(ctx, cmd, args)
	if err != nil {
		return errors.Wrapf(err, "new %s app failed", cmd.Name())
	}
	return errors.Wrap(app.Run(ctx, args), "run app failed")
}

func envCheck(ctx context.Context) error {
	err := internal.ValidateEnv()
	if err != nil {
		return errors.Wrap(err, "validate env failed")
	}
	log.SetLogger(internal.LogLevel)
	return nil
}

func chainedCheck(ctx context.Context, checks ...func(context.Context) error) error {
	for _, check := range checks {
		err := check(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

func init() {
	err := internal.RegisterCommandFlags(rootCmd, []*internal.Flag{
		&internal.EnvFlag,
		&internal.LogLevelFlag,

		&internal.HostFlag,
		&internal.PortFlag,
	})
	if err != nil {
		logger.Fatalln(err)
	}

	err = internal.RegisterCommandFlags(clientCmd, []*internal.Flag{
		&internal.UsernameFlag,
		&internal.PasswordFlag,
		&internal.TimeoutMSFlag,
		&internal.FragTimeoutMSFlag,
	})
	if err != nil {
		logger.Fatalln(err)
	}

	err = internal.RegisterCommandFlags(serverCmd, []*internal.Flag{
		&internal.WorkersFlag,
		&internal.UsersFileFlag,
		&internal.SessionTimeoutSecFlag,
		&internal.SweepIntervalSecFlag,
		&internal.MaxPayloadFlag,
		&internal.FragDelayMSFlag,
		&internal.ProfileFlag,
	})
	if err != nil {
		logger.Fatalln(err)
	}

	rootCmd.AddCommand(
		clientCmd,
		serverCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Fatal(errors.Wrap(err, "execute root command failed"))
	}
}
