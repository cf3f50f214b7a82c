// Package apps wires configuration into runnable client and server apps.
package apps

import "context"

// App is a runnable application entrypoint.
type App interface {
	Run(ctx context.Context, args []string) error
}
