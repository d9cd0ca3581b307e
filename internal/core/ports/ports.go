// Package ports defines the interfaces through which the client core reaches
// its environment: local persistent storage, the navigation shell and the
// user-facing notifier. Concrete implementations live under internal/storage
// and in the command shells.
package ports

import (
	"context"

	"github.com/elomind/elomind-client/internal/core/domain"
)

// KeyValue is the persistent device storage the session lives in. A missing
// key is a valid "no value" result, reported through found=false, never as an
// error. Errors mean the storage itself is unavailable.
type KeyValue interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Navigator replaces the active route. In the mobile shell this is the OS
// navigation stack; in the CLI it records the current screen.
type Navigator interface {
	Replace(dest domain.Destination)
}

// Notifier surfaces blocking user-facing notices (session expired, account
// deactivated). Implementations must not fail.
type Notifier interface {
	Notify(title, message string)
}
