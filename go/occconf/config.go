// Package occconf holds the Config consumed from the hosting
// environment: the ask timeout, max send attempts, and retry interval
// that govern a task executor's canCommit calls. Apart from the
// go/cmd entrypoints, it is the only place in this repository aware of
// flags — the coordinator packages themselves take a transport.Policy
// value directly, never read configuration on their own.
package occconf

import (
	"time"

	"github.com/estuary/occ/go/transport"
)

// Config is populated by go/cmd/occd via github.com/jessevdk/go-flags,
// matching go/flowctl-go's pattern of embedding a flags-tagged struct
// directly into a command.
type Config struct {
	// AskTimeout bounds one AskPermissionToCommit attempt.
	AskTimeout time.Duration `long:"ask-timeout" default:"5s" description:"per-attempt timeout for AskPermissionToCommit"`
	// MaxAttempts bounds the number of send attempts.
	MaxAttempts int `long:"max-attempts" default:"3" description:"maximum AskPermissionToCommit send attempts"`
	// RetryInterval spaces consecutive send attempts.
	RetryInterval time.Duration `long:"retry-interval" default:"250ms" description:"pause between AskPermissionToCommit send attempts"`
	// ListenAddr is the gRPC address the driver's coordinator serves on.
	ListenAddr string `long:"listen" default:":8341" description:"gRPC listen address for remote task executors"`
	// SigningKeyFile points at the HS256 key authenticating task
	// executors. Provisioned out-of-band; it has no flag default.
	SigningKeyFile string `long:"signing-key-file" description:"path to the HS256 key used to authenticate task executors"`
}

// TransportPolicy maps Config onto the transport.Policy the Shim
// enforces.
func (c Config) TransportPolicy() transport.Policy {
	return transport.Policy{
		MaxAttempts:   c.MaxAttempts,
		RetryInterval: c.RetryInterval,
		Timeout:       c.AskTimeout,
	}
}
