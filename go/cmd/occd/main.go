// Command occd serves the output commit coordinator: a Committers
// Table, Decision Kernel, Message Dispatcher, Client Facade, and the
// gRPC surface remote task executors speak to.
//
// Grounded on go/sql-driver/main.go's shape (flags-parsed Config,
// logrus init, signal-driven shutdown), simplified to a direct
// net.Listener + grpc.Server rather than go.gazette.dev/core/server's
// wrapper, since this driver has no journal-backed listener lifecycle
// to share with it.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flags "github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"

	"github.com/estuary/occ/go/coordinator"
	"github.com/estuary/occ/go/dispatcher"
	"github.com/estuary/occ/go/occconf"
	"github.com/estuary/occ/go/rpc"
)

func main() {
	var cfg occconf.Config
	var parser = flags.NewParser(&cfg, flags.Default)

	if _, err := parser.Parse(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	signingKey, err := loadSigningKey(cfg.SigningKeyFile)
	if err != nil {
		log.WithError(err).Fatal("failed to load signing key")
	}

	metrics := dispatcher.NewMetrics(nil)
	disp := dispatcher.New(64, metrics)
	disp.Start()
	facade := coordinator.New(disp)

	srv := rpc.NewServer(facade, signingKey)

	lis, err := listen(cfg.ListenAddr)
	if err != nil {
		log.WithError(err).Fatal("failed to bind listen address")
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		sig := <-signalCh
		log.WithField("signal", sig).Info("caught signal; stopping coordinator")
		srv.GracefulStop()
	}()

	log.WithField("addr", cfg.ListenAddr).Info("serving output commit coordinator")
	if err := srv.Serve(lis); err != nil {
		log.WithError(err).Fatal("gRPC server exited with error")
	}
	log.Info("goodbye")
}
