package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"

	"github.com/whodunit/parlor/pkg/config"
	"github.com/whodunit/parlor/pkg/server"
	"github.com/whodunit/parlor/pkg/server/ingress"
	"github.com/whodunit/parlor/pkg/server/state"

	"github.com/rs/zerolog/log"
)

func serveCommand(configs []string) error {
	cfg, err := config.Process(configs)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load parlor configuration")
	}

	settings := cfg.Server

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store *state.Store
	if settings.DBPath != "" {
		store, err = state.InitDB(settings.DBPath)
		if err != nil {
			log.Fatal().Err(err).Msgf("failed to open game archive: %s", settings.DBPath)
		}
	}

	cluster := server.NewCluster(ctx, store, cfg.Game.Rules(), settings)
	wsIngress := ingress.NewWSIngress()

	go cluster.PollClients(ctx, wsIngress.ReceiveClients())

	listen, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", settings.Port))
	if err != nil {
		log.Error().Err(err).Msg("failed to bind WebSocket port")
		return err
	}

	log.Info().Msgf("listening on http://%v", listen.Addr())

	mux := http.NewServeMux()
	mux.Handle("/ws", wsIngress)
	mux.Handle("/ws/", wsIngress)
	mux.Handle("/api/", cluster)

	httpServer := &http.Server{
		Handler: mux,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- httpServer.Serve(listen)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)

	select {
	case err := <-errc:
		log.Printf("failed to serve: %v", err)
	case sig := <-sigs:
		log.Printf("terminating: %v", sig)
	}

	httpServer.Shutdown(ctx)
	cluster.Shutdown()

	return nil
}
