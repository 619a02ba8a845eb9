// The sidecar binary is the ecosysx engine subprocess: it reads one JSON
// request per line on stdin, writes one JSON response per line on stdout,
// and keeps all diagnostics on stderr. An orchestrating host owns the
// process lifetime; closing stdin ends the session cleanly.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"ecosysx/internal/advisor"
	"ecosysx/internal/protocol"
	"ecosysx/internal/sidecar"
	"ecosysx/internal/transport/observer"
)

func main() {
	var (
		observeAddr    = flag.String("observe", "", "serve a read-only metrics WebSocket feed on this address (empty to disable)")
		advisorURL     = flag.String("advisor_url", "", "base URL of the decision service (empty to disable; engine stays deterministic)")
		advisorTimeout = flag.Duration("advisor_timeout", 2*time.Second, "per-request decision service timeout")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "[sidecar] ", log.LstdFlags|log.Lmicroseconds)

	h := sidecar.NewHandler(logger)

	if *advisorURL != "" {
		client := advisor.NewClient(*advisorURL, *advisorTimeout)
		ctx, cancel := context.WithTimeout(context.Background(), *advisorTimeout)
		health, err := client.Health(ctx)
		cancel()
		switch {
		case err != nil:
			logger.Printf("decision service unreachable, heuristic fallback active: %v", err)
		case !health.ModelLoaded:
			logger.Printf("decision service %s not ready (status=%s), heuristic fallback active", health.Model, health.Status)
		default:
			logger.Printf("decision service ready: model=%s", health.Model)
		}
		h.SetPolicy(advisor.NewPolicy(client, logger, *advisorTimeout))
	}

	if *observeAddr != "" {
		hub := observer.NewHub(logger)
		h.OnStep(func(snap *protocol.Snapshot) { hub.Broadcast(snap) })

		mux := http.NewServeMux()
		mux.HandleFunc("/v1/observe", hub.Handler())
		go func() {
			logger.Printf("observer feed listening on %s", *observeAddr)
			if err := http.ListenAndServe(*observeAddr, mux); err != nil {
				logger.Printf("observer feed stopped: %v", err)
			}
		}()
	}

	logger.Printf("engine %s %s ready", protocol.SchemaTag, protocol.TimeModelTag)
	if err := h.Run(os.Stdin, os.Stdout); err != nil {
		logger.Printf("session ended with error: %v", err)
		os.Exit(1)
	}
	logger.Printf("session ended")
}
