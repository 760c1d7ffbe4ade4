package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/pitwall-data/pitwall/internal/api"
	"github.com/pitwall-data/pitwall/internal/capture"
	"github.com/pitwall-data/pitwall/internal/livetiming"
	"github.com/pitwall-data/pitwall/internal/monitoring"
	"github.com/pitwall-data/pitwall/internal/version"
)

var (
	captureFile = flag.String("capture", "", "Path to a captured live-timing log (JSON lines)")
	sessionKind = flag.String("kind", "Race", "Session kind: Practice, Qualifying, Race, Sprint")
	dbFile      = flag.String("db", "", "Path to the capture database (optional)")
	record      = flag.Bool("record", false, "Store the loaded capture in the database")
	sessionID   = flag.String("session", "", "Replay a stored capture session by id instead of -capture")
	listen      = flag.String("listen", ":8080", "Listen address for the query API")
	verbose     = flag.Bool("verbose", false, "Log per-event diagnostics")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()
	monitoring.Verbose = *verbose

	if *showVersion {
		fmt.Printf("pitwall %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if *captureFile == "" && *sessionID == "" {
		log.Fatal("either -capture or -session is required")
	}

	var store *capture.Store
	if *dbFile != "" {
		var err error
		store, err = capture.OpenStore(*dbFile)
		if err != nil {
			log.Fatalf("failed to open capture store: %v", err)
		}
		defer store.Close()
	}

	var events []capture.RawEvent
	var err error
	switch {
	case *sessionID != "":
		if store == nil {
			log.Fatal("-session requires -db")
		}
		events, err = store.Events(*sessionID)
		if err != nil {
			log.Fatalf("failed to load stored session: %v", err)
		}
	default:
		events, err = capture.ReadFile(*captureFile)
		if err != nil {
			log.Fatalf("failed to load capture: %v", err)
		}
	}

	session := livetiming.NewSession(livetiming.SessionKind(*sessionKind))
	applied := capture.Ingest(session, events)
	log.Printf("ingested %d/%d events across %d topics", applied, len(events), len(session.Topics()))

	if *record {
		if store == nil {
			log.Fatal("-record requires -db")
		}
		meta, err := store.SaveSession(*sessionKind, filepath.Base(*captureFile), events)
		if err != nil {
			log.Fatalf("failed to record capture: %v", err)
		}
		log.Printf("recorded capture as session %s (%d events)", meta.ID, meta.Events)
	}

	srv := api.NewServer(session, store)
	log.Printf("serving query API on %s", *listen)
	if err := http.ListenAndServe(*listen, api.LoggingMiddleware(srv.ServeMux())); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
