package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"wallplan/broadcast"
	"wallplan/plan"
	"wallplan/script"
	"wallplan/session"
	"wallplan/storage"
)

func main() {
	var (
		scriptFile = flag.String("script", "", "Run a plan script before starting")
		listen     = flag.String("listen", "", "Serve plan updates over websocket on this address (e.g. :8080)")
		project    = flag.String("project", "", "SQLite project database path")
		loadID     = flag.String("load", "", "Project id to load on startup (requires -project)")
		saveName   = flag.String("save", "", "Save the plan under this name and exit (requires -project)")
		headless   = flag.Bool("headless", false, "Run without the terminal UI")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "An interactive 2D floor plan editor.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                 # Start the terminal editor\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -script plan.wp                 # Build a plan from a script, then edit\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -project plans.db -save kitchen # Script or edit, then persist\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -listen :8080 -headless         # Serve plan updates to websocket viewers\n", os.Args[0])
	}
	flag.Parse()

	if err := run(*scriptFile, *listen, *project, *loadID, *saveName, *headless); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(scriptFile, listen, project, loadID, saveName string, headless bool) error {
	ctx := context.Background()
	sess := session.New(plan.DefaultConfig())

	var store *storage.ProjectStore
	if project != "" {
		var err error
		store, err = storage.OpenProjectStore(ctx, project)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	if loadID != "" {
		if store == nil {
			return fmt.Errorf("-load requires -project")
		}
		snap, err := store.Load(ctx, loadID)
		if err != nil {
			return err
		}
		if err := storage.Restore(sess, snap); err != nil {
			return err
		}
	}

	if scriptFile != "" {
		source, err := os.ReadFile(scriptFile)
		if err != nil {
			return err
		}
		engine := script.NewEngine(sess.Service, sess.History, sess.Clear)
		if errs := engine.Run(string(source)); len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintf(os.Stderr, "%s: %v\n", scriptFile, e)
			}
			return fmt.Errorf("script failed with %d error(s)", len(errs))
		}
	}

	if saveName != "" {
		if store == nil {
			return fmt.Errorf("-save requires -project")
		}
		id, err := store.Save(ctx, saveName, storage.Capture(sess))
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	}

	var server *broadcast.Server
	if listen != "" {
		server = broadcast.NewServer(sess)
		defer server.Close()
		mux := http.NewServeMux()
		mux.Handle("/stream", server.Handler())
		go func() {
			if err := http.ListenAndServe(listen, mux); err != nil {
				log.Printf("broadcast server stopped: %v", err)
			}
		}()
	}

	if headless {
		if listen == "" {
			return nil
		}
		select {} // serve until killed
	}

	return runTUI(sess, store)
}
