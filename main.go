// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/ledger-ballot/activity"
	"github.com/danielhkuo/ledger-ballot/cliparse"
	"github.com/danielhkuo/ledger-ballot/db"
	"github.com/danielhkuo/ledger-ballot/handlers"
	"github.com/danielhkuo/ledger-ballot/ledger"
	"github.com/danielhkuo/ledger-ballot/middleware"
	"github.com/danielhkuo/ledger-ballot/reconcile"
	"github.com/danielhkuo/ledger-ballot/router"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Activity log goes to MongoDB when configured, otherwise to the main database
	var sink activity.Sink = activity.NewSQLSink(dbConn)
	if cfg.MongoURL != "" {
		mongoSink, err := activity.NewMongoSink(cfg.MongoURL, cfg.MongoDatabase)
		if err != nil {
			slog.Error("activity log connection failed", "error", err)
			os.Exit(1)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			mongoSink.Close(ctx)
		}()
		sink = mongoSink
		slog.Info("Activity log using MongoDB", "database", cfg.MongoDatabase)
	}
	activityLog := activity.New(sink).HashIPs(cfg.AdminKeySalt)

	network := ledger.NewHorizon(cfg.HorizonURL, cfg.FriendbotURL)
	svc := handlers.NewServices(dbConn, cfg, network, activityLog)

	// Resolve pending vote intents and audit tallies in the background
	sweeper := reconcile.New(svc.Recorder, svc.Store, svc.Tally, activityLog)
	if cfg.ReconcileSchedule != "" {
		if err := sweeper.Start(cfg.ReconcileSchedule); err != nil {
			slog.Error("reconciler failed to start", "error", err)
			os.Exit(1)
		}
	}
	defer sweeper.Stop()

	// Create router
	mux := router.NewRouter(cfg, svc)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "horizon", cfg.HorizonURL, "vote_policy", cfg.VotePolicy)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
