// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/danielhkuo/ledger-ballot/activity"
	"github.com/danielhkuo/ledger-ballot/models"
	"github.com/danielhkuo/ledger-ballot/recorder"
)

// Resolver is satisfied by *recorder.Recorder.
type Resolver interface {
	ResolvePending(ctx context.Context) (recorder.Summary, error)
}

// Store is the local state audited against the ledger.
type Store interface {
	ListAdmins(ctx context.Context) ([]models.Admin, error)
	CountVoted(ctx context.Context, adminID string) (int, error)
}

// Counter is satisfied by *tally.Engine.
type Counter interface {
	TotalVotes(ctx context.Context, address string) (int, error)
}

// Divergence is an election whose ledger vote count differs from its number
// of flagged voters.
type Divergence struct {
	AdminID     string
	LedgerVotes int
	LocalVoted  int
}

type Report struct {
	Intents  recorder.Summary
	Audited  int
	Diverged []Divergence
}

type Sweeper struct {
	resolver Resolver
	store    Store
	counter  Counter
	activity *activity.Log

	cron   *cron.Cron
	stop   chan struct{}
	cancel context.CancelFunc
	once   sync.Once
	first  sync.WaitGroup
}

func New(resolver Resolver, store Store, counter Counter, log *activity.Log) *Sweeper {
	return &Sweeper{
		resolver: resolver,
		store:    store,
		counter:  counter,
		activity: log,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{}))),
		stop:     make(chan struct{}),
	}
}

// Start runs a pass immediately and then on schedule.
func (s *Sweeper) Start(schedule string) error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	task := func() {
		select {
		case <-s.stop:
			return
		default:
		}
		if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
			slog.Error("reconciliation pass failed", "error", err)
		}
	}

	if _, err := s.cron.AddFunc(schedule, task); err != nil {
		cancel()
		return fmt.Errorf("invalid reconcile schedule %q: %w", schedule, err)
	}

	s.first.Add(1)
	go func() {
		defer s.first.Done()
		task()
	}()
	s.cron.Start()
	slog.Info("reconciliation sweeper started", "schedule", schedule)
	return nil
}

// Stop cancels a running pass and waits for scheduled jobs to finish.
func (s *Sweeper) Stop() {
	s.once.Do(func() {
		close(s.stop)
		if s.cancel != nil {
			s.cancel()
		}
		<-s.cron.Stop().Done()
		s.first.Wait()
	})
}

// RunOnce settles pending vote intents, then compares every open or closed
// election's ledger vote count with its local flags.
func (s *Sweeper) RunOnce(ctx context.Context) (Report, error) {
	var report Report

	sum, err := s.resolver.ResolvePending(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to resolve vote intents: %w", err)
	}
	report.Intents = sum
	if sum != (recorder.Summary{}) {
		slog.Info("vote intents resolved",
			"voted", sum.Voted, "discarded", sum.Discarded, "pending", sum.Pending, "failed", sum.Failed)
	}

	admins, err := s.store.ListAdmins(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list admins: %w", err)
	}

	for _, admin := range admins {
		if admin.CurrentPhase != models.PhaseVoting && admin.CurrentPhase != models.PhaseResult {
			continue
		}
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		d, err := s.audit(ctx, admin)
		if err != nil {
			slog.Warn("failed to audit election", "admin_id", admin.ID, "error", err)
			continue
		}
		report.Audited++
		if d.LedgerVotes != d.LocalVoted {
			report.Diverged = append(report.Diverged, d)
			slog.Warn("ledger and local vote counts differ",
				"admin_id", d.AdminID, "ledger_votes", d.LedgerVotes, "local_voted", d.LocalVoted)
			s.activity.Record(ctx, nil, admin.ID, models.ActionVoteReconciled, models.ActivityFailed, map[string]any{
				"ledgerVotes": d.LedgerVotes,
				"localVoted":  d.LocalVoted,
			})
		}
	}

	return report, nil
}

func (s *Sweeper) audit(ctx context.Context, admin models.Admin) (Divergence, error) {
	ledgerVotes, err := s.counter.TotalVotes(ctx, admin.WalletAddress)
	if err != nil {
		return Divergence{}, err
	}
	voted, err := s.store.CountVoted(ctx, admin.ID)
	if err != nil {
		return Divergence{}, err
	}
	return Divergence{AdminID: admin.ID, LedgerVotes: ledgerVotes, LocalVoted: voted}, nil
}

// cronLogger routes the scheduler's own messages to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
