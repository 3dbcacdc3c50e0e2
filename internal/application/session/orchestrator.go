// Package session runs the round loop: ingest the server's events, plan the
// hour's decision, validate it, submit it, and keep a lock-free summary for
// the monitoring surface.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/rotable-go/internal/adapters/api"
	"github.com/andrescamacho/rotable-go/internal/application/horizon"
	"github.com/andrescamacho/rotable-go/internal/application/optimizer"
	"github.com/andrescamacho/rotable-go/internal/application/validator"
	"github.com/andrescamacho/rotable-go/internal/domain/catalog"
	"github.com/andrescamacho/rotable-go/internal/domain/mirror"
	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// APIClient is the evaluation-server surface the orchestrator needs.
type APIClient interface {
	StartSession(ctx context.Context) (string, error)
	PlayRound(ctx context.Context, sessionID string, req *api.RoundRequestDto) (*api.HourResponseDto, error)
	EndSession(ctx context.Context, sessionID string) (*api.HourResponseDto, error)
}

// Optimizer produces the round decision from a mirror snapshot.
type Optimizer interface {
	Optimize(ctx context.Context, snap *mirror.Snapshot, view *horizon.View) (*optimizer.Decision, optimizer.Stats)
}

// History persists round outcomes. Failures are logged, never fatal.
type History interface {
	SaveRound(ctx context.Context, sessionID string, rec *RoundRecord) error
	FinishSession(ctx context.Context, sessionID string, state string, totalCost float64) error
}

// Metrics receives per-round observations.
type Metrics interface {
	ObserveRound(round int, roundCost, totalCost float64, penalties int)
	ObserveOptimizer(seconds float64, generations int, deadlineHit bool)
	ObserveAnomalies(count int)
}

// Config bounds the loop.
type Config struct {
	TotalRounds int
	RoundBudget time.Duration
}

// DefaultConfig plays the full 30-day session with a 5 s round budget.
func DefaultConfig() Config {
	return Config{TotalRounds: shared.TotalRounds, RoundBudget: 5 * time.Second}
}

const historyRingSize = 256

// Orchestrator owns the mirror and drives one session from start to end.
// It is the mirror's single writer; everything the outside world reads comes
// from the atomically swapped Summary or the bounded history ring.
type Orchestrator struct {
	client  APIClient
	cat     *catalog.Catalog
	opt     Optimizer
	hcfg    horizon.Config
	cfg     Config
	clock   shared.Clock
	log     *logrus.Entry
	metrics Metrics
	history History

	stopRequested atomic.Bool
	summary       atomic.Pointer[Summary]

	mu        sync.Mutex
	state     State
	sessionID string
	ring      []RoundRecord

	mirror              *mirror.Mirror
	cumulativeDecisions int
	cumulativePurchases shared.KitVector
}

// New assembles an orchestrator. Metrics and history may be nil.
func New(
	client APIClient,
	cat *catalog.Catalog,
	opt Optimizer,
	hcfg horizon.Config,
	cfg Config,
	clock shared.Clock,
	log *logrus.Entry,
	metrics Metrics,
	history History,
) *Orchestrator {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	o := &Orchestrator{
		client:  client,
		cat:     cat,
		opt:     opt,
		hcfg:    hcfg,
		cfg:     cfg,
		clock:   clock,
		log:     log,
		metrics: metrics,
		history: history,
		state:   Idle,
	}
	o.publish()
	return o
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Stop requests a graceful stop after the current round.
func (o *Orchestrator) Stop() {
	o.stopRequested.Store(true)
}

// Summary returns the latest published summary.
func (o *Orchestrator) Summary() *Summary {
	return o.summary.Load()
}

// History returns up to limit most recent round records, newest last.
func (o *Orchestrator) History(limit int) []RoundRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	if limit <= 0 || limit > len(o.ring) {
		limit = len(o.ring)
	}
	out := make([]RoundRecord, limit)
	copy(out, o.ring[len(o.ring)-limit:])
	return out
}

// Run plays one full session. It returns nil after a natural or operator stop
// and the error that moved the session to FAILED otherwise.
func (o *Orchestrator) Run(ctx context.Context) error {
	if err := o.transition(Starting); err != nil {
		return err
	}

	sessionID, err := o.startWithRecovery(ctx)
	if err != nil {
		return o.fail(ctx, fmt.Errorf("session start: %w", err))
	}
	o.mu.Lock()
	o.sessionID = sessionID
	o.mirror = mirror.New(o.cat)
	o.mu.Unlock()

	if err := o.transition(Running); err != nil {
		return err
	}
	o.log.WithField("sessionId", sessionID).Info("session started")

	for round := 0; round < o.cfg.TotalRounds; round++ {
		if ctx.Err() != nil || o.stopRequested.Load() {
			o.log.WithField("round", round).Info("stop requested")
			break
		}
		if err := o.playRound(ctx, round); err != nil {
			return o.fail(ctx, err)
		}
	}

	if err := o.transition(Stopping); err != nil {
		return err
	}
	final, err := o.client.EndSession(ctx, sessionID)
	if err != nil {
		return o.fail(ctx, fmt.Errorf("session end: %w", err))
	}
	o.archiveFinal(final)

	if o.history != nil {
		if err := o.history.FinishSession(ctx, sessionID, string(Done), o.mirror.TotalCost()); err != nil {
			o.log.WithError(err).Warn("failed to persist session end")
		}
	}
	if err := o.transition(Done); err != nil {
		return err
	}
	o.log.WithField("totalCost", o.mirror.TotalCost()).Info("session finished")
	return nil
}

// playRound runs one complete tick: plan, validate, commit, submit, ingest.
func (o *Orchestrator) playRound(ctx context.Context, round int) error {
	started := o.clock.Now()
	m := o.mirror
	now := m.CurrentHour()

	snap := m.Snapshot()
	view := horizon.Build(snap, o.cat, o.hcfg)

	optStart := o.clock.Now()
	decision, stats := o.opt.Optimize(ctx, snap, view)
	optElapsed := o.clock.Now().Sub(optStart)
	if o.metrics != nil {
		o.metrics.ObserveOptimizer(optElapsed.Seconds(), stats.Generations, stats.DeadlineHit)
	}
	if stats.DeadlineHit {
		o.log.WithFields(logrus.Fields{"round": round, "hour": now}).Warn("optimizer deadline fired, submitting incumbent")
	}

	report := validator.Check(decision, snap, o.cat)
	for _, w := range report.Warnings {
		o.log.WithField("round", round).Warn(w)
	}
	if !report.OK() {
		return fmt.Errorf("round %d validation: %s", round, report.Errors[0])
	}

	ids := make([]string, 0, len(decision.Loads))
	for id := range decision.Loads {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	req := &api.RoundRequestDto{
		Day:                 now.Day(),
		Hour:                now.HourOfDay(),
		FlightLoads:         make([]api.FlightLoadDto, 0, len(ids)),
		KitPurchasingOrders: api.KitSetOf(decision.Purchase),
	}
	for _, id := range ids {
		kits := decision.Loads[id]
		m.CommitLoad(id, kits)
		req.FlightLoads = append(req.FlightLoads, api.FlightLoadDto{
			FlightID:   id,
			LoadedKits: api.KitSetOf(kits),
		})
		if !kits.IsZero() {
			o.cumulativeDecisions++
		}
	}
	if !decision.Purchase.IsZero() {
		m.CommitPurchase(decision.Purchase)
		o.cumulativePurchases = o.cumulativePurchases.Add(decision.Purchase)
	}

	resp, err := o.client.PlayRound(ctx, o.sessionID, req)
	if err != nil {
		return fmt.Errorf("round %d: %w", round, err)
	}
	events, err := resp.Events()
	if err != nil {
		return fmt.Errorf("round %d: %w", round, err)
	}

	prevCost := m.TotalCost()
	m.IngestRound(resp.ServerHour(), events, resp.DomainPenalties(), resp.TotalCost)
	roundCost := resp.TotalCost - prevCost

	rec := RoundRecord{
		Round:          round,
		Time:           o.clock.Now(),
		Loads:          decision.Loads,
		Purchases:      decision.Purchase,
		RoundTotalCost: roundCost,
		Penalties:      resp.DomainPenalties(),
		OptimizerMs:    optElapsed.Milliseconds(),
		Generations:    stats.Generations,
	}
	o.appendRecord(rec)
	if o.history != nil {
		if err := o.history.SaveRound(ctx, o.sessionID, &rec); err != nil {
			o.log.WithError(err).WithField("round", round).Warn("failed to persist round")
		}
	}
	if o.metrics != nil {
		o.metrics.ObserveRound(round, roundCost, resp.TotalCost, len(resp.Penalties))
		o.metrics.ObserveAnomalies(len(m.Anomalies()))
	}
	o.publish()

	if elapsed := o.clock.Now().Sub(started); elapsed > o.cfg.RoundBudget {
		o.log.WithFields(logrus.Fields{
			"round":   round,
			"elapsed": elapsed,
			"budget":  o.cfg.RoundBudget,
		}).Warn("round exceeded its budget")
	}
	return nil
}

// startWithRecovery opens a session, clearing a stale one left behind by a
// previous run when the server answers 409.
func (o *Orchestrator) startWithRecovery(ctx context.Context) (string, error) {
	id, err := o.client.StartSession(ctx)
	if err == nil {
		return id, nil
	}
	var perr *shared.ProtocolError
	if errors.As(err, &perr) && perr.StatusCode == 409 {
		o.log.Warn("stale session still active, ending it before retrying")
		if _, endErr := o.client.EndSession(ctx, ""); endErr != nil {
			o.log.WithError(endErr).Warn("failed to end stale session")
		}
		return o.client.StartSession(ctx)
	}
	return "", err
}

// archiveFinal folds the end-of-session response into the mirror so the final
// penalties and total cost are visible in the summary.
func (o *Orchestrator) archiveFinal(final *api.HourResponseDto) {
	events, err := final.Events()
	if err != nil {
		o.log.WithError(err).Warn("unparsable final response events")
		events = nil
	}
	o.mirror.IngestRound(final.ServerHour(), events, final.DomainPenalties(), final.TotalCost)
	o.publish()
}

// fail transitions to FAILED, ending the session best-effort first so the
// server does not keep charging the early-stop multiplier onto a dead run.
func (o *Orchestrator) fail(ctx context.Context, cause error) error {
	o.log.WithError(cause).Error("session failed")
	o.mu.Lock()
	sessionID := o.sessionID
	o.mu.Unlock()
	if sessionID != "" {
		if _, err := o.client.EndSession(ctx, sessionID); err != nil {
			o.log.WithError(err).Warn("failed to end session during failure handling")
		}
		if o.history != nil {
			totalCost := 0.0
			if o.mirror != nil {
				totalCost = o.mirror.TotalCost()
			}
			if err := o.history.FinishSession(ctx, sessionID, string(Failed), totalCost); err != nil {
				o.log.WithError(err).Warn("failed to persist session failure")
			}
		}
	}
	if err := o.transition(Failed); err != nil {
		o.log.WithError(err).Warn("failure transition rejected")
	}
	return cause
}

func (o *Orchestrator) transition(to State) error {
	o.mu.Lock()
	from := o.state
	if !canTransition(from, to) {
		o.mu.Unlock()
		return transitionError(from, to)
	}
	o.state = to
	o.mu.Unlock()
	o.publish()
	return nil
}

func (o *Orchestrator) appendRecord(rec RoundRecord) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ring = append(o.ring, rec)
	if len(o.ring) > historyRingSize {
		o.ring = o.ring[len(o.ring)-historyRingSize:]
	}
}

// publish swaps a fresh immutable summary into the atomic slot.
func (o *Orchestrator) publish() {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := &Summary{
		State:               o.state,
		SessionID:           o.sessionID,
		CumulativeDecisions: o.cumulativeDecisions,
		CumulativePurchases: o.cumulativePurchases,
		UpdatedAt:           o.clock.Now(),
	}
	if o.mirror != nil {
		now := o.mirror.CurrentHour()
		s.Round = int(now)
		s.Day = now.Day()
		s.Hour = now.HourOfDay()
		s.TotalCost = o.mirror.TotalCost()
		s.Inventories = o.mirror.Inventories()
		s.RecentPenalties = o.mirror.RecentPenalties(10)
		s.Anomalies = o.mirror.Anomalies()
	}
	o.summary.Store(s)
}
