// Package engine drives a resilience simulation: it pops events from a
// time-ordered heap, lets the provisioning algorithm react, and applies
// the result to the network state.
package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/netplan-sim/resilience-sim/sim"
	"github.com/netplan-sim/resilience-sim/sim/algorithm"
	"github.com/netplan-sim/resilience-sim/sim/generator"
	"github.com/netplan-sim/resilience-sim/sim/metrics"
	"github.com/netplan-sim/resilience-sim/sim/trace"
	"github.com/sirupsen/logrus"
)

// Engine owns the event loop of one run.
type Engine struct {
	cfg     Config
	state   *sim.NetState
	gen     generator.EventGenerator
	alg     algorithm.ProvisioningAlgorithm
	events  *EventHeap
	metrics *metrics.Collector
	trace   *trace.SimulationTrace

	runID  string
	clock  float64
	hasRun bool
	acc    accumulator
}

// New creates an Engine over state. Panics if any collaborator is nil.
func New(cfg Config, state *sim.NetState, gen generator.EventGenerator, alg algorithm.ProvisioningAlgorithm) *Engine {
	if state == nil || gen == nil || alg == nil {
		panic("engine: state, generator and algorithm are required")
	}
	runID := uuid.NewString()
	return &Engine{
		cfg:    cfg,
		state:  state,
		gen:    gen,
		alg:    alg,
		events: NewEventHeap(),
		trace:  trace.NewSimulationTrace(trace.TraceConfig{Level: cfg.TraceLevel, RunID: runID}),
		runID:  runID,
		acc:    newAccumulator(),
	}
}

// SetMetrics attaches a collector updated after every event.
func (e *Engine) SetMetrics(c *metrics.Collector) { e.metrics = c }

// Run processes events until the heap is empty or the next event lies past
// the horizon, then returns the run summary. With OnErrorAbort the first
// rejected action ends the run with an error; the partial summary is still
// returned. Panics if called more than once.
func (e *Engine) Run() (*Summary, error) {
	if e.hasRun {
		panic("Engine.Run() called more than once")
	}
	e.hasRun = true
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	plan := e.state.Plan()
	view := e.state.UnmodifiableView()
	logrus.Infof("run %s: %d nodes, %d links, %d SRGs, %d routes, horizon %.1fh",
		e.runID, len(plan.Nodes), len(plan.Links), len(plan.SRGs), e.state.NumRoutes(), e.cfg.HorizonHours)

	if err := e.alg.Initialize(plan, view); err != nil {
		return nil, fmt.Errorf("initializing algorithm: %w", err)
	}
	initial, err := e.gen.Initialize(plan, view)
	if err != nil {
		return nil, fmt.Errorf("initializing generator: %w", err)
	}
	for _, ev := range initial {
		e.events.Schedule(ev)
	}
	if e.metrics != nil {
		e.metrics.Observe(view)
	}
	e.acc.maxBlocked = max(0, view.TotalOfferedTraffic()-view.TotalCarriedTraffic())

	var runErr error
	for {
		next, ok := e.events.Peek()
		if !ok || next.Time > e.cfg.HorizonHours {
			break
		}
		ev, _ := e.events.PopNext()
		if runErr = e.step(plan, view, ev); runErr != nil {
			break
		}
	}

	end := e.cfg.HorizonHours
	if runErr != nil {
		end = e.clock
	}
	e.acc.advance(end, view)
	summary := e.summarize(view, end)
	logrus.Infof("run %s: %d events, %d actions applied, %d invalid, availability %.6f",
		e.runID, summary.EventsProcessed, summary.ActionsApplied, summary.ActionsInvalid, summary.Availability)
	return summary, runErr
}

// step processes a single event.
func (e *Engine) step(plan *sim.NetPlan, view sim.View, ev sim.Event) error {
	e.acc.advance(ev.Time, view)
	e.clock = ev.Time
	rec := trace.StepRecord{Time: ev.Time, Event: string(ev.Type), Target: ev.Target}

	if err := e.describe(view, ev, &rec); err != nil {
		return fmt.Errorf("[t=%.3f] %s: %w", ev.Time, ev, err)
	}

	followUps, err := e.gen.ProcessEvent(plan, view, ev)
	if err != nil {
		return fmt.Errorf("[t=%.3f] generator: %w", ev.Time, err)
	}
	for _, f := range followUps {
		if f.Time < ev.Time {
			return fmt.Errorf("[t=%.3f] generator scheduled %s in the past", ev.Time, f)
		}
		e.events.Schedule(f)
	}

	actions, err := e.alg.ProcessEvent(plan, view, ev)
	if err != nil {
		if !e.cfg.skipInvalid() {
			return fmt.Errorf("[t=%.3f] algorithm: %w", ev.Time, err)
		}
		logrus.Warnf("[t=%010.3f] %s: algorithm failed, no actions: %v", ev.Time, ev, err)
		rec.Error = err.Error()
		actions = nil
	}
	for _, a := range actions {
		rec.Actions = append(rec.Actions, string(a.Kind()))
	}

	applied, invalid, err := e.apply(ev, actions, &rec)
	rec.Applied = len(applied)
	e.acc.record(ev, len(applied), invalid)
	if e.metrics != nil {
		e.metrics.RecordEvent(ev)
		e.metrics.RecordInvalidActions(invalid)
		for _, a := range applied {
			e.metrics.RecordAction(a)
		}
		e.metrics.Observe(view)
	}
	rec.CarriedTraffic = view.TotalCarriedTraffic()
	rec.BlockedTraffic = max(0, view.TotalOfferedTraffic()-rec.CarriedTraffic)
	e.acc.maxBlocked = max(e.acc.maxBlocked, rec.BlockedTraffic)
	e.trace.RecordStep(rec)

	logrus.Debugf("[t=%010.3f] %s: %d/%d actions applied, carried %.3f", ev.Time, ev, len(applied), len(actions), rec.CarriedTraffic)
	return err
}

// describe fills the effect counts of rec.
func (e *Engine) describe(view sim.View, ev sim.Event, rec *trace.StepRecord) error {
	if ev.Type.IsFailure() {
		eff, err := view.FailureEffects(ev)
		if err != nil {
			return err
		}
		rec.Affected, rec.Unrecoverable = len(eff.Affected), len(eff.Unrecoverable)
		return nil
	}
	eff, err := view.ReparationEffects(ev)
	if err != nil {
		return err
	}
	rec.Reparable = len(eff.Reparable)
	return nil
}

// apply runs the transition for ev and returns the actions that took
// effect. Under OnErrorSkip the event is applied on its own and each action
// is tried separately, rejected ones being logged and counted; otherwise the
// batch goes through Update and the first rejection is returned.
func (e *Engine) apply(ev sim.Event, actions []sim.Action, rec *trace.StepRecord) (applied []sim.Action, invalid int, err error) {
	if !e.cfg.skipInvalid() {
		err := e.state.Update(ev, actions)
		if err == nil {
			return actions, 0, nil
		}
		rec.Error = err.Error()
		var actErr *sim.ActionError
		if !errors.As(err, &actErr) {
			return nil, 0, fmt.Errorf("[t=%.3f] %s: %w", ev.Time, ev, err)
		}
		return actions[:actErr.Index], 1, fmt.Errorf("[t=%.3f] %s: %w", ev.Time, ev, err)
	}

	if err := e.state.Update(ev, nil); err != nil {
		return nil, 0, fmt.Errorf("[t=%.3f] %s: %w", ev.Time, ev, err)
	}
	for i, a := range actions {
		if err := e.state.Apply(a); err != nil {
			invalid++
			logrus.Warnf("[t=%010.3f] skipping action %d of %d (%s): %v", ev.Time, i+1, len(actions), a.Kind(), err)
			if rec.Error == "" {
				rec.Error = (&sim.ActionError{Index: i, Total: len(actions), Kind: a.Kind(), Err: err}).Error()
			}
			continue
		}
		applied = append(applied, a)
	}
	return applied, invalid, nil
}

// RunID returns the identifier shared by the summary and the trace.
func (e *Engine) RunID() string { return e.runID }

// Clock returns the time of the last processed event.
func (e *Engine) Clock() float64 { return e.clock }

// State returns a read-only view of the network state.
func (e *Engine) State() sim.View { return e.state.UnmodifiableView() }

// Trace returns the step trace recorded so far.
func (e *Engine) Trace() *trace.SimulationTrace { return e.trace }
