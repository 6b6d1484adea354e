package coordination

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/errors"
	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/event"
	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/identity"
	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/ledger"
	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/logging"
	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/policy"
	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/telemetry"
)

// Coordinator orchestrates work item lifecycle operations against a ledger
// store. It is safe for concurrent use; all shared state lives in the store.
type Coordinator struct {
	store    ledger.Store
	recorder telemetry.Recorder
	bus      *event.Bus
	logger   *logging.Logger
	cfg      coordinatorConfig
}

// NewCoordinator creates a Coordinator. The store is required; recorder,
// bus, and logger may be nil, in which case telemetry, events, and logging
// are disabled respectively.
func NewCoordinator(store ledger.Store, recorder telemetry.Recorder, bus *event.Bus, logger *logging.Logger, opts ...Option) *Coordinator {
	if recorder == nil {
		recorder = telemetry.NopRecorder{}
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Coordinator{
		store:    store,
		recorder: recorder,
		bus:      bus,
		logger:   logger,
		cfg:      newCoordinatorConfig(opts),
	}
}

// ClaimRequest describes a claim attempt.
type ClaimRequest struct {
	// WorkType groups items subject to the conflict policy.
	WorkType string

	// Description is free-form text describing the work.
	Description string

	// Priority determines exclusivity; high and critical work types admit
	// at most one active claim.
	Priority ledger.Priority

	// AgentID is the claiming agent, recorded as claimed_by.
	AgentID string

	// Team is the claiming agent's team, carried into telemetry tags.
	Team string

	// TraceID lets callers participating in a larger distributed trace
	// supply their own correlation token. When empty, a fresh trace ID is
	// generated at claim time. Either way it is immutable afterward.
	TraceID string
}

// Claim attempts to add a new claimed work item to the ledger.
//
// The candidate is evaluated against the snapshot by the conflict policy;
// an inadmissible claim returns errors.ErrConflict immediately without
// retrying. A stale commit is retried from a fresh snapshot with backoff;
// errors.ErrRetryExhausted is returned when attempts run out. Storage
// failures propagate unwrapped by retries.
func (c *Coordinator) Claim(ctx context.Context, req ClaimRequest) (*ledger.WorkItem, error) {
	if req.WorkType == "" {
		return nil, errors.New("work_type must not be empty")
	}
	if !req.Priority.Valid() {
		return nil, errors.New("unknown priority " + strconv.Quote(req.Priority.String()))
	}

	// Identity is fixed before the retry loop so a claim that races keeps
	// the same work_item_id and trace_id on every attempt.
	now := time.Now()
	candidate := ledger.WorkItem{
		WorkItemID:     identity.NewWithPrefix("work"),
		WorkType:       req.WorkType,
		Description:    req.Description,
		Priority:       req.Priority,
		Status:         ledger.StatusClaimed,
		ClaimedBy:      req.AgentID,
		ClaimedAt:      &now,
		TraceID:        req.TraceID,
		CoordinationID: identity.NewWithPrefix("coord"),
	}
	if candidate.TraceID == "" {
		candidate.TraceID = identity.NewWithPrefix("trace")
	}

	log := c.logger.WithOperation("claim").WithTrace(candidate.TraceID)

	var lastErr error
	for attempt := 1; attempt <= c.cfg.maxAttempts; attempt++ {
		snap, version, err := c.store.Snapshot()
		if err != nil {
			return nil, err
		}

		if err := policy.Admit(snap, candidate); err != nil {
			log.Info("claim rejected by conflict policy",
				"work_type", req.WorkType, "priority", req.Priority.String())
			return nil, err
		}

		snap.Append(candidate)
		err = c.store.CommitIfUnchanged(version, snap)
		if err == nil {
			committed := candidate.Clone()
			log.Info("work item claimed",
				"work_item_id", committed.WorkItemID,
				"work_type", committed.WorkType,
				"agent_id", committed.ClaimedBy,
				"attempt", attempt)
			c.emit(committed.TraceID, "claim", map[string]string{
				"work_item_id": committed.WorkItemID,
				"work_type":    committed.WorkType,
				"priority":     committed.Priority.String(),
				"agent_id":     committed.ClaimedBy,
				"team":         req.Team,
			})
			c.publish(event.NewWorkClaimedEvent(
				committed.WorkItemID, committed.WorkType,
				committed.Priority.String(), committed.ClaimedBy, committed.TraceID))
			return &committed, nil
		}

		if !errors.IsRetryable(err) {
			return nil, err
		}
		lastErr = err
		log.Debug("stale snapshot, retrying claim", "attempt", attempt)
		if err := c.backoff(ctx, attempt); err != nil {
			return nil, err
		}
	}

	return nil, errors.NewCoordinationError("claim did not commit", errors.Join(errors.ErrRetryExhausted, lastErr)).
		WithWorkType(req.WorkType).
		WithTraceID(candidate.TraceID).
		WithAttempts(c.cfg.maxAttempts)
}

// Progress records a progress update on a claimed or in-progress item,
// transitioning it to in_progress and appending an audit note. It is
// idempotent: repeating an update changes no state other than the audit
// trail. Trace ID, claimant, and priority are never altered here, and this
// layer does not restrict which agent may report progress.
func (c *Coordinator) Progress(ctx context.Context, workItemID string, percent int, note string) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	return c.mutate(ctx, workItemID, "progress", func(item *ledger.WorkItem) error {
		if item.Status.IsTerminal() {
			return errors.Wrapf(errors.ErrInvalidTransition,
				"work item %s is %s", item.WorkItemID, item.Status)
		}
		item.Status = ledger.StatusInProgress
		item.Progress = percent
		item.Notes = append(item.Notes, ledger.AuditNote{
			At:      time.Now(),
			Percent: percent,
			Note:    note,
		})
		return nil
	}, func(item ledger.WorkItem) {
		c.emit(item.TraceID, "progress", map[string]string{
			"work_item_id": item.WorkItemID,
			"percent":      strconv.Itoa(percent),
		})
		c.publish(event.NewWorkProgressedEvent(item.WorkItemID, percent, note, item.TraceID))
	})
}

// Complete transitions an item to completed, recording the result and
// score. The telemetry span carries the trace ID established at claim time.
func (c *Coordinator) Complete(ctx context.Context, workItemID string, result string, score int) error {
	return c.mutate(ctx, workItemID, "complete", func(item *ledger.WorkItem) error {
		if !item.Status.CanTransitionTo(ledger.StatusCompleted) {
			return errors.Wrapf(errors.ErrInvalidTransition,
				"cannot complete work item %s in status %s", item.WorkItemID, item.Status)
		}
		now := time.Now()
		item.Status = ledger.StatusCompleted
		item.CompletedAt = &now
		item.Result = result
		item.Score = score
		item.Progress = 100
		return nil
	}, func(item ledger.WorkItem) {
		c.emit(item.TraceID, "complete", map[string]string{
			"work_item_id": item.WorkItemID,
			"score":        strconv.Itoa(score),
		})
		c.publish(event.NewWorkCompletedEvent(item.WorkItemID, result, score, item.TraceID))
	})
}

// Fail transitions an item to the terminal failed state. This is the only
// way a claim is abandoned; no agent's in-flight operation is ever
// interrupted. The telemetry span carries the original trace ID.
func (c *Coordinator) Fail(ctx context.Context, workItemID string, reason string) error {
	return c.mutate(ctx, workItemID, "fail", func(item *ledger.WorkItem) error {
		if !item.Status.CanTransitionTo(ledger.StatusFailed) {
			return errors.Wrapf(errors.ErrInvalidTransition,
				"cannot fail work item %s in status %s", item.WorkItemID, item.Status)
		}
		now := time.Now()
		item.Status = ledger.StatusFailed
		item.CompletedAt = &now
		item.Result = reason
		return nil
	}, func(item ledger.WorkItem) {
		c.emit(item.TraceID, "fail", map[string]string{
			"work_item_id": item.WorkItemID,
			"reason":       reason,
		})
		c.publish(event.NewWorkFailedEvent(item.WorkItemID, reason, item.TraceID))
	})
}

// ReleaseStale returns items claimed before the cutoff that never reported
// progress back to pending, clearing the claimant. Used to recover claims
// held by agents that died. Returns the IDs of released items.
func (c *Coordinator) ReleaseStale(ctx context.Context, cutoff time.Time) ([]string, error) {
	var released []string
	var lastErr error

	for attempt := 1; attempt <= c.cfg.maxAttempts; attempt++ {
		snap, version, err := c.store.Snapshot()
		if err != nil {
			return nil, err
		}

		ids := snap.StaleClaims(cutoff)
		if len(ids) == 0 {
			return nil, nil
		}
		for _, id := range ids {
			item := snap.Find(id)
			item.Status = ledger.StatusPending
			item.ClaimedBy = ""
			item.ClaimedAt = nil
		}

		err = c.store.CommitIfUnchanged(version, snap)
		if err == nil {
			released = ids
			c.logger.WithOperation("release_stale").Info("released stale claims",
				"count", len(released))
			return released, nil
		}
		if !errors.IsRetryable(err) {
			return nil, err
		}
		lastErr = err
		if err := c.backoff(ctx, attempt); err != nil {
			return nil, err
		}
	}

	return nil, errors.NewCoordinationError("stale release did not commit",
		errors.Join(errors.ErrRetryExhausted, lastErr)).WithAttempts(c.cfg.maxAttempts)
}

// Get returns a copy of the work item with the given ID.
func (c *Coordinator) Get(workItemID string) (*ledger.WorkItem, error) {
	snap, _, err := c.store.Snapshot()
	if err != nil {
		return nil, err
	}
	item := snap.Find(workItemID)
	if item == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "work item %s", workItemID)
	}
	cp := item.Clone()
	return &cp, nil
}

// List returns a copy of every work item in ledger order.
func (c *Coordinator) List() ([]ledger.WorkItem, error) {
	snap, _, err := c.store.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Clone().Items, nil
}

// Status returns ledger state counts for reporting.
func (c *Coordinator) Status() (ledger.Counts, error) {
	snap, _, err := c.store.Snapshot()
	if err != nil {
		return ledger.Counts{}, err
	}
	return snap.Counts(), nil
}

// mutate runs the shared snapshot-mutate-commit loop for operations on an
// existing item. apply mutates the item in the cloned snapshot; onCommit
// receives a copy of the committed item for telemetry and events.
func (c *Coordinator) mutate(ctx context.Context, workItemID, operation string, apply func(*ledger.WorkItem) error, onCommit func(ledger.WorkItem)) error {
	log := c.logger.WithOperation(operation)

	var lastErr error
	for attempt := 1; attempt <= c.cfg.maxAttempts; attempt++ {
		snap, version, err := c.store.Snapshot()
		if err != nil {
			return err
		}

		item := snap.Find(workItemID)
		if item == nil {
			return errors.Wrapf(errors.ErrNotFound, "work item %s", workItemID)
		}
		if err := apply(item); err != nil {
			return err
		}

		err = c.store.CommitIfUnchanged(version, snap)
		if err == nil {
			committed := item.Clone()
			log.WithTrace(committed.TraceID).Info("work item updated",
				"work_item_id", committed.WorkItemID,
				"status", committed.Status.String(),
				"attempt", attempt)
			onCommit(committed)
			return nil
		}

		if !errors.IsRetryable(err) {
			return err
		}
		lastErr = err
		log.Debug("stale snapshot, retrying", "work_item_id", workItemID, "attempt", attempt)
		if err := c.backoff(ctx, attempt); err != nil {
			return err
		}
	}

	return errors.NewCoordinationError(operation+" did not commit",
		errors.Join(errors.ErrRetryExhausted, lastErr)).
		WithWorkItemID(workItemID).
		WithAttempts(c.cfg.maxAttempts)
}

// backoff sleeps for a randomized exponential delay, honoring context
// cancellation. attempt is 1-based.
func (c *Coordinator) backoff(ctx context.Context, attempt int) error {
	d := c.cfg.backoffBase << (attempt - 1)
	if d > c.cfg.backoffMax {
		d = c.cfg.backoffMax
	}
	// Full jitter keeps racing agents from retrying in lockstep.
	d = time.Duration(rand.Int63n(int64(d)) + 1)

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// emit sends a telemetry span; the recorder swallows its own failures.
func (c *Coordinator) emit(traceID, operation string, tags map[string]string) {
	c.recorder.Emit(telemetry.NewSpan(traceID, operation, telemetry.StatusOK, tags))
}

// publish sends a bus event if a bus is attached.
func (c *Coordinator) publish(e event.Event) {
	if c.bus != nil {
		c.bus.Publish(e)
	}
}
