package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/brainbolt/backend/internal/catalog"
	"github.com/brainbolt/backend/internal/estimator"
	"github.com/brainbolt/backend/internal/idempotency"
	"github.com/brainbolt/backend/internal/leaderboard"
	"github.com/brainbolt/backend/internal/logger"
	"github.com/brainbolt/backend/internal/metrics"
	"github.com/brainbolt/backend/internal/models"
	"github.com/brainbolt/backend/internal/ratelimit"
	"github.com/brainbolt/backend/internal/state"
)

type Options struct {
	InactivityDecay     bool
	InactivityThreshold time.Duration

	// EstimatorTimeout bounds each estimator call.
	EstimatorTimeout time.Duration

	// IdempotencyWait bounds how long a submission waits on another
	// in-flight submission holding the same key.
	IdempotencyWait time.Duration
	PollInterval    time.Duration

	// NextItemRetries is how often GetNextItem retries its own
	// bookkeeping write after a conflict.
	NextItemRetries int
}

const recordAttempts = 3

func DefaultOptions() Options {
	return Options{
		InactivityThreshold: 30 * time.Minute,
		EstimatorTimeout:    300 * time.Millisecond,
		IdempotencyWait:     2 * time.Second,
		PollInterval:        25 * time.Millisecond,
		NextItemRetries:     3,
	}
}

// Deps are the engine's collaborators. Estimator may be nil.
type Deps struct {
	Catalog     catalog.Provider
	States      state.Store
	Limiter     ratelimit.Limiter
	Idempotency idempotency.Cache
	Leaderboard leaderboard.Projection
	Estimator   estimator.Estimator
	Logger      *logger.Logger
	Metrics     metrics.Recorder
}

type Engine struct {
	catalog catalog.Provider
	states  state.Store
	limiter ratelimit.Limiter
	idem    idempotency.Cache
	board   leaderboard.Projection
	est     estimator.Estimator
	log     *logger.Logger
	metrics metrics.Recorder

	opts   Options
	now    func() time.Time
	rng    Rand
	flight singleflight.Group
}

func New(d Deps, opts Options) *Engine {
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.Nop()
	}
	def := DefaultOptions()
	if opts.InactivityThreshold <= 0 {
		opts.InactivityThreshold = def.InactivityThreshold
	}
	if opts.EstimatorTimeout <= 0 {
		opts.EstimatorTimeout = def.EstimatorTimeout
	}
	if opts.IdempotencyWait <= 0 {
		opts.IdempotencyWait = def.IdempotencyWait
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = def.PollInterval
	}
	if opts.NextItemRetries < 0 {
		opts.NextItemRetries = 0
	}
	return &Engine{
		catalog: d.Catalog,
		states:  d.States,
		limiter: d.Limiter,
		idem:    d.Idempotency,
		board:   d.Leaderboard,
		est:     d.Estimator,
		log:     d.Logger,
		metrics: d.Metrics,
		opts:    opts,
		now:     time.Now,
		rng:     NewRand(time.Now().UnixNano()),
	}
}

func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

func (e *Engine) WithRand(r Rand) *Engine {
	e.rng = r
	return e
}

// ── Next Item ───────────────────────────────────────────

type NextItem struct {
	Item    models.PublicItem
	State   models.PublicState
	Version int64
}

// GetNextItem selects the caller's next item and commits the serving
// bookkeeping (last item, served set, inactivity decay).
func (e *Engine) GetNextItem(ctx context.Context, identity string) (NextItem, error) {
	if identity == "" {
		return NextItem{}, ErrInvalidIdentity
	}
	items := e.catalog.AllItems()

	var lastConflict *VersionConflictError
	for attempt := 0; attempt <= e.opts.NextItemRetries; attempt++ {
		cur, version, err := e.states.Load(ctx, identity)
		if err != nil {
			e.metrics.NextItem(metrics.OutcomeError)
			return NextItem{}, fmt.Errorf("load state: %w", err)
		}

		next := cur.Clone()
		if e.opts.InactivityDecay && ApplyInactivityDecay(&next, e.now(), e.opts.InactivityThreshold) {
			e.log.Info("inactivity decay applied", "identity", identity, "streak", next.Streak, "confidence", next.Confidence)
		}

		sel, err := SelectItem(items, next, e.rng)
		if err != nil {
			e.metrics.NextItem(metrics.OutcomeExhausted)
			e.log.Error("no items available", "identity", identity, "difficulty", next.Difficulty)
			return NextItem{}, err
		}
		if sel.CycleReset {
			next.AnsweredItemIDs = nil
		}
		next.MarkAnswered(sel.Item.ID)
		next.LastItemID = sel.Item.ID

		newVersion, err := e.states.CompareAndSwap(ctx, identity, version, next)
		if err != nil {
			if conflict, ok := conflictFrom(err); ok {
				lastConflict = conflict
				continue
			}
			e.metrics.NextItem(metrics.OutcomeError)
			return NextItem{}, fmt.Errorf("save state: %w", err)
		}

		e.metrics.NextItem(metrics.OutcomeServed)
		return NextItem{
			Item:    sel.Item.Public(),
			State:   next.Public(),
			Version: newVersion,
		}, nil
	}

	e.metrics.NextItem(metrics.OutcomeConflict)
	return NextItem{}, lastConflict
}

// ── Submit Answer ───────────────────────────────────────

type SubmitRequest struct {
	Identity        string
	ItemID          string
	ChoiceIndex     int
	IdempotencyKey  string
	ExpectedVersion *int64
}

// SubmitAnswer processes one answer. A repeated (identity, key) pair
// replays the first result without mutating anything.
func (e *Engine) SubmitAnswer(ctx context.Context, req SubmitRequest) (models.SubmitOutcome, error) {
	defer e.metrics.SubmitTimer()()

	if req.Identity == "" {
		return models.SubmitOutcome{}, ErrInvalidIdentity
	}
	if req.IdempotencyKey == "" {
		return e.observe(e.admitAndCommit(ctx, req))
	}

	scoped := req.Identity + ":" + req.IdempotencyKey
	leader := false
	v, err, _ := e.flight.Do(scoped, func() (interface{}, error) {
		leader = true
		return e.submitOnce(ctx, req, scoped)
	})
	if err != nil {
		return e.observe(models.SubmitOutcome{}, err)
	}

	out := v.(models.SubmitOutcome)
	if !leader {
		out.Idempotent = true
		out.RateRemaining = -1
	}
	return e.observe(out, nil)
}

func (e *Engine) submitOnce(ctx context.Context, req SubmitRequest, scoped string) (models.SubmitOutcome, error) {
	if res, ok, err := e.idem.Lookup(ctx, scoped); err != nil {
		return models.SubmitOutcome{}, fmt.Errorf("idempotency lookup: %w", err)
	} else if ok {
		return replay(res), nil
	}

	remaining, err := e.admit(ctx, req.Identity)
	if err != nil {
		return models.SubmitOutcome{}, err
	}

	res, replayed, err := e.claim(ctx, scoped)
	if err != nil {
		return models.SubmitOutcome{}, err
	}
	if replayed {
		return replay(res), nil
	}

	out, err := e.commit(ctx, req)
	if err != nil {
		if rerr := e.idem.Release(ctx, scoped); rerr != nil {
			e.log.Error("idempotency release failed", "identity", req.Identity, "error", rerr)
		}
		return models.SubmitOutcome{}, err
	}
	out.RateRemaining = remaining

	if err := e.record(ctx, scoped, out.Result); err != nil {
		// The claim stays pending so retries wait instead of committing again.
		e.log.Error("idempotency record failed", "identity", req.Identity, "version", out.Result.Version, "error", err)
	}
	return out, nil
}

// record stores the committed result, retrying with backoff. The state
// has already changed, so a cancelled caller does not abort the write.
func (e *Engine) record(ctx context.Context, scoped string, res models.AnswerResult) error {
	ctx = context.WithoutCancel(ctx)
	backoff := e.opts.PollInterval

	var err error
	for attempt := 0; attempt < recordAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}
		if err = e.idem.Record(ctx, scoped, res); err == nil {
			return nil
		}
		e.log.Warn("idempotency record retry", "attempt", attempt+1, "error", err)
	}
	return err
}

func (e *Engine) admitAndCommit(ctx context.Context, req SubmitRequest) (models.SubmitOutcome, error) {
	remaining, err := e.admit(ctx, req.Identity)
	if err != nil {
		return models.SubmitOutcome{}, err
	}
	out, err := e.commit(ctx, req)
	if err != nil {
		return models.SubmitOutcome{}, err
	}
	out.RateRemaining = remaining
	return out, nil
}

func (e *Engine) admit(ctx context.Context, identity string) (int, error) {
	d, err := e.limiter.Admit(ctx, identity)
	if err != nil {
		return 0, fmt.Errorf("rate limit: %w", err)
	}
	if !d.Allowed {
		return 0, &RateLimitedError{RetryAfterSeconds: d.RetryAfterSeconds()}
	}
	return d.Remaining, nil
}

// claim reserves scoped for this submission. If another submission holds
// it, claim polls until that one records a result (returned as a replay),
// releases the key (claimed here instead), or the wait bound passes.
func (e *Engine) claim(ctx context.Context, scoped string) (models.AnswerResult, bool, error) {
	deadline := time.NewTimer(e.opts.IdempotencyWait)
	defer deadline.Stop()
	ticker := time.NewTicker(e.opts.PollInterval)
	defer ticker.Stop()

	for {
		ok, err := e.idem.Reserve(ctx, scoped)
		if err != nil {
			return models.AnswerResult{}, false, fmt.Errorf("idempotency reserve: %w", err)
		}
		if ok {
			return models.AnswerResult{}, false, nil
		}

		select {
		case <-ctx.Done():
			return models.AnswerResult{}, false, ctx.Err()
		case <-deadline.C:
			return models.AnswerResult{}, false, ErrSubmissionInFlight
		case <-ticker.C:
		}

		res, found, err := e.idem.Lookup(ctx, scoped)
		if err != nil {
			return models.AnswerResult{}, false, fmt.Errorf("idempotency lookup: %w", err)
		}
		if found {
			return res, true, nil
		}
	}
}

// commit is the answer-processing transaction: validate, transition,
// swap, then project. Nothing is written unless the swap succeeds.
func (e *Engine) commit(ctx context.Context, req SubmitRequest) (models.SubmitOutcome, error) {
	item, ok := e.catalog.ItemByID(req.ItemID)
	if !ok {
		return models.SubmitOutcome{}, ErrItemNotFound
	}
	if !item.ValidChoice(req.ChoiceIndex) {
		return models.SubmitOutcome{}, ErrInvalidChoice
	}

	cur, version, err := e.states.Load(ctx, req.Identity)
	if err != nil {
		return models.SubmitOutcome{}, fmt.Errorf("load state: %w", err)
	}
	if req.ExpectedVersion != nil && *req.ExpectedVersion != version {
		return models.SubmitOutcome{}, &VersionConflictError{Current: version}
	}

	correct := req.ChoiceIndex == item.CorrectIndex
	next, delta := ApplyAnswer(cur, correct)
	now := e.now()
	next.AnswerCount++
	next.MarkAnswered(item.ID)
	next.LastAnswerAt = &now

	if correct {
		if override, ok := e.estimate(ctx, req.Identity, item, next); ok {
			next.TotalScore += override - delta
			delta = override
		}
	}

	newVersion, err := e.states.CompareAndSwap(ctx, req.Identity, version, next)
	if err != nil {
		if conflict, ok := conflictFrom(err); ok {
			return models.SubmitOutcome{}, conflict
		}
		return models.SubmitOutcome{}, fmt.Errorf("save state: %w", err)
	}

	if err := e.board.Update(ctx, req.Identity, next.TotalScore, next.MaxStreak); err != nil {
		e.log.Error("leaderboard update failed", "identity", req.Identity, "version", newVersion, "error", err)
	}

	e.log.Info("answer committed",
		"identity", req.Identity,
		"item", item.ID,
		"correct", correct,
		"difficulty", next.Difficulty,
		"confidence", next.Confidence,
		"streak", next.Streak,
		"score_delta", delta,
		"version", newVersion,
	)

	return models.SubmitOutcome{
		Result: models.AnswerResult{
			Correct:            correct,
			CorrectChoiceIndex: item.CorrectIndex,
			ScoreDelta:         delta,
			State:              next.Public(),
			Version:            newVersion,
		},
	}, nil
}

// estimate asks the optional estimator for a score override. Any failure
// falls back silently to the formula.
func (e *Engine) estimate(ctx context.Context, identity string, item models.Item, next models.AdaptiveState) (float64, bool) {
	if e.est == nil {
		return 0, false
	}
	ctx, cancel := context.WithTimeout(ctx, e.opts.EstimatorTimeout)
	defer cancel()

	override, err := e.est.Estimate(ctx, estimator.Request{
		Identity:       identity,
		Difficulty:     item.Difficulty,
		Correct:        true,
		Streak:         next.Streak,
		TotalAnswers:   next.AnswerCount,
		RecentOutcomes: next.RecentOutcomes,
	})
	if err != nil {
		e.metrics.EstimatorFallback()
		e.log.Warn("estimator fallback", "identity", identity, "error", err)
		return 0, false
	}
	return override, true
}

func replay(res models.AnswerResult) models.SubmitOutcome {
	return models.SubmitOutcome{Result: res, Idempotent: true, RateRemaining: -1}
}

func (e *Engine) observe(out models.SubmitOutcome, err error) (models.SubmitOutcome, error) {
	switch {
	case err == nil && out.Idempotent:
		e.metrics.Answer(metrics.OutcomeReplay)
	case err == nil && out.Result.Correct:
		e.metrics.Answer(metrics.OutcomeCorrect)
	case err == nil:
		e.metrics.Answer(metrics.OutcomeIncorrect)
	case errors.Is(err, ErrVersionConflict):
		e.metrics.Answer(metrics.OutcomeConflict)
	case errors.Is(err, ErrRateLimited):
		e.metrics.Answer(metrics.OutcomeRateLimited)
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrInvalidChoice):
		e.metrics.Answer(metrics.OutcomeInvalid)
	case errors.Is(err, ErrSubmissionInFlight):
		e.metrics.Answer(metrics.OutcomeInFlight)
	default:
		e.metrics.Answer(metrics.OutcomeError)
	}
	return out, err
}
