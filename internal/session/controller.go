// Package session keeps the suggestion and insight state of one signed-in
// dashboard session and sequences user actions against the Backend.
package session

import (
	"context"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/nutrifit/nutrifit-backend/internal/insights/dto"
	"github.com/nutrifit/nutrifit-backend/internal/logger"
	"github.com/nutrifit/nutrifit-backend/internal/suggestion"
)

const defaultTimeFrame = "week"

// Busy holds the per-operation in-flight flags. Each flag gates only its own
// operation.
type Busy struct {
	Quick             bool `json:"quick"`
	Custom            bool `json:"custom"`
	Clearing          bool `json:"clearing"`
	GeneratingInsight bool `json:"generatingInsight"`
}

// Snapshot is a copy of the controller state handed to observers.
type Snapshot struct {
	Current    *suggestion.DisplayState `json:"current"`
	Latest     *suggestion.DisplayState `json:"latest"`
	Active     *suggestion.DisplayState `json:"active"`
	Insights   []dto.Insight            `json:"insights"`
	Busy       Busy                     `json:"busy"`
	EditorOpen bool                     `json:"editorOpen"`
}

// Observer is called after every state change. It runs outside the
// controller lock and may call back into the controller.
type Observer func(Snapshot)

type Option func(*Controller)

func WithObserver(fn Observer) Option {
	return func(c *Controller) { c.observer = fn }
}

// FetchOptions tunes FetchLatest.
type FetchOptions struct {
	// Suppress hides failure notices. Used when the fetch is a side effect
	// of another operation rather than a user action.
	Suppress bool
}

// Controller owns the session state. Display states it hands out are shared
// and must not be modified by callers.
type Controller struct {
	backend  Backend
	creds    Credentials
	observer Observer

	mu         sync.Mutex
	latest     *suggestion.DisplayState
	active     *suggestion.DisplayState
	insights   []dto.Insight
	busy       Busy
	editorOpen bool
	// epoch advances on Reset; results of calls started earlier are dropped.
	epoch uint64

	background sync.WaitGroup
}

func New(backend Backend, creds Credentials, opts ...Option) *Controller {
	c := &Controller{backend: backend, creds: creds}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Current returns the suggestion to show: the active one, else the latest.
func (c *Controller) Current() *suggestion.DisplayState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current()
}

func (c *Controller) current() *suggestion.DisplayState {
	if c.active != nil {
		return c.active
	}
	return c.latest
}

func (c *Controller) Latest() *suggestion.DisplayState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest
}

func (c *Controller) Active() *suggestion.DisplayState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *Controller) Busy() Busy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *Controller) Insights() []dto.Insight {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.insights)
}

func (c *Controller) EditorOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editorOpen
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() Snapshot {
	return Snapshot{
		Current:    c.current(),
		Latest:     c.latest,
		Active:     c.active,
		Insights:   slices.Clone(c.insights),
		Busy:       c.busy,
		EditorOpen: c.editorOpen,
	}
}

// update applies fn under the lock and notifies the observer.
func (c *Controller) update(fn func()) {
	c.mu.Lock()
	fn()
	snap := c.snapshot()
	c.mu.Unlock()
	if c.observer != nil {
		c.observer(snap)
	}
}

// begin sets the flag selected by flag if it is clear. It returns the epoch
// the operation started in.
func (c *Controller) begin(flag func(*Busy) *bool) (uint64, bool) {
	c.mu.Lock()
	p := flag(&c.busy)
	if *p {
		c.mu.Unlock()
		return 0, false
	}
	*p = true
	epoch := c.epoch
	snap := c.snapshot()
	c.mu.Unlock()
	if c.observer != nil {
		c.observer(snap)
	}
	return epoch, true
}

// finish clears the flag and, if the session was not reset meanwhile, applies
// fn.
func (c *Controller) finish(epoch uint64, flag func(*Busy) *bool, fn func()) {
	c.update(func() {
		if c.epoch != epoch {
			return
		}
		*flag(&c.busy) = false
		if fn != nil {
			fn()
		}
	})
}

func quickFlag(b *Busy) *bool    { return &b.Quick }
func customFlag(b *Busy) *bool   { return &b.Custom }
func clearingFlag(b *Busy) *bool { return &b.Clearing }
func insightFlag(b *Busy) *bool  { return &b.GeneratingInsight }

func (c *Controller) authenticated() bool {
	return c.creds != nil && c.creds.Authenticated()
}

// FetchLatest replaces the insight list and the latest suggestion with the
// server's view. The active suggestion is left alone.
func (c *Controller) FetchLatest(ctx context.Context, opts FetchOptions) (Notice, error) {
	if !c.authenticated() {
		if opts.Suppress {
			return Notice{}, ErrAuthRequired
		}
		return failure("Please sign in to view AI insights."), ErrAuthRequired
	}

	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()

	resp, err := c.backend.FetchLatestInsights(ctx)
	if err != nil {
		err = &BackendError{Op: "fetch latest insights", Err: err}
		logger.New(ctx).LogError("session.fetch_latest", err)
		if opts.Suppress {
			return Notice{}, err
		}
		return failure(displayMessage(err, "Failed to load AI insights")), err
	}

	var (
		latest   *suggestion.DisplayState
		insights []dto.Insight
	)
	if resp != nil {
		latest = suggestion.BuildDisplayState(resp.LatestSuggestion, suggestion.SourceLatest, nil)
		insights = resp.Insights
	}
	c.update(func() {
		if c.epoch != epoch {
			return
		}
		c.latest = latest
		c.insights = slices.Clone(insights)
	})
	return Notice{}, nil
}

// QuickSuggestion requests a suggestion with default parameters. TimeFrame
// defaults to a week.
func (c *Controller) QuickSuggestion(ctx context.Context, params dto.QuickSuggestionParams) (Notice, error) {
	if !c.authenticated() {
		return failure("Please sign in to request AI suggestions."), ErrAuthRequired
	}
	if params.TimeFrame == "" {
		params.TimeFrame = defaultTimeFrame
	}
	epoch, ok := c.begin(quickFlag)
	if !ok {
		return Notice{Level: LevelInfo, Message: "A quick suggestion is already on its way."}, ErrBusy
	}

	resp, err := c.backend.GenerateQuickSuggestion(ctx, params)
	if err != nil {
		c.finish(epoch, quickFlag, nil)
		err = &BackendError{Op: "generate quick suggestion", Err: err}
		logger.New(ctx).LogError("session.quick_suggestion", err)
		return failure(displayMessage(err, "Failed to fetch quick suggestion.")), err
	}
	return c.applyGenerated(epoch, quickFlag, suggestion.NormalizeResponse(resp, suggestion.SourceQuick), "Quick suggestion ready!", false)
}

// CustomSuggestion requests a suggestion shaped by req and closes the editor
// on success.
func (c *Controller) CustomSuggestion(ctx context.Context, req dto.SuggestionRequest) (Notice, error) {
	if !c.authenticated() {
		return failure("Please sign in to request AI suggestions."), ErrAuthRequired
	}
	if req.TimeFrame == "" {
		req.TimeFrame = defaultTimeFrame
	}
	epoch, ok := c.begin(customFlag)
	if !ok {
		return Notice{Level: LevelInfo, Message: "A custom suggestion is already being created."}, ErrBusy
	}

	resp, err := c.backend.GenerateCustomSuggestion(ctx, req)
	if err != nil {
		c.finish(epoch, customFlag, nil)
		err = &BackendError{Op: "generate custom suggestion", Err: err}
		logger.New(ctx).LogError("session.custom_suggestion", err)
		return failure(displayMessage(err, "Failed to create suggestion.")), err
	}
	return c.applyGenerated(epoch, customFlag, suggestion.NormalizeResponse(resp, suggestion.SourceCustom), "Custom suggestion ready!", true)
}

func (c *Controller) applyGenerated(epoch uint64, flag func(*Busy) *bool, state *suggestion.DisplayState, msg string, closeEditor bool) (Notice, error) {
	if state == nil {
		c.finish(epoch, flag, nil)
		return Notice{Level: LevelWarning, Message: "No suggestion data received.", Cause: ErrEmptyPayload}, nil
	}
	c.finish(epoch, flag, func() {
		c.active = state
		c.latest = state
		if closeEditor {
			c.editorOpen = false
		}
	})
	return success(msg), nil
}

// ClearActiveSuggestion deletes the shown suggestion on the server and
// clears it locally. With nothing shown it succeeds without doing anything.
//
// After a successful delete the latest state is refetched in the background
// with notices suppressed. That fetch never changes the outcome of the clear
// and its errors are only logged. Wait blocks until it is done.
func (c *Controller) ClearActiveSuggestion(ctx context.Context) (Notice, error) {
	target := c.Current()
	if target == nil {
		return Notice{}, nil
	}
	if !c.authenticated() {
		return failure("Please sign in to manage AI suggestions."), ErrAuthRequired
	}

	raw := target.SuggestionID
	if raw == "" {
		if id, ok := target.Content.MetaID(); ok {
			raw = id.String()
		}
	}
	if raw == "" {
		return failure("Unable to clear suggestion: missing identifier."), ErrMissingIdentifier
	}
	id, ok := parseIdentifier(raw)
	if !ok {
		return failure("Unable to clear suggestion: invalid identifier."), ErrMissingIdentifier
	}

	epoch, ok := c.begin(clearingFlag)
	if !ok {
		return Notice{Level: LevelInfo, Message: "The suggestion is already being cleared."}, ErrBusy
	}

	if err := c.backend.DeleteSuggestion(ctx, id); err != nil {
		c.finish(epoch, clearingFlag, nil)
		err = &BackendError{Op: "delete suggestion", Err: err}
		logger.New(ctx).LogError("session.clear_suggestion", err)
		return failure(displayMessage(err, "Failed to clear suggestion.")), err
	}
	c.finish(epoch, clearingFlag, func() {
		c.active = nil
		c.latest = nil
	})

	c.reconcile(ctx)
	return success("Suggestion cleared."), nil
}

// reconcile refetches the latest state without tying it to the caller's
// cancellation.
func (c *Controller) reconcile(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	c.background.Add(1)
	go func() {
		defer c.background.Done()
		if _, err := c.FetchLatest(ctx, FetchOptions{Suppress: true}); err != nil {
			logger.New(ctx).LogWarnf("session.reconcile", "refresh after clear failed: %v", err)
		}
	}()
}

// parseIdentifier accepts decimal text naming a finite whole number.
func parseIdentifier(s string) (int64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// GenerateInsight asks the server for a fresh insight and puts it at the top
// of the list.
func (c *Controller) GenerateInsight(ctx context.Context, analysisType string) (Notice, error) {
	if !c.authenticated() {
		return failure("Please sign in to generate AI insights."), ErrAuthRequired
	}
	epoch, ok := c.begin(insightFlag)
	if !ok {
		return Notice{Level: LevelInfo, Message: "An insight is already being generated."}, ErrBusy
	}

	resp, err := c.backend.GenerateInsight(ctx, dto.GenerateInsightRequest{
		AnalysisType:    analysisType,
		ForceRegenerate: true,
	})
	if err != nil {
		c.finish(epoch, insightFlag, nil)
		err = &BackendError{Op: "generate insight", Err: err}
		logger.New(ctx).LogError("session.generate_insight", err)
		return failure("Failed to generate AI insight"), err
	}
	if resp == nil {
		c.finish(epoch, insightFlag, nil)
		return Notice{Level: LevelWarning, Message: "No insight data received.", Cause: ErrEmptyPayload}, nil
	}

	c.finish(epoch, insightFlag, func() {
		insights := make([]dto.Insight, 0, len(c.insights)+1)
		insights = append(insights, resp.Insight)
		for _, in := range c.insights {
			if in.InsightID != resp.Insight.InsightID {
				insights = append(insights, in)
			}
		}
		c.insights = insights
	})
	msg := resp.Message
	if msg == "" {
		msg = "AI insight generated successfully!"
	}
	return success(msg), nil
}

// DismissInsight deactivates an insight on the server and drops it from the
// local list.
func (c *Controller) DismissInsight(ctx context.Context, id int64) (Notice, error) {
	if !c.authenticated() {
		return failure("Please sign in to manage AI insights."), ErrAuthRequired
	}
	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()

	if err := c.backend.DismissInsight(ctx, id); err != nil {
		err = &BackendError{Op: "dismiss insight", Err: err}
		logger.New(ctx).LogError("session.dismiss_insight", err)
		return failure(displayMessage(err, "Failed to dismiss insight.")), err
	}
	c.update(func() {
		if c.epoch != epoch {
			return
		}
		c.insights = slices.DeleteFunc(slices.Clone(c.insights), func(in dto.Insight) bool {
			return in.InsightID == id
		})
	})
	return success("Insight dismissed"), nil
}

// OpenEditor opens the custom request editor.
func (c *Controller) OpenEditor() (Notice, error) {
	if !c.authenticated() {
		return failure("Please sign in to request AI suggestions."), ErrAuthRequired
	}
	c.update(func() { c.editorOpen = true })
	return Notice{}, nil
}

func (c *Controller) CloseEditor() {
	c.update(func() { c.editorOpen = false })
}

// Reset drops all session state. Call it when the user signs out; results of
// operations still in flight are discarded when they arrive.
func (c *Controller) Reset() {
	c.update(func() {
		c.epoch++
		c.latest = nil
		c.active = nil
		c.insights = nil
		c.busy = Busy{}
		c.editorOpen = false
	})
}

// Wait blocks until background reconciliation fetches have finished.
func (c *Controller) Wait() {
	c.background.Wait()
}
