package table

import (
	"errors"
	"fmt"

	"github.com/Akashdeep-Patra/sdash/internal/survey"
	"go.uber.org/zap"
)

// Op is a remote mutation kind.
type Op int

const (
	OpCreate Op = iota
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

var (
	// ErrBusy is returned when a mutation of the same kind is still in flight.
	ErrBusy = errors.New("operation already in progress")
	// ErrClosed is returned once the controller has been torn down.
	ErrClosed = errors.New("table closed")
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("survey not found")
	// ErrNoPendingDelete is returned by ConfirmDelete without a prior RequestDelete.
	ErrNoPendingDelete = errors.New("no deletion awaiting confirmation")
)

// Outcome is the variant of a Result.
type Outcome int

const (
	// Succeeded means the remote call succeeded and the collection was patched.
	Succeeded Outcome = iota + 1
	// Failed means the remote call failed and the collection is unchanged.
	Failed
	// Discarded means the result arrived after Close and was ignored.
	Discarded
)

// Result reports how a remote call resolved, with the notification text
// the UI should surface.
type Result struct {
	Op      Op
	Outcome Outcome
	Survey  survey.Survey
	Err     error
	Title   string
	Detail  string
}

// OK reports whether the result is the success variant.
func (r Result) OK() bool { return r.Outcome == Succeeded }

// ── Load ────────────────────────────────────────────────────────────────────

// BeginLoad arms the initial fetch. It returns true exactly once per
// controller lifetime (until Reload), so repeated mount hooks fetch once.
func (c *Controller) BeginLoad() bool {
	if c.closed || c.loadStarted {
		return false
	}
	c.loadStarted = true
	c.loading = true
	return true
}

// Reload re-arms the fetch guard for an explicit user refresh. It returns
// false while a load is already running.
func (c *Controller) Reload() bool {
	if c.closed || c.loading {
		return false
	}
	c.loadStarted = false
	return c.BeginLoad()
}

// ApplyLoad installs the fetched records, or records the failure and leaves
// the collection as it was. Duplicate ids keep their first occurrence.
func (c *Controller) ApplyLoad(records []survey.Survey, err error) Result {
	if c.closed {
		return Result{Outcome: Discarded, Err: ErrClosed}
	}
	c.loading = false
	if err != nil {
		c.loadErr = err
		c.log.Warn("load surveys failed", zap.Error(err))
		return Result{
			Outcome: Failed,
			Err:     err,
			Title:   "Error loading surveys",
			Detail:  "There was an error loading the surveys. Please refresh.",
		}
	}

	seen := make(map[string]bool, len(records))
	out := make([]survey.Survey, 0, len(records))
	for _, r := range records {
		if seen[r.ID] {
			c.log.Warn("dropping duplicate survey id", zap.String("id", r.ID))
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	c.records = out
	c.loadErr = nil
	c.loaded = true
	c.clampPage()
	c.log.Debug("surveys loaded", zap.Int("count", len(out)))
	return Result{Outcome: Succeeded}
}

// Loading reports whether the fetch is in flight.
func (c *Controller) Loading() bool { return c.loading }

// Loaded reports whether at least one fetch succeeded.
func (c *Controller) Loaded() bool { return c.loaded }

// LoadErr is the error of the most recent failed fetch.
func (c *Controller) LoadErr() error { return c.loadErr }

// ── In-flight guard ─────────────────────────────────────────────────────────

// Busy reports whether a mutation of kind op is in flight.
func (c *Controller) Busy(op Op) bool { return c.inFlight[op] }

func (c *Controller) begin(op Op) error {
	if c.closed {
		return ErrClosed
	}
	if c.inFlight[op] {
		return ErrBusy
	}
	c.inFlight[op] = true
	return nil
}

// end releases the guard and reports whether the result should be applied.
func (c *Controller) end(op Op) bool {
	delete(c.inFlight, op)
	return !c.closed
}

// Close tears down the controller; late results are discarded.
func (c *Controller) Close() { c.closed = true }

// ── Create / Update ─────────────────────────────────────────────────────────

// BeginCreate validates d and marks a create as in flight. The caller issues
// the remote call only when it returns nil.
func (c *Controller) BeginCreate(d survey.Draft) error {
	if err := survey.Validate(d); err != nil {
		return err
	}
	return c.begin(OpCreate)
}

// ResolveCreate applies the outcome of the create call.
func (c *Controller) ResolveCreate(d survey.Draft, created survey.Survey, err error) Result {
	if !c.end(OpCreate) {
		return Result{Op: OpCreate, Outcome: Discarded, Err: ErrClosed}
	}
	if err != nil {
		c.log.Warn("create survey failed", zap.String("name", d.Name), zap.Error(err))
		return saveFailed(OpCreate, err)
	}
	if i := c.indexOf(created.ID); i >= 0 {
		// The backend reused an id; keep ids unique by replacing.
		c.log.Warn("create returned existing id", zap.String("id", created.ID))
		c.records[i] = created
	} else {
		c.records = append(c.records, created)
	}
	c.clampPage()
	c.log.Info("survey created", zap.String("id", created.ID))
	return Result{
		Op:      OpCreate,
		Outcome: Succeeded,
		Survey:  created,
		Title:   "Survey created",
		Detail:  fmt.Sprintf("Survey %q has been successfully created.", d.Name),
	}
}

// BeginUpdate validates d and marks an update of id as in flight.
func (c *Controller) BeginUpdate(id string, d survey.Draft) error {
	if c.indexOf(id) < 0 {
		return ErrNotFound
	}
	if err := survey.Validate(d); err != nil {
		return err
	}
	return c.begin(OpUpdate)
}

// ResolveUpdate replaces the record with the given id by the backend's copy.
func (c *Controller) ResolveUpdate(id string, d survey.Draft, updated survey.Survey, err error) Result {
	if !c.end(OpUpdate) {
		return Result{Op: OpUpdate, Outcome: Discarded, Err: ErrClosed}
	}
	if err != nil {
		c.log.Warn("update survey failed", zap.String("id", id), zap.Error(err))
		return saveFailed(OpUpdate, err)
	}
	if updated.ID == "" {
		updated.ID = id
	}
	if i := c.indexOf(id); i >= 0 {
		c.records[i] = updated
	} else {
		c.log.Warn("updated survey no longer in collection", zap.String("id", id))
	}
	c.clampPage()
	c.log.Info("survey updated", zap.String("id", id))
	return Result{
		Op:      OpUpdate,
		Outcome: Succeeded,
		Survey:  updated,
		Title:   "Survey updated",
		Detail:  fmt.Sprintf("Survey %q has been successfully updated.", d.Name),
	}
}

func saveFailed(op Op, err error) Result {
	return Result{
		Op:      op,
		Outcome: Failed,
		Err:     err,
		Title:   "Error saving survey",
		Detail:  "There was an error saving the survey. Please try again.",
	}
}

// ── Delete ──────────────────────────────────────────────────────────────────

// RequestDelete opens the confirmation step for id. No remote call happens
// until ConfirmDelete.
func (c *Controller) RequestDelete(id string) error {
	if c.closed {
		return ErrClosed
	}
	if c.inFlight[OpDelete] {
		return ErrBusy
	}
	i := c.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	target := c.records[i]
	c.pendingDelete = &target
	return nil
}

// PendingDelete returns the record awaiting confirmation.
func (c *Controller) PendingDelete() (survey.Survey, bool) {
	if c.pendingDelete == nil {
		return survey.Survey{}, false
	}
	return *c.pendingDelete, true
}

// ConfirmDelete marks the pending deletion as in flight and returns its
// target. The caller issues the remote call only when err is nil.
func (c *Controller) ConfirmDelete() (survey.Survey, error) {
	if c.pendingDelete == nil {
		return survey.Survey{}, ErrNoPendingDelete
	}
	if err := c.begin(OpDelete); err != nil {
		return survey.Survey{}, err
	}
	return *c.pendingDelete, nil
}

// CancelDelete abandons the confirmation step. It is refused while the
// delete call is in flight.
func (c *Controller) CancelDelete() bool {
	if c.inFlight[OpDelete] {
		return false
	}
	c.pendingDelete = nil
	return true
}

// ResolveDelete removes the record on success. On failure the record stays
// and the confirmation remains pending so the user can retry or cancel.
func (c *Controller) ResolveDelete(target survey.Survey, err error) Result {
	if !c.end(OpDelete) {
		return Result{Op: OpDelete, Outcome: Discarded, Err: ErrClosed}
	}
	if err != nil {
		c.log.Warn("delete survey failed", zap.String("id", target.ID), zap.Error(err))
		return Result{
			Op:      OpDelete,
			Outcome: Failed,
			Survey:  target,
			Err:     err,
			Title:   "Error deleting survey",
			Detail:  "There was an error deleting the survey. Please try again.",
		}
	}
	if i := c.indexOf(target.ID); i >= 0 {
		c.records = append(c.records[:i:i], c.records[i+1:]...)
	}
	c.pendingDelete = nil
	c.clampPage()
	c.log.Info("survey deleted", zap.String("id", target.ID))
	return Result{
		Op:      OpDelete,
		Outcome: Succeeded,
		Survey:  target,
		Title:   "Survey deleted",
		Detail:  fmt.Sprintf("Survey %q has been successfully deleted.", target.Name),
	}
}

func (c *Controller) indexOf(id string) int {
	for i, r := range c.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
