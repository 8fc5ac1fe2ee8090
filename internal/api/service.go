// Package api talks to the survey backend. Every view depends on the
// Service interface, never on net/http directly, so views can be driven by
// the HTTP backend, the offline fixture file, or a test double.
package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/Akashdeep-Patra/sdash/internal/survey"
)

// Service defines the backend contract. The backend returns the full survey
// set; all filtering, sorting and paging happen client-side.
type Service interface {
	// Endpoint describes where the data comes from (URL or file path).
	Endpoint() string

	ListSurveys(ctx context.Context) ([]survey.Survey, error)
	CreateSurvey(ctx context.Context, d survey.Draft) (survey.Survey, error)
	UpdateSurvey(ctx context.Context, id string, d survey.Draft) (survey.Survey, error)
	DeleteSurvey(ctx context.Context, id string) error

	Overview(ctx context.Context) (survey.Overview, error)
}

// Invalidator is implemented by services that cache reads.
type Invalidator interface {
	Invalidate()
}

// DropCache clears any cached reads of svc so the next call reaches the
// backend. Explicit reloads call it; plain view mounts do not.
func DropCache(svc Service) {
	if inv, ok := svc.(Invalidator); ok {
		inv.Invalidate()
	}
}

// StatusError is returned for non-2xx backend responses.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Code)
}

// ErrNotFound is returned when the backend has no survey with the given id.
var ErrNotFound = errors.New("survey not found")

// Is lets errors.Is(err, ErrNotFound) match a 404 StatusError.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == 404
}
