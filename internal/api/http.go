package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Akashdeep-Patra/sdash/internal/survey"
	"go.uber.org/zap"
)

// maxErrorBody caps how much of an error response body is kept.
const maxErrorBody = 4 << 10

// HTTPService is the REST backend client.
type HTTPService struct {
	base   string
	client *http.Client
	log    *zap.Logger
}

// Compile-time check.
var _ Service = (*HTTPService)(nil)

// NewHTTPService creates a client for the backend at baseURL
// (e.g. "http://localhost:8000").
func NewHTTPService(baseURL string, timeout time.Duration, log *zap.Logger) (*HTTPService, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api base url %q: scheme must be http or https", baseURL)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPService{
		base:   strings.TrimRight(u.String(), "/"),
		client: &http.Client{Timeout: timeout},
		log:    log,
	}, nil
}

// Endpoint returns the base URL.
func (s *HTTPService) Endpoint() string { return s.base }

// ListSurveys fetches every survey.
func (s *HTTPService) ListSurveys(ctx context.Context) ([]survey.Survey, error) {
	var out []survey.Survey
	if err := s.do(ctx, http.MethodGet, "/api/surveys", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSurvey posts a new survey and returns the backend's copy with its id.
func (s *HTTPService) CreateSurvey(ctx context.Context, d survey.Draft) (survey.Survey, error) {
	var out survey.Survey
	err := s.do(ctx, http.MethodPost, "/api/surveys", d, &out)
	return out, err
}

// UpdateSurvey replaces the survey with the given id.
func (s *HTTPService) UpdateSurvey(ctx context.Context, id string, d survey.Draft) (survey.Survey, error) {
	var out survey.Survey
	err := s.do(ctx, http.MethodPut, "/api/surveys/"+url.PathEscape(id), d, &out)
	return out, err
}

// DeleteSurvey removes the survey with the given id.
func (s *HTTPService) DeleteSurvey(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/surveys/"+url.PathEscape(id), nil, nil)
}

// Overview fetches the dashboard aggregate.
func (s *HTTPService) Overview(ctx context.Context) (survey.Overview, error) {
	var out survey.Overview
	err := s.do(ctx, http.MethodGet, "/api/dashboardoverview", nil, &out)
	return out, err
}

func (s *HTTPService) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.base+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	s.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// errorMessage extracts {"message": "..."} or {"error": "..."} from an
// error body, falling back to the trimmed text.
func errorMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
