package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

// CheckRequest describes one collision-detection run.
type CheckRequest struct {
	// Name is the candidate mark to check.
	Name string `json:"name"`

	// NiceClasses restricts hits to intersecting Nice classes; empty means
	// all classes.
	NiceClasses []int `json:"nice_classes,omitempty"`

	// Countries are the target markets, as ISO codes or free-text names.
	Countries []string `json:"countries,omitempty"`

	// Mode selects the variant source; empty defaults to fast.
	Mode trademark.GenerationMode `json:"mode,omitempty"`

	// Status filters hits by lifecycle state ("active", "expired", "all").
	Status string `json:"status,omitempty"`
}

// Office is one register the server queried or would query.
type Office struct {
	Code        string               `json:"code"`
	Name        string               `json:"name"`
	Type        trademark.OfficeType `json:"type"`
	Designation string               `json:"designation,omitempty"`
}

// CheckResult is the outcome of one detection run.
type CheckResult struct {
	RunID         string                      `json:"run_id"`
	CandidateName string                      `json:"candidate_name"`
	Countries     []string                    `json:"countries"`
	NiceClasses   []int                       `json:"nice_classes,omitempty"`
	Offices       []Office                    `json:"offices"`
	Variants      []trademark.SearchVariant   `json:"variants"`
	Conflicts     []trademark.ScoredConflict  `json:"conflicts"`
	Warnings      []trademark.CoverageWarning `json:"warnings,omitempty"`

	TotalHits      int `json:"total_hits"`
	AggregatedHits int `json:"aggregated_hits"`
	FilteredOut    int `json:"filtered_out"`
	SearchesRun    int `json:"searches_run"`

	HighestRisk trademark.RiskLevel `json:"highest_risk"`
	DurationMS  int64               `json:"duration_ms"`
	CompletedAt time.Time           `json:"completed_at"`
}

// VariantsRequest previews the search strategy without running a search.
type VariantsRequest struct {
	Name        string                   `json:"name"`
	NiceClasses []int                    `json:"nice_classes,omitempty"`
	Countries   []string                 `json:"countries,omitempty"`
	Mode        trademark.GenerationMode `json:"mode,omitempty"`
	Max         int                      `json:"max,omitempty"`
}

type variantsResponse struct {
	Name     string                    `json:"name"`
	Variants []trademark.SearchVariant `json:"variants"`
}

// OfficesResult lists the registers searched for one country.
type OfficesResult struct {
	Country        string   `json:"country"`
	Offices        []Office `json:"offices"`
	DirectRegister bool     `json:"direct_register"`
}

// Health is the liveness report of the server.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// Check runs a collision detection for the candidate name.
func (c *Client) Check(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("markiq: candidate name is required")
	}
	var result CheckResult
	if err := c.post(ctx, "/api/v1/detections", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Variants returns the search terms a detection run would use.
func (c *Client) Variants(ctx context.Context, req VariantsRequest) ([]trademark.SearchVariant, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("markiq: candidate name is required")
	}
	var result variantsResponse
	if err := c.post(ctx, "/api/v1/variants", req, &result); err != nil {
		return nil, err
	}
	return result.Variants, nil
}

// Offices resolves a country code or free-text name to the registers a
// detection run would search.
func (c *Client) Offices(ctx context.Context, country string) (*OfficesResult, error) {
	if country == "" {
		return nil, fmt.Errorf("markiq: country is required")
	}
	var result OfficesResult
	if err := c.get(ctx, "/api/v1/offices/"+url.PathEscape(country), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Healthz reports server liveness.
func (c *Client) Healthz(ctx context.Context) (*Health, error) {
	var result Health
	if err := c.get(ctx, "/healthz", &result); err != nil {
		return nil, err
	}
	return &result, nil
}
