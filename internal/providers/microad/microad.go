// Package microad fetches campaign reports from the MicroAd reporting API.
//
// The report endpoint takes its parameters as a JSON body on a GET request:
//
//	GET https://report.ads-api.universe.microad.jp/v2/reports
//	x-api-key: <key>
//	{"start_date": "20261001", "end_date": "20261013", "report_type": "campaign"}
//
// The response carries campaign metadata under "account" and daily rows under
// "report.records". The call is made once per refresh; there is no retry.
package microad

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/janekbaraniewski/pacewatch/internal/core"
	"github.com/janekbaraniewski/pacewatch/internal/parsers"
)

const (
	DefaultBaseURL    = "https://report.ads-api.universe.microad.jp"
	DefaultReportType = "campaign"

	reportsPath     = "/v2/reports"
	requestDate     = "20060102"
	maxErrorExcerpt = 200
)

type reportRequest struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	ReportType string `json:"report_type"`
}

type Options struct {
	BaseURL    string
	APIKey     string
	ReportType string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	apiKey     string
	reportType string
	http       *http.Client
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	reportType := opts.ReportType
	if reportType == "" {
		reportType = DefaultReportType
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(opts.APIKey),
		reportType: reportType,
		http:       hc,
	}
}

// FetchReport retrieves the report for rng. A non-2xx answer is returned as
// *core.FetchError; the payload is only returned when the whole body decoded.
func (c *Client) FetchReport(ctx context.Context, rng core.DateRange) (core.Payload, error) {
	if c.apiKey == "" {
		return core.Payload{}, core.ErrMissingAPIKey
	}
	if err := rng.Validate(); err != nil {
		return core.Payload{}, fmt.Errorf("microad: %w", err)
	}

	body, err := json.Marshal(reportRequest{
		StartDate:  rng.Start.Format(requestDate),
		EndDate:    rng.End.Format(requestDate),
		ReportType: c.reportType,
	})
	if err != nil {
		return core.Payload{}, fmt.Errorf("microad: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+reportsPath, bytes.NewReader(body))
	if err != nil {
		return core.Payload{}, fmt.Errorf("microad: creating request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return core.Payload{}, fmt.Errorf("microad: report request failed: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("microad: %s %s -> %d in %s headers=%v", req.Method, reportsPath, resp.StatusCode,
		time.Since(start).Round(time.Millisecond), parsers.RedactHeaders(resp.Header))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.Payload{}, fmt.Errorf("microad: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return core.Payload{}, &core.FetchError{
			StatusCode: resp.StatusCode,
			Message:    errorExcerpt(data),
		}
	}

	payload, err := core.DecodePayload(data)
	if err != nil {
		return core.Payload{}, fmt.Errorf("microad: parsing report: %w", err)
	}
	return payload, nil
}

// errorExcerpt pulls a message out of an error body, preferring a JSON
// "message" or "error" field over the raw text.
func errorExcerpt(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	text := strings.TrimSpace(string(data))
	if r := []rune(text); len(r) > maxErrorExcerpt {
		text = string(r[:maxErrorExcerpt]) + "…"
	}
	return text
}
