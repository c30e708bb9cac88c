package acquisition

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Inclusist/job-monitor-sub001/internal/types"
)

const (
	jsearchBaseURL = "https://jsearch.p.rapidapi.com/search"
	jsearchHost    = "jsearch.p.rapidapi.com"
	jsearchTimeout = 30 * time.Second
)

// JSearchProvider is the general international keyword-search provider. It
// serves any location.
type JSearchProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewJSearchProvider creates the provider. baseURL overrides are for tests;
// pass "" for the live endpoint.
func NewJSearchProvider(apiKey, baseURL string) *JSearchProvider {
	if baseURL == "" {
		baseURL = jsearchBaseURL
	}
	return &JSearchProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: jsearchTimeout},
	}
}

func (p *JSearchProvider) Name() string { return "jsearch" }

// Supports always returns true; the provider searches internationally.
func (p *JSearchProvider) Supports(string) bool { return true }

type jsearchResponse struct {
	Data []struct {
		JobID       string `json:"job_id"`
		Title       string `json:"job_title"`
		Employer    string `json:"employer_name"`
		City        string `json:"job_city"`
		Country     string `json:"job_country"`
		Description string `json:"job_description"`
		PostedAt    string `json:"job_posted_at_datetime_utc"`
	} `json:"data"`
}

// Search runs one keyword query against the API and normalizes the results.
func (p *JSearchProvider) Search(ctx context.Context, q Query) ([]types.RawCandidate, error) {
	if p.apiKey == "" {
		return nil, providerError(p.Name(), q, fmt.Errorf("missing API key"))
	}

	terms := strings.Join(q.Keywords, " ")
	if q.Location != "" {
		terms += " in " + q.Location
	}

	page := q.Page
	if page <= 0 {
		page = 1
	}

	params := url.Values{}
	params.Set("query", terms)
	params.Set("page", fmt.Sprintf("%d", page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, providerError(p.Name(), q, err)
	}
	req.Header.Set("X-RapidAPI-Key", p.apiKey)
	req.Header.Set("X-RapidAPI-Host", jsearchHost)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, providerError(p.Name(), q, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, providerError(p.Name(), q, fmt.Errorf("HTTP status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, providerError(p.Name(), q, err)
	}

	var parsed jsearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, providerError(p.Name(), q, err)
	}

	candidates := make([]types.RawCandidate, 0, len(parsed.Data))
	for _, item := range parsed.Data {
		if item.JobID == "" || item.Title == "" {
			continue
		}
		location := item.City
		if item.Country != "" {
			if location != "" {
				location += ", "
			}
			location += item.Country
		}

		rc := types.RawCandidate{
			ExternalID:  item.JobID,
			Source:      p.Name(),
			Title:       item.Title,
			Company:     item.Employer,
			Location:    location,
			Description: htmlToText(item.Description),
		}
		if ts, err := time.Parse(time.RFC3339, item.PostedAt); err == nil {
			rc.PostedAt = &ts
		}
		candidates = append(candidates, rc)
	}
	return candidates, nil
}
