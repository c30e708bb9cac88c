package acquisition

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Inclusist/job-monitor-sub001/internal/types"
)

const (
	arbeitnowBaseURL = "https://www.arbeitnow.com/api/job-board-api"
	arbeitnowTimeout = 30 * time.Second
)

// defaultEuropeanRegions is the location vocabulary the free board serves.
// The provider only accepts tasks whose location matches one of these terms.
var defaultEuropeanRegions = []string{
	"germany", "berlin", "munich", "hamburg", "frankfurt",
	"austria", "vienna", "switzerland", "zurich",
	"netherlands", "amsterdam", "europe", "remote",
}

// ArbeitnowProvider is the regional free-data provider. The upstream API has
// no keyword parameter, so the adapter filters its pages by keyword locally.
type ArbeitnowProvider struct {
	baseURL string
	regions []string
	client  *http.Client
}

// NewArbeitnowProvider creates the provider. Empty regions fall back to the
// default European vocabulary; baseURL overrides are for tests.
func NewArbeitnowProvider(baseURL string, regions []string) *ArbeitnowProvider {
	if baseURL == "" {
		baseURL = arbeitnowBaseURL
	}
	if len(regions) == 0 {
		regions = defaultEuropeanRegions
	}
	return &ArbeitnowProvider{
		baseURL: baseURL,
		regions: regions,
		client:  &http.Client{Timeout: arbeitnowTimeout},
	}
}

func (p *ArbeitnowProvider) Name() string { return "arbeitnow" }

// Supports reports whether the location falls inside the provider's region.
func (p *ArbeitnowProvider) Supports(location string) bool {
	loc := strings.ToLower(location)
	if loc == "" {
		return false
	}
	for _, region := range p.regions {
		if strings.Contains(loc, region) {
			return true
		}
	}
	return false
}

type arbeitnowResponse struct {
	Data []struct {
		Slug        string   `json:"slug"`
		CompanyName string   `json:"company_name"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
		Location    string   `json:"location"`
		CreatedAt   int64    `json:"created_at"`
	} `json:"data"`
}

// Search fetches one board page and keeps the postings matching any of the
// query keywords in title, tags or description.
func (p *ArbeitnowProvider) Search(ctx context.Context, q Query) ([]types.RawCandidate, error) {
	page := q.Page
	if page <= 0 {
		page = 1
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?page=%d", p.baseURL, page), nil)
	if err != nil {
		return nil, providerError(p.Name(), q, err)
	}

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

	var parsed arbeitnowResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, providerError(p.Name(), q, err)
	}

	var candidates []types.RawCandidate
	for _, item := range parsed.Data {
		if item.Slug == "" || item.Title == "" {
			continue
		}
		if !matchesAnyKeyword(item.Title+" "+strings.Join(item.Tags, " ")+" "+item.Description, q.Keywords) {
			continue
		}

		rc := types.RawCandidate{
			ExternalID:  item.Slug,
			Source:      p.Name(),
			Title:       item.Title,
			Company:     item.CompanyName,
			Location:    item.Location,
			Description: htmlToText(item.Description),
		}
		if item.CreatedAt > 0 {
			ts := time.Unix(item.CreatedAt, 0).UTC()
			rc.PostedAt = &ts
		}
		candidates = append(candidates, rc)
	}
	return candidates, nil
}

func matchesAnyKeyword(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	textLower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(textLower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
