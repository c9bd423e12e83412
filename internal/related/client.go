// Package related recommends papers related to the one a user is reading,
// backed by the Semantic Scholar recommendations API. Sources are ordinary
// paper URLs; the client extracts a DOI or arXiv identifier from the URL and
// asks for papers close to it.
package related

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/inklight-ai/condense/internal/domain"
	"github.com/inklight-ai/condense/internal/observability"
)

const (
	recommendationsPath = "/recommendations/v1/papers"

	// Fields requested per recommended paper.
	recommendationFields = "title,year,url,authors,abstract,publicationVenue"

	defaultLimit = 10
)

// Config contains Semantic Scholar client settings.
type Config struct {
	BaseURL string `env:"SEMANTIC_SCHOLAR_BASE_URL" envDefault:"https://api.semanticscholar.org"`
	Timeout int    `env:"SEMANTIC_SCHOLAR_TIMEOUT"  envDefault:"15"`
}

// Identifier patterns found in paper URL paths. arXiv switched formats in
// 2007: new IDs look like 1805.02262, old ones like math/0309285.
var (
	doiPattern      = regexp.MustCompile(`(?i)10\.\d{4,9}/[-._;()/:A-Z0-9]+`)
	arxivNewPattern = regexp.MustCompile(`(\d{4}\.\d{4,5})(?:v\d+)?`)
	arxivOldPattern = regexp.MustCompile(`(?i)([a-z-]+/\d{7})`)
)

// Client implements domain.RelatedFinder against the Semantic Scholar API.
// No API key is required for the recommendations endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new Semantic Scholar client.
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// PaperID extracts a Semantic Scholar paper identifier from a paper URL.
// arXiv URLs yield "ArXiv:<id>", anything else is searched for a DOI.
func PaperID(source string) (string, error) {
	parsed, err := url.Parse(source)
	if err != nil {
		return "", fmt.Errorf("%w: invalid source URL: %w", domain.ErrRelated, err)
	}

	// url.Parse decodes percent-escapes into Path, so encoded DOIs match.
	path := parsed.Path

	if strings.Contains(strings.ToLower(parsed.Host), "arxiv") {
		if m := arxivNewPattern.FindStringSubmatch(path); m != nil {
			return "ArXiv:" + m[1], nil
		}
		if m := arxivOldPattern.FindStringSubmatch(path); m != nil {
			return "ArXiv:" + m[1], nil
		}
	}

	if doi := doiPattern.FindString(path); doi != "" {
		return "DOI:" + doi, nil
	}

	return "", fmt.Errorf("%w: no DOI or arXiv id in source %q", domain.ErrRelated, source)
}

type recommendationRequest struct {
	PositivePaperIDs []string `json:"positivePaperIds"`
	NegativePaperIDs []string `json:"negativePaperIds"`
}

type recommendationResponse struct {
	RecommendedPapers []recommendedPaper `json:"recommendedPapers"`
}

type recommendedPaper struct {
	Title    string `json:"title"`
	Year     int    `json:"year"`
	URL      string `json:"url"`
	Abstract string `json:"abstract"`
	Authors  []struct {
		Name string `json:"name"`
	} `json:"authors"`
	PublicationVenue struct {
		Name string `json:"name"`
	} `json:"publicationVenue"`
}

// Related resolves the paper identifier behind source and returns up to
// limit recommendations from the API.
func (c *Client) Related(ctx context.Context, source string, limit int) ([]domain.RelatedPaper, error) {
	paperID, err := PaperID(source)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultLimit
	}

	body, err := json.Marshal(recommendationRequest{
		PositivePaperIDs: []string{paperID},
		NegativePaperIDs: []string{},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request: %w", domain.ErrRelated, err)
	}

	endpoint := c.baseURL + recommendationsPath + "?fields=" + url.QueryEscape(recommendationFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", domain.ErrRelated, err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger := observability.FromContext(ctx)
	logger.Debug("fetching related papers", observability.String("paper_id", paperID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recommendations request failed: %w: %w", domain.ErrRelated, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: recommendations API returned status %d", domain.ErrRelated, resp.StatusCode)
	}

	var decoded recommendationResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", domain.ErrRelated, err)
	}

	papers := make([]domain.RelatedPaper, 0, limit)
	for _, rec := range decoded.RecommendedPapers {
		if len(papers) == limit {
			break
		}

		authors := make([]string, 0, len(rec.Authors))
		for _, author := range rec.Authors {
			authors = append(authors, author.Name)
		}

		papers = append(papers, domain.RelatedPaper{
			Title:    rec.Title,
			Year:     rec.Year,
			URL:      rec.URL,
			Authors:  authors,
			Abstract: rec.Abstract,
			Venue:    rec.PublicationVenue.Name,
		})
	}

	logger.Debug("related papers fetched", observability.Int("count", len(papers)))

	return papers, nil
}
