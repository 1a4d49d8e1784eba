package searchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"infoseek-tracker/internal/config"
	"infoseek-tracker/internal/domain/model"
	"infoseek-tracker/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

var _ adapter.JobStoreAdapter = (*Client)(nil)

// Client talks to the search backend's task API using direct HTTP calls.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zerolog.Logger
}

func NewClient(cfg *config.SearchAPIConfig, logger *zerolog.Logger) *Client {
	cliLog := logger.With().Str("component", "SearchAPIClient").Logger()
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     &cliLog,
	}
}

// taskDTO mirrors the backend's task representation.
type taskDTO struct {
	ID           string      `json:"id"`
	Keyword      string      `json:"keyword"`
	ArticleCount int         `json:"article_count"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	Results      []resultDTO `json:"results"`
	ErrorMessage *string     `json:"error_message"`
}

type resultDTO struct {
	ID        json.Number `json:"id"`
	Title     string      `json:"title"`
	SourceURL string      `json:"source_url"`
	PDFFile   *string     `json:"pdf_file"`
}

// listEnvelope is the paginated shape some deployments return instead of a
// bare array.
type listEnvelope struct {
	Results []taskDTO `json:"results"`
}

func (c *Client) Create(ctx context.Context, query model.SearchQuery) (*model.Job, error) {
	body, err := json.Marshal(map[string]interface{}{
		"keyword":       query.Keyword,
		"article_count": query.ArticleCount,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal create request: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, "/api/tasks/", body)
	if err != nil {
		return nil, err
	}
	var dto taskDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("unmarshal created task: %w", err)
	}
	return dto.toModel(), nil
}

func (c *Client) Get(ctx context.Context, id string) (*model.Job, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/tasks/"+id+"/", nil)
	if err != nil {
		return nil, err
	}
	var dto taskDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("unmarshal task %s: %w", id, err)
	}
	return dto.toModel(), nil
}

// List fetches the whole collection. The backend answers either a bare
// array or an enveloped {results:[...]} shape; both are accepted.
func (c *Client) List(ctx context.Context) ([]*model.Job, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/tasks/", nil)
	if err != nil {
		return nil, err
	}

	var dtos []taskDTO
	if bareArray(data) {
		if err := json.Unmarshal(data, &dtos); err != nil {
			return nil, fmt.Errorf("unmarshal task list: %w", err)
		}
	} else {
		var env listEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("unmarshal task list envelope: %w", err)
		}
		dtos = env.Results
	}

	jobs := make([]*model.Job, 0, len(dtos))
	for i := range dtos {
		jobs = append(jobs, dtos[i].toModel())
	}
	return jobs, nil
}

// Cancel forces the task's status to failed. The backend treats this patch
// as the cancellation signal.
func (c *Client) Cancel(ctx context.Context, id string) (*model.Job, error) {
	body, err := json.Marshal(map[string]string{"status": string(model.JobStatusFailed)})
	if err != nil {
		return nil, fmt.Errorf("marshal cancel request: %w", err)
	}
	data, err := c.do(ctx, http.MethodPatch, "/api/tasks/"+id+"/", body)
	if err != nil {
		return nil, err
	}
	var dto taskDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("unmarshal cancelled task: %w", err)
	}
	return dto.toModel(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("backend rejected request")
		return nil, fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, snippet(data))
	}
	return data, nil
}

func (d *taskDTO) toModel() *model.Job {
	job := &model.Job{
		ID:           d.ID,
		Keyword:      d.Keyword,
		ArticleCount: d.ArticleCount,
		Status:       parseStatus(d.Status),
		CreatedAt:    d.CreatedAt,
	}
	if d.ErrorMessage != nil {
		job.ErrorMessage = *d.ErrorMessage
	}
	if len(d.Results) > 0 {
		job.Results = make([]model.Result, 0, len(d.Results))
		for _, r := range d.Results {
			res := model.Result{
				ID:        r.ID.String(),
				Title:     r.Title,
				SourceURL: r.SourceURL,
			}
			if r.PDFFile != nil {
				res.PDFPath = NormalizeStoragePath(*r.PDFFile)
			}
			job.Results = append(job.Results, res)
		}
	}
	return job
}

// parseStatus maps wire statuses onto the domain. Unknown strings come back
// as the zero status, which the tracker treats as non-terminal.
func parseStatus(s string) model.JobStatus {
	switch model.JobStatus(strings.ToLower(strings.TrimSpace(s))) {
	case model.JobStatusPending:
		return model.JobStatusPending
	case model.JobStatusProcessing:
		return model.JobStatusProcessing
	case model.JobStatusCompleted:
		return model.JobStatusCompleted
	case model.JobStatusFailed:
		return model.JobStatusFailed
	}
	return ""
}

func bareArray(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}

func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
