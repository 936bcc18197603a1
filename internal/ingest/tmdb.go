// Package ingest fetches the movie corpus from the TMDB API and prepares
// it for indexing. It is the only part of the system that performs
// blocking I/O: the search core consumes its output as an ordered,
// deduplicated []domain.Movie and never talks to the network itself.
//
// Fetching is paginated and concurrent: list endpoints are walked page by
// page under a shared rate limiter, then per-movie detail requests run on
// a bounded worker pool. Movies are deduplicated by id; only English and
// Hindi originals are kept, and Hindi entries get the extra
// "bollywood hindi indian" document tags so genre-style queries reach
// them.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/tbourn/go-movie-backend/internal/domain"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	// TMDB allows ~50 req/s; stay well under it.
	defaultRPS     = 20
	defaultWorkers = 5
	maxCast        = 10
)

// Client is a minimal TMDB API client with built-in rate limiting.
// Safe for concurrent use.
type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
	limiter *rate.Limiter
	workers int
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL (tests point it at an httptest
// server).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpc = h }
}

// WithWorkers sets the detail-fetch worker pool size.
func WithWorkers(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithRateLimit sets the request budget in requests per second.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps))
		}
	}
}

// NewClient builds a TMDB client for the given API key.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(defaultRPS), defaultRPS),
		workers: defaultWorkers,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// get performs one rate-limited GET and decodes the JSON body into v.
func (c *Client) get(ctx context.Context, path string, q url.Values, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if q == nil {
		q = url.Values{}
	}
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb: %s returned status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// listResponse is the shared shape of TMDB's paginated list endpoints.
type listResponse struct {
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
	Results    []struct {
		ID int `json:"id"`
	} `json:"results"`
}

// detailResponse is the movie detail payload with credits and keywords
// appended.
type detailResponse struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	OriginalLanguage string  `json:"original_language"`
	PosterPath       string  `json:"poster_path"`
	VoteAverage      float64 `json:"vote_average"`
	Runtime          int     `json:"runtime"`
	Genres           []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Credits struct {
		Cast []struct {
			Name string `json:"name"`
		} `json:"cast"`
		Crew []struct {
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	} `json:"credits"`
	Keywords struct {
		Keywords []struct {
			Name string `json:"name"`
		} `json:"keywords"`
	} `json:"keywords"`
}

// MovieDetails fetches one movie with credits and keywords and converts
// it to the catalog shape. Movies whose original language is neither
// English nor Hindi are skipped (nil, nil): the catalog covers Hollywood
// and Bollywood only.
func (c *Client) MovieDetails(ctx context.Context, id int) (*domain.Movie, error) {
	var d detailResponse
	q := url.Values{}
	q.Set("append_to_response", "credits,keywords")
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id), q, &d); err != nil {
		return nil, err
	}
	if d.OriginalLanguage != "en" && d.OriginalLanguage != "hi" {
		return nil, nil
	}

	m := &domain.Movie{
		ID:            d.ID,
		Title:         d.Title,
		OriginalTitle: d.OriginalTitle,
		Overview:      d.Overview,
		ReleaseDate:   d.ReleaseDate,
		Language:      d.OriginalLanguage,
		PosterPath:    d.PosterPath,
		VoteAverage:   d.VoteAverage,
		Runtime:       d.Runtime,
	}
	for _, g := range d.Genres {
		m.Genres = append(m.Genres, g.Name)
	}
	for _, p := range d.Credits.Crew {
		if p.Job == "Director" {
			m.Director = p.Name
			break
		}
	}
	for i, a := range d.Credits.Cast {
		if i >= maxCast {
			break
		}
		if a.Name != "" {
			m.Cast = append(m.Cast, a.Name)
		}
	}
	for _, k := range d.Keywords.Keywords {
		m.Keywords = append(m.Keywords, k.Name)
	}

	// The derived document is computed exactly once, here at ingestion.
	m.Document = domain.BuildDocument(m)
	if m.Language == "hi" {
		m.Document += " bollywood hindi indian"
	}
	return m, nil
}

// videosResponse is the movie videos payload.
type videosResponse struct {
	Results []struct {
		Key  string `json:"key"`
		Site string `json:"site"`
		Type string `json:"type"`
	} `json:"results"`
}

// MovieTrailer returns the YouTube key of the first video TMDB lists as a
// trailer for the movie, or "" when there is none. Unlike the corpus
// fetch this runs per request, so callers pass the request context.
func (c *Client) MovieTrailer(ctx context.Context, id int) (string, error) {
	var vr videosResponse
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id)+"/videos", nil, &vr); err != nil {
		return "", err
	}
	for _, v := range vr.Results {
		if v.Site == "YouTube" && v.Type == "Trailer" {
			return v.Key, nil
		}
	}
	return "", nil
}

// listIDs walks one paginated list endpoint and returns the movie ids in
// page order, stopping at pages or the endpoint's own total, whichever
// comes first.
func (c *Client) listIDs(ctx context.Context, path string, base url.Values, pages int) ([]int, error) {
	var ids []int
	for page := 1; page <= pages; page++ {
		q := url.Values{}
		for k, vs := range base {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		q.Set("page", strconv.Itoa(page))

		var lr listResponse
		if err := c.get(ctx, path, q, &lr); err != nil {
			return ids, err
		}
		for _, r := range lr.Results {
			ids = append(ids, r.ID)
		}
		if lr.TotalPages > 0 && page >= lr.TotalPages {
			break
		}
	}
	return ids, nil
}

// FetchOptions bounds a corpus fetch.
type FetchOptions struct {
	// PopularPages / TopRatedPages: pages of the Hollywood list endpoints.
	PopularPages  int
	TopRatedPages int
	// HindiPages: pages of the discover endpoint filtered to Hindi
	// originals, sorted by popularity.
	HindiPages int
	// TargetCount stops the fetch early once reached; 0 means no cap.
	TargetCount int
}

// FetchCorpus assembles the full corpus: list endpoints discover ids,
// the worker pool fetches details, ids are deduplicated and the result
// is ordered by discovery position so repeated runs over unchanged data
// produce the same corpus order.
func (c *Client) FetchCorpus(ctx context.Context, opt FetchOptions) ([]domain.Movie, error) {
	var discovered []int
	seen := make(map[int]struct{})
	add := func(ids []int) {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			discovered = append(discovered, id)
		}
	}

	if opt.PopularPages > 0 {
		ids, err := c.listIDs(ctx, "/movie/popular", nil, opt.PopularPages)
		if err != nil {
			return nil, err
		}
		add(ids)
	}
	if opt.TopRatedPages > 0 {
		ids, err := c.listIDs(ctx, "/movie/top_rated", nil, opt.TopRatedPages)
		if err != nil {
			return nil, err
		}
		add(ids)
	}
	if opt.HindiPages > 0 {
		q := url.Values{}
		q.Set("with_original_language", "hi")
		q.Set("sort_by", "popularity.desc")
		ids, err := c.listIDs(ctx, "/discover/movie", q, opt.HindiPages)
		if err != nil {
			return nil, err
		}
		add(ids)
	}
	if opt.TargetCount > 0 && len(discovered) > opt.TargetCount {
		discovered = discovered[:opt.TargetCount]
	}

	// Detail fetch on a bounded worker pool. Each job carries its
	// discovery position; workers fill distinct slots of a shared slice,
	// so the final order is deterministic without any post-hoc sort.
	type job struct {
		pos int
		id  int
	}
	jobs := make(chan job)
	slots := make([]*domain.Movie, len(discovered))

	var wg sync.WaitGroup
	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				m, err := c.MovieDetails(ctx, j.id)
				if err != nil || m == nil {
					// Failed or filtered ids are skipped: a partial
					// corpus beats no corpus.
					continue
				}
				slots[j.pos] = m
			}
		}()
	}

feed:
	for pos, id := range discovered {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- job{pos: pos, id: id}:
		}
	}
	close(jobs)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.Movie, 0, len(slots))
	for _, m := range slots {
		if m != nil {
			out = append(out, *m)
		}
	}
	return out, nil
}
