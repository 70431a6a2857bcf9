package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/ayam04/game-rec-live/shared"
	"github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://api.rawg.io/api"

type FetchOptions struct {
	BaseURL  string
	APIKey   string
	PageSize int
	Limit    int
	// Pause between two page requests.
	Interval time.Duration
}

// StatusError is a non-200 answer from the catalog API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d, body: %s", e.Code, e.Body)
}

type Fetcher struct {
	logger shared.LoggerAdapter
	client *fasthttp.Client
	opts   FetchOptions
}

func NewFetcher(logger shared.LoggerAdapter, opts FetchOptions) (*Fetcher, error) {
	if logger == nil {
		return nil, shared.ErrNoLogger
	}
	if opts.APIKey == "" {
		return nil, shared.ErrNoAPIKey
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.PageSize <= 0 {
		return nil, fmt.Errorf("invalid page size %d", opts.PageSize)
	}
	return &Fetcher{
		logger: logger.With(zap.String("component", "catalog")),
		client: &fasthttp.Client{
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		opts: opts,
	}, nil
}

func (f *Fetcher) firstPage() (string, error) {
	u, err := url.Parse(f.opts.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}
	u = u.JoinPath("games")
	q := u.Query()
	q.Set("key", f.opts.APIKey)
	q.Set("page_size", strconv.Itoa(f.opts.PageSize))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchAll follows the next cursor until it runs out or Limit records are
// collected. On a failed page it stops and returns what it has so far
// together with the error.
func (f *Fetcher) FetchAll(ctx context.Context) ([]Game, error) {
	next, err := f.firstPage()
	if err != nil {
		return nil, err
	}
	var games []Game
	for pageNo := 1; next != "" && !f.full(len(games)); pageNo++ {
		if pageNo > 1 {
			if err := sleep(ctx, f.opts.Interval); err != nil {
				return games, err
			}
		}
		p, err := f.fetchPage(ctx, next)
		if err != nil {
			f.logger.Error("fetching catalog page", err, zap.Int("page", pageNo))
			return games, err
		}
		for _, g := range p.Results {
			if f.full(len(games)) {
				break
			}
			games = append(games, g.normalize())
		}
		f.logger.Debug(
			"catalog page fetched",
			zap.Int("page", pageNo),
			zap.Int("results", len(p.Results)),
			zap.Int("total", len(games)),
		)
		next = p.Next
	}
	f.logger.Info("catalog fetched", zap.Int("games", len(games)))
	return games, nil
}

func (f *Fetcher) full(n int) bool {
	return f.opts.Limit > 0 && n >= f.opts.Limit
}

func (f *Fetcher) fetchPage(ctx context.Context, uri string) (*page, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	release := func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	errC := make(chan error, 1)
	go func() {
		errC <- f.client.Do(req, resp)
	}()
	select {
	case <-ctx.Done():
		// req and resp stay in use until Do returns
		go func() {
			<-errC
			release()
		}()
		return nil, ctx.Err()
	case err := <-errC:
		defer release()
		if err != nil {
			return nil, fmt.Errorf("performing HTTP request: %w", err)
		}
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode(), Body: string(resp.Body())}
	}
	p := new(page)
	if err := sonic.Unmarshal(resp.Body(), p); err != nil {
		return nil, fmt.Errorf("decoding catalog page: %w", err)
	}
	return p, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
