package scrape

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"

	"github.com/yoockh/coldreach/internal/utils"
)

// PageLoader returns the raw body of a job page.
type PageLoader interface {
	Load(ctx context.Context, rawURL string) (string, error)
}

// Fetcher loads pages with colly, one collector per request, politely per host.
type Fetcher struct {
	userAgent string
	timeout   time.Duration
	perHost   rate.Limit
	burst     int

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

func NewFetcher(userAgent string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		userAgent: userAgent,
		timeout:   timeout,
		perHost:   rate.Every(time.Second),
		burst:     2,
		hosts:     make(map[string]*rate.Limiter),
	}
}

// FetchError carries the upstream status of a failed page load.
type FetchError struct {
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch error (status %d)", e.Status)
	}
	return fmt.Sprintf("fetch error (status %d): %v", e.Status, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (f *Fetcher) Load(ctx context.Context, rawURL string) (string, error) {
	const op = "Fetcher.Load"

	target, err := NormalizeURL(rawURL)
	if err != nil {
		return "", utils.E(utils.CodeInvalidArgument, op, "invalid url", err)
	}
	u, _ := url.Parse(target)
	if err := f.limiter(u.Hostname()).Wait(ctx); err != nil {
		return "", utils.E(utils.CodeTimeout, op, "fetch cancelled", err)
	}

	c := colly.NewCollector()
	if f.userAgent != "" {
		c.UserAgent = f.userAgent
	}
	c.SetRequestTimeout(f.timeout)
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	var (
		body        []byte
		status      int
		contentType string
		reqErr      error
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
		if r.Headers != nil {
			contentType = r.Headers.Get("Content-Type")
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		reqErr = err
	})

	if err := c.Visit(target); err != nil && reqErr == nil {
		reqErr = err
	}
	if ctx.Err() != nil {
		return "", utils.E(utils.CodeTimeout, op, "fetch cancelled", ctx.Err())
	}
	if reqErr != nil || status >= 400 {
		return "", utils.E(utils.CodeUnavailable, op, "failed to load page", &FetchError{Status: status, Err: reqErr})
	}
	if !isTextual(contentType) {
		return "", utils.E(utils.CodeInvalidArgument, op, "page is not HTML or text: "+contentType, nil)
	}
	return string(body), nil
}

func (f *Fetcher) limiter(host string) *rate.Limiter {
	key := strings.TrimPrefix(strings.ToLower(host), "www.")
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.hosts[key]
	if !ok {
		l = rate.NewLimiter(f.perHost, f.burst)
		f.hosts[key] = l
	}
	return l
}

// NormalizeURL trims the input and defaults the scheme to https.
func NormalizeURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("empty url")
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("missing host")
	}
	return u.String(), nil
}

func isTextual(contentType string) bool {
	if contentType == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "text/") || mt == "application/xhtml+xml"
}

var _ PageLoader = (*Fetcher)(nil)
