// Package linkcheck verifies link reachability with a bounded worker
// pool and classifies every outcome into exactly one report bucket.
package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/tianzeyuan99/website-monitor/internal/domain"
	"github.com/tianzeyuan99/website-monitor/internal/urlutil"
)

const (
	// DefaultWorkers bounds concurrent probes within one site's batch.
	DefaultWorkers = 5

	// DefaultTimeout bounds a single probe attempt.
	DefaultTimeout = 5 * time.Second

	progressEvery = 10
)

// Config tunes a Checker.
type Config struct {
	// Workers is the fixed number of concurrent probes. Must be at
	// least 1.
	Workers int

	// Timeout bounds each probe attempt; the HEAD attempt and its GET
	// fallback each get the full budget.
	Timeout time.Duration

	// UserAgent is sent on every probe when non-empty.
	UserAgent string

	// RatePerSecond throttles probe starts across all workers. Zero
	// disables throttling.
	RatePerSecond float64
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{Workers: DefaultWorkers, Timeout: DefaultTimeout}
}

// Checker probes links for reachability. Each Check call runs its own
// worker pool; the Checker itself holds only configuration and the
// shared HTTP client.
type Checker struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	log     logrus.FieldLogger

	// probe is replaced in tests to inject outcomes and faults.
	probe func(ctx context.Context, rawURL string) domain.Outcome
}

// New validates cfg and builds a Checker.
func New(cfg Config, logger logrus.FieldLogger) (*Checker, error) {
	if cfg.Workers < 1 {
		return nil, errors.New("linkcheck: at least one worker required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Checker{
		cfg:    cfg,
		client: &http.Client{},
		log:    logger.WithField("component", "linkcheck"),
	}
	if cfg.RatePerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Workers)
	}
	c.probe = c.httpProbe
	return c, nil
}

type checked struct {
	link    domain.Link
	outcome domain.Outcome
}

// Check probes every link and returns the finished report. Links whose
// URL matches a download extension are recorded as skipped without a
// network call; the rest are fed to the pool. Only this goroutine
// touches the report, so the returned value needs no synchronization.
func (c *Checker) Check(ctx context.Context, links []domain.Link) *domain.LinkCheckReport {
	report := domain.NewLinkCheckReport(len(links))

	pending := make([]domain.Link, 0, len(links))
	for _, link := range links {
		if urlutil.IsDownloadURL(link.URL) {
			report.Observe(link, domain.SkippedDownload())
			continue
		}
		pending = append(pending, link)
	}
	if len(pending) == 0 {
		return report
	}

	workers := c.cfg.Workers
	if workers > len(pending) {
		workers = len(pending)
	}

	jobs := make(chan domain.Link)
	results := make(chan checked)

	var pool errgroup.Group
	for i := 0; i < workers; i++ {
		pool.Go(func() error {
			for link := range jobs {
				results <- checked{link: link, outcome: c.checkOne(ctx, link.URL)}
			}
			return nil
		})
	}

	go func() {
		for _, link := range pending {
			jobs <- link
		}
		close(jobs)
		_ = pool.Wait()
		close(results)
	}()

	done := 0
	for res := range results {
		report.Observe(res.link, res.outcome)
		done++
		if done%progressEvery == 0 || done == len(pending) {
			c.log.WithFields(logrus.Fields{
				"checked": done,
				"total":   len(pending),
			}).Info("link check progress")
		}
	}
	return report
}

// checkOne wraps a single probe so that a fault checking one link can
// never take down the batch.
func (c *Checker) checkOne(ctx context.Context, rawURL string) (out domain.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			c.log.WithField("url", rawURL).Errorf("link check panicked: %v", r)
			out = domain.InaccessibleReason(truncate(fmt.Sprintf("check failed: %v", r), maxReasonDetail))
		}
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.InaccessibleReason("connection error: " + truncate(err.Error(), maxReasonDetail))
		}
	}
	return c.probe(ctx, rawURL)
}
