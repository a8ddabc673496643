// Package monitor drives full monitoring passes: render each configured
// website, extract its elements, check its links, and collect the
// per-site results into one run.
package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tianzeyuan99/website-monitor/internal/domain"
	"github.com/tianzeyuan99/website-monitor/internal/extract"
	"github.com/tianzeyuan99/website-monitor/internal/linkcheck"
	"github.com/tianzeyuan99/website-monitor/internal/renderer"
	"github.com/tianzeyuan99/website-monitor/internal/urlutil"
)

// ErrRunInProgress is returned when a run is requested while another
// one is still active.
var ErrRunInProgress = errors.New("monitor: a run is already in progress")

// DefaultSitePause separates consecutive site visits so the monitored
// servers never see back-to-back page loads.
const DefaultSitePause = 500 * time.Millisecond

// Options configure a Monitor.
type Options struct {
	// Websites to visit, in order. Scheme-less entries get https.
	Websites []string

	// Limits bound per-page extraction. Zero value means defaults.
	Limits extract.Limits

	// SitePause separates consecutive site visits. Zero means
	// DefaultSitePause.
	SitePause time.Duration
}

// Monitor runs monitoring passes, one at a time. Sites are visited
// strictly sequentially; concurrency happens only inside a site's link
// check.
type Monitor struct {
	websites []string
	limits   extract.Limits
	pause    time.Duration

	renderer renderer.Renderer
	checker  *linkcheck.Checker
	tracker  *StatusTracker
	log      logrus.FieldLogger
}

func New(opts Options, r renderer.Renderer, c *linkcheck.Checker, logger logrus.FieldLogger) *Monitor {
	pause := opts.SitePause
	if pause <= 0 {
		pause = DefaultSitePause
	}
	limits := opts.Limits
	if limits == (extract.Limits{}) {
		limits = extract.DefaultLimits()
	}
	return &Monitor{
		websites: opts.Websites,
		limits:   limits,
		pause:    pause,
		renderer: r,
		checker:  c,
		tracker:  NewStatusTracker(),
		log:      logger.WithField("component", "monitor"),
	}
}

// Tracker exposes the status tracker, which the web API polls.
func (m *Monitor) Tracker() *StatusTracker { return m.tracker }

// Run executes one pass and blocks until it finishes. It fails only
// when another run is already active.
func (m *Monitor) Run(ctx context.Context) (*domain.MonitoringRun, error) {
	if !m.tracker.TryBegin(len(m.websites)) {
		return nil, ErrRunInProgress
	}
	return m.run(ctx), nil
}

// Start launches a pass in the background and hands the finished run to
// onComplete. It fails only when another run is already active.
func (m *Monitor) Start(ctx context.Context, onComplete func(*domain.MonitoringRun)) error {
	if !m.tracker.TryBegin(len(m.websites)) {
		return ErrRunInProgress
	}
	go func() {
		run := m.run(ctx)
		if onComplete != nil {
			onComplete(run)
		}
	}()
	return nil
}

// run assumes the tracker is already in the running state and always
// leaves it again.
func (m *Monitor) run(ctx context.Context) *domain.MonitoringRun {
	run := &domain.MonitoringRun{
		StartedAt: time.Now().UTC(),
		Websites:  make([]domain.SiteResult, 0, len(m.websites)),
	}
	m.log.WithField("websites", len(m.websites)).Info("Monitoring run started")

	var runErr error
	for i, site := range m.websites {
		if err := ctx.Err(); err != nil {
			m.log.WithError(err).Warn("Monitoring run aborted")
			runErr = err
			break
		}

		pageURL := urlutil.EnsureScheme(site)
		m.tracker.StartSite(pageURL)
		log := m.log.WithFields(logrus.Fields{
			"site":  pageURL,
			"index": i + 1,
			"of":    len(m.websites),
		})
		log.Info("Visiting website")

		run.Websites = append(run.Websites, m.visit(ctx, pageURL, log))
		m.tracker.SiteDone()

		if i < len(m.websites)-1 {
			select {
			case <-time.After(m.pause):
			case <-ctx.Done():
			}
		}
	}

	run.FinishedAt = time.Now().UTC()
	m.tracker.Finish(runErr)

	totals := run.Totals()
	m.log.WithFields(logrus.Fields{
		"parsed":       totals.Parsed,
		"failed":       totals.Failed,
		"links_tested": totals.LinksTested,
		"inaccessible": totals.Inaccessible,
	}).Info("Monitoring run finished")
	return run
}

// visit renders one site and checks its links. Render failures are
// recorded in the result, never propagated; one broken site must not
// end the pass.
func (m *Monitor) visit(ctx context.Context, pageURL string, log logrus.FieldLogger) domain.SiteResult {
	page, err := m.renderer.Render(ctx, pageURL)
	if err != nil {
		log.WithError(err).Error("Failed to render website")
		return domain.NewErrorSiteResult(pageURL, err)
	}

	site := extract.BuildSiteResult(pageURL, page, m.limits)
	log.WithFields(logrus.Fields{
		"links":  len(site.Links),
		"images": len(site.Images),
	}).Info("Elements extracted")

	if len(site.Links) > 0 {
		site.LinkCheck = m.checker.Check(ctx, site.Links)
	} else {
		site.LinkCheck = domain.NewLinkCheckReport(0)
	}
	return site
}
