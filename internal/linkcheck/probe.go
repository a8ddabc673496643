package linkcheck

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/tianzeyuan99/website-monitor/internal/domain"
)

// maxReasonDetail caps the error detail carried into reports.
const maxReasonDetail = 100

// drainLimit is how much of a response body gets read before closing,
// enough to let the transport reuse the connection.
const drainLimit = 4 << 10

type probeResult struct {
	status int
	header http.Header
}

// httpProbe implements the HEAD-then-GET strategy. HEAD goes first; only
// when it fails at the transport level is the link retried once with
// GET, because some servers drop HEAD outright. A clean HTTP status on
// HEAD is final whatever it is: a 405 stays a 405.
func (c *Checker) httpProbe(ctx context.Context, rawURL string) domain.Outcome {
	res, err := c.attempt(ctx, http.MethodHead, rawURL)
	if err != nil {
		res, err = c.attempt(ctx, http.MethodGet, rawURL)
	}
	if err != nil {
		return classifyError(err)
	}
	return classifyResponse(res)
}

func (c *Checker) attempt(ctx context.Context, method, rawURL string) (*probeResult, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))

	return &probeResult{status: resp.StatusCode, header: resp.Header}, nil
}

// classifyError maps a transport failure onto an outcome. Timeouts get
// a fixed reason; everything else keeps a truncated error detail.
func classifyError(err error) domain.Outcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.InaccessibleReason("request timed out")
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.InaccessibleReason("request timed out")
	}
	return domain.InaccessibleReason("connection error: " + truncate(err.Error(), maxReasonDetail))
}

// classifyResponse turns a clean HTTP response into an outcome. The
// download test runs first so that file responses are skipped rather
// than judged by status, whatever that status is.
func classifyResponse(res *probeResult) domain.Outcome {
	if isDownloadResponse(res.header) {
		return domain.SkippedDownload()
	}
	if res.status >= 200 && res.status < 400 {
		return domain.Accessible(res.status)
	}
	return domain.InaccessibleStatus(res.status)
}

// binaryContentTypes are exact media types that mark a response as a
// file download even when the URL carried no matching extension.
var binaryContentTypes = map[string]bool{
	"application/pdf":               true,
	"application/zip":               true,
	"application/x-zip-compressed":  true,
	"application/gzip":              true,
	"application/x-rar-compressed":  true,
	"application/vnd.rar":           true,
	"application/x-7z-compressed":   true,
	"application/octet-stream":      true,
	"application/msword":            true,
	"application/vnd.ms-excel":      true,
	"application/vnd.ms-powerpoint": true,
}

func isDownloadResponse(h http.Header) bool {
	if strings.Contains(strings.ToLower(h.Get("Content-Disposition")), "attachment") {
		return true
	}

	ct := strings.ToLower(h.Get("Content-Type"))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	ct = strings.TrimSpace(ct)
	if ct == "" {
		return false
	}

	if binaryContentTypes[ct] {
		return true
	}
	for _, prefix := range []string{"image/", "video/", "audio/", "font/"} {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}
	return strings.HasPrefix(ct, "application/vnd.openxmlformats-officedocument.")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
