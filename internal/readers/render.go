package readers

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"
)

// Text extraction never needs media, so blocking it keeps renders fast.
var blockedResourcePatterns = []string{
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp",
	"*.mp4", "*.woff", "*.woff2",
}

// Renderer fetches pages through headless Chrome so JavaScript-driven sites
// yield their rendered markup instead of an empty shell.
type Renderer struct {
	userAgent string
	waitTime  time.Duration
	timeout   time.Duration
	logger    arbor.ILogger
}

// NewRenderer creates a headless Chrome renderer. waitTime is the pause after
// navigation for scripts to settle.
func NewRenderer(userAgent string, waitTime time.Duration, logger arbor.ILogger) *Renderer {
	if waitTime <= 0 {
		waitTime = 3 * time.Second
	}
	return &Renderer{
		userAgent: userAgent,
		waitTime:  waitTime,
		timeout:   60 * time.Second,
		logger:    logger,
	}
}

// Render navigates to the URL, waits for JavaScript to settle and returns the
// rendered document markup.
func (r *Renderer) Render(ctx context.Context, targetURL string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
	)
	if r.userAgent != "" {
		opts = append(opts, chromedp.UserAgent(r.userAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(s string, i ...interface{}) {
			r.logger.Debug().Msgf("chromedp: "+s, i...)
		}),
	)
	defer browserCancel()

	pageCtx, pageCancel := context.WithTimeout(browserCtx, r.timeout)
	defer pageCancel()

	r.logger.Debug().Str("url", targetURL).Msg("Rendering page in headless Chrome")

	var html string
	err := chromedp.Run(pageCtx,
		network.Enable(),
		network.SetBlockedURLs(blockedResourcePatterns),
		chromedp.Navigate(targetURL),
		chromedp.Sleep(r.waitTime),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("rendering %s failed: %w", targetURL, err)
	}

	return []byte(html), nil
}
