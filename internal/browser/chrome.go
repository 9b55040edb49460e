package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Non-essential subresource types blocked to cut page load time.
var blockedURLPatterns = []string{
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.svg", "*.ico",
	"*.css", "*.woff", "*.woff2", "*.ttf", "*.otf",
}

// Chrome launches one headless Chrome process per session.
type Chrome struct {
	headless  bool
	userAgent string
}

// NewChrome returns a Browser backed by headless Chrome.
func NewChrome(headless bool, userAgent string) *Chrome {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Chrome{headless: headless, userAgent: userAgent}
}

// NewSession allocates a fresh browser context. The process itself starts
// lazily on the first HTML call. The caller owns the session and must Close
// it on every exit path.
func (c *Chrome) NewSession(_ context.Context) (Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.headless),
		chromedp.UserAgent(c.userAgent),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	taskCtx, cancelTask := chromedp.NewContext(allocCtx)

	return &chromeSession{
		ctx:         taskCtx,
		cancelTask:  cancelTask,
		cancelAlloc: cancelAlloc,
	}, nil
}

type chromeSession struct {
	ctx         context.Context
	cancelTask  context.CancelFunc
	cancelAlloc context.CancelFunc
}

// HTML renders the page with non-essential subresources blocked, waits for
// any of the given selectors, and returns the document's outer HTML.
func (s *chromeSession) HTML(ctx context.Context, url string, waitFor []string) (string, error) {
	// Propagate caller cancellation into the chromedp context, which cannot
	// be derived from the caller's directly.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.cancelTask()
		case <-done:
		}
	}()

	var html string
	err := chromedp.Run(s.ctx,
		network.Enable(),
		network.SetBlockedURLS(blockedURLPatterns),
		chromedp.Navigate(url),
		waitAnySelector(waitFor),
		chromedp.OuterHTML("html", &html),
	)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}
	return html, nil
}

// Close tears down the browser context and process.
func (s *chromeSession) Close() error {
	s.cancelTask()
	s.cancelAlloc()
	return nil
}

// waitAnySelector polls until any of the candidate selectors resolves.
// Result-container markup varies by experiment and locale, so scrape
// profiles carry several known containers.
func waitAnySelector(selectors []string) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		if len(selectors) == 0 {
			return nil
		}

		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()

		for {
			for _, sel := range selectors {
				var found bool
				expr := fmt.Sprintf("document.querySelector(%q) !== null", sel)
				if err := chromedp.Evaluate(expr, &found).Do(ctx); err != nil {
					return err
				}
				if found {
					return nil
				}
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	}
}
