package mealdb

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"recipebox/config"
	"recipebox/utils"

	"github.com/chromedp/chromedp"
)

// BrowserGetter loads API URLs in headless Chrome and returns the rendered body text.
// Used where the API sits behind a browser check that rejects plain HTTP clients.
// Tabs share one browser; each Get opens its own tab so fan-out stays concurrent.
type BrowserGetter struct {
	cfg         *config.Config
	logger      *utils.Logger
	rateLimiter *utils.RateLimiter

	once      sync.Once
	browser   context.Context
	cancelAll context.CancelFunc
}

// NewBrowserGetter creates a BrowserGetter; Chrome starts lazily on the first Get
func NewBrowserGetter(cfg *config.Config, logger *utils.Logger) *BrowserGetter {
	return &BrowserGetter{
		cfg:         cfg,
		logger:      logger,
		rateLimiter: utils.NewRateLimiter(cfg.RateLimitDelay),
	}
}

func (b *BrowserGetter) start() {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("log-level", "3"),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browser, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	b.browser = browser
	b.cancelAll = func() {
		cancelBrowser()
		cancelAlloc()
	}
}

// Get navigates a fresh tab to url and returns the page body text
func (b *BrowserGetter) Get(ctx context.Context, url string) ([]byte, error) {
	if err := b.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	b.once.Do(b.start)

	tab, cancelTab := chromedp.NewContext(b.browser)
	defer cancelTab()

	timeout := time.Duration(b.cfg.RequestTimeoutMs) * time.Millisecond
	tab, cancelTimeout := context.WithTimeout(tab, timeout)
	defer cancelTimeout()

	// tie the tab to the caller's cancellation as well
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var text string
	err := chromedp.Run(tab,
		chromedp.Navigate(url),
		chromedp.Text("body", &text, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("browser fetch %s: %w", url, err)
	}

	body, err := jsonBody(url, text)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("browser GET %s", url)
	return body, nil
}

// jsonBody checks that the rendered page is the API's JSON object and not an
// interstitial or error page
func jsonBody(url, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") {
		return nil, fmt.Errorf("browser fetch %s: response is not JSON", url)
	}
	return []byte(text), nil
}

// Close shuts Chrome down
func (b *BrowserGetter) Close() {
	if b.cancelAll != nil {
		b.cancelAll()
	}
}
