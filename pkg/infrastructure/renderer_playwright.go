package infrastructure

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// PlaywrightRenderer prints HTML to PDF through a Chromium kept alive by
// playwright. The browser starts lazily on first use.
type PlaywrightRenderer struct {
	Timeout time.Duration
	log     *zap.Logger

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

func NewPlaywrightRenderer(log *zap.Logger) *PlaywrightRenderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &PlaywrightRenderer{Timeout: 60 * time.Second, log: log}
}

func (r *PlaywrightRenderer) ensureBrowser() (playwright.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser != nil && r.browser.IsConnected() {
		return r.browser, nil
	}
	if r.pw == nil {
		pw, err := playwright.Run()
		if err != nil {
			return nil, fmt.Errorf("could not start playwright: %w", err)
		}
		r.pw = pw
	}
	browser, err := r.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args:     []string{"--no-sandbox", "--disable-dev-shm-usage"},
	})
	if err != nil {
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}
	r.log.Info("playwright chromium launched")
	r.browser = browser
	return browser, nil
}

func (r *PlaywrightRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}
	pg, err := browser.NewPage()
	if err != nil {
		return nil, err
	}
	defer pg.Close()

	timeout := float64(r.Timeout.Milliseconds())
	if dl, ok := ctx.Deadline(); ok {
		if left := float64(time.Until(dl).Milliseconds()); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}
	pg.SetDefaultTimeout(timeout)

	if err := pg.SetContent(html, playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pg.PDF(playwright.PagePdfOptions{
		Format:            playwright.String("A4"),
		PrintBackground:   playwright.Bool(true),
		PreferCSSPageSize: playwright.Bool(true),
	})
}

// Close stops the browser and the playwright driver.
func (r *PlaywrightRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser != nil {
		_ = r.browser.Close()
		r.browser = nil
	}
	if r.pw != nil {
		err := r.pw.Stop()
		r.pw = nil
		return err
	}
	return nil
}
