package infrastructure

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 in inches.
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// ChromedpRenderer prints HTML to A4 PDF with a headless Chrome started per
// call, so a crashed browser never outlives one export.
type ChromedpRenderer struct {
	ChromePath string
	Timeout    time.Duration
}

func NewChromedpRenderer(chromePath string) *ChromedpRenderer {
	return &ChromedpRenderer{ChromePath: chromePath, Timeout: 60 * time.Second}
}

func (r *ChromedpRenderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.ChromePath))
	}
	return opts
}

func (r *ChromedpRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	if html == "" {
		return nil, errors.New("empty document")
	}

	// Loading from a file keeps data: URI photos working without a server.
	dir, err := os.MkdirTemp("", "clearvide-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)
	docPath := filepath.Join(dir, "resume.html")
	if err := os.WriteFile(docPath, []byte(html), 0o600); err != nil {
		return nil, err
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.allocatorOptions()...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()
	runCtx, cancelRun := context.WithTimeout(browserCtx, r.Timeout)
	defer cancelRun()

	var pdf []byte
	if err := chromedp.Run(runCtx,
		chromedp.Navigate("file://"+docPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		printA4(&pdf),
	); err != nil {
		return nil, err
	}
	return pdf, nil
}

// printA4 prints the page edge to edge; the export stylesheet owns margins.
func printA4(out *[]byte) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		buf, _, err := page.PrintToPDF().
			WithPrintBackground(true).
			WithPaperWidth(a4Width).
			WithPaperHeight(a4Height).
			WithMarginTop(0).
			WithMarginBottom(0).
			WithMarginLeft(0).
			WithMarginRight(0).
			WithPreferCSSPageSize(true).
			Do(ctx)
		*out = buf
		return err
	}
}
