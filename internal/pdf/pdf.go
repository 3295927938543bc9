// Package pdf renders HTML documents to PDF through a headless browser.
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"resumake/internal/errors"
)

// A4 page size in inches.
const (
	paperWidthIn  = 8.27
	paperHeightIn = 11.69
)

// Engine converts a rendered HTML document into PDF bytes.
type Engine interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// New returns the engine selected by name. "none" yields a nil engine,
// meaning PDF output is disabled.
func New(name string) (Engine, error) {
	switch name {
	case "chromium", "":
		return &ChromiumEngine{Timeout: 60 * time.Second}, nil
	case "none":
		return nil, nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unknown PDF engine %q, must be 'chromium' or 'none'", name), nil)
	}
}

// ChromiumEngine drives a headless Chromium via the DevTools protocol.
// The browser binary is discovered on PATH, or taken from CHROME_PATH.
type ChromiumEngine struct {
	Timeout time.Duration
}

func (e *ChromiumEngine) Render(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if p := os.Getenv("CHROME_PATH"); p != "" {
		opts = append(opts, chromedp.ExecPath(p))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	runCtx, cancelRun := context.WithTimeout(browserCtx, timeout)
	defer cancelRun()

	// Chromium refuses data: navigation for printing; serve the page
	// from a temp file instead. Images are inlined as data URIs by the
	// HTML builder, so a single file is enough.
	tmpDir, err := os.MkdirTemp("", "resumake-pdf-")
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			"cannot create temporary directory for PDF rendering", err)
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o600); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			"cannot write temporary HTML for PDF rendering", err)
	}

	var buf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidthIn).
				WithPaperHeight(paperHeightIn).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, errors.NewRenderError(errors.ErrCodeRenderFailed,
			"PDF rendering failed, install Chromium or set CHROME_PATH (app.pdfEngine: none disables PDF output)", err)
	}
	return buf, nil
}
