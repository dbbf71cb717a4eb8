package preview

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const renderTimeout = 30 * time.Second

// A4 paper in inches, with the margins of a CN filing page: 25mm top and
// left, 15mm bottom and right.
const (
	paperWidthIn   = 8.27
	paperHeightIn  = 11.69
	marginWideIn   = 0.98
	marginNarrowIn = 0.59
)

const (
	pdfHeaderTemplate = `<div style="width:100%;font-size:8px;color:#999;text-align:right;padding-right:12px;"><span class="title"></span></div>`
	pdfFooterTemplate = `<div style="width:100%;font-size:9px;color:#666;text-align:center;">第 <span class="pageNumber"></span> 页，共 <span class="totalPages"></span> 页</div>`
)

// ChromiumPDFRenderer prints the preview HTML to an A4 PDF through a
// headless Chromium.
type ChromiumPDFRenderer struct {
	execPath string
}

func NewChromiumPDFRenderer() *ChromiumPDFRenderer {
	return &ChromiumPDFRenderer{execPath: findBrowser()}
}

// Available reports whether a browser binary was found at construction.
func (r *ChromiumPDFRenderer) Available() bool {
	return r.execPath != ""
}

func (r *ChromiumPDFRenderer) Render(ctx context.Context, htmlDoc string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("data:text/html;base64,"+base64.StdEncoding.EncodeToString([]byte(htmlDoc))),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			params := &page.PrintToPDFParams{
				PrintBackground:     true,
				DisplayHeaderFooter: true,
				HeaderTemplate:      pdfHeaderTemplate,
				FooterTemplate:      pdfFooterTemplate,
				PaperWidth:          paperWidthIn,
				PaperHeight:         paperHeightIn,
				MarginTop:           marginWideIn,
				MarginLeft:          marginWideIn,
				MarginBottom:        marginNarrowIn,
				MarginRight:         marginNarrowIn,
			}
			out, _, err := params.Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	return pdf, nil
}

// findBrowser locates a Chromium binary at the usual install paths, falling
// back to PATH lookup.
func findBrowser() string {
	for _, p := range []string{"/usr/bin/chromium-browser", "/usr/bin/chromium", "/usr/bin/google-chrome"} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, name := range []string{"chromium-browser", "chromium", "google-chrome", "headless-shell"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	return ""
}
