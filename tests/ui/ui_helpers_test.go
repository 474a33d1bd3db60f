package tests

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/chromedp/chromedp"

	"github.com/bobmcallan/newsletter-portal/tests/common"
)

// newBrowser creates a headless Chrome context using the test config.
func newBrowser(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return common.NewBrowserContext(common.BrowserConfigFromTest())
}

// navigate loads url and waits for the body plus theme script init.
func navigate(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	if err := common.NavigateAndWait(ctx, url, 500); err != nil {
		t.Fatalf("navigate %s: %v", url, err)
	}
}

func screenshotPath(subdir, name string) string {
	return filepath.Join(common.GetScreenshotDir(subdir), name)
}

// takeScreenshot saves a screenshot under the results directory.
func takeScreenshot(t *testing.T, ctx context.Context, subdir, name string) {
	t.Helper()
	if err := common.Screenshot(ctx, screenshotPath(subdir, name)); err != nil {
		t.Logf("screenshot %s failed: %v", name, err)
	}
}

// runPage runs req and reports every failed check.
func runPage(t *testing.T, ctx context.Context, req common.PageRequest) {
	t.Helper()
	resp, err := common.RunPage(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range resp.Failures() {
		t.Errorf("%s: %s", r.Name, r.Detail)
	}
}

func textOf(t *testing.T, ctx context.Context, selector string) string {
	t.Helper()
	var text string
	if err := chromedp.Run(ctx, chromedp.Text(selector, &text, chromedp.ByQuery)); err != nil {
		t.Fatalf("read text of %s: %v", selector, err)
	}
	return text
}
