package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

type BrowserConfig struct {
	Headless bool
	Timeout  time.Duration
}

func DefaultBrowserConfig() *BrowserConfig {
	return &BrowserConfig{
		Headless: true,
		Timeout:  30 * time.Second,
	}
}

func NewBrowserContext(cfg *BrowserConfig) (context.Context, context.CancelFunc) {
	if cfg == nil {
		cfg = DefaultBrowserConfig()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, ctxCancel := chromedp.NewContext(allocCtx)
	ctx, timeoutCancel := context.WithTimeout(ctx, cfg.Timeout)

	cancel := func() {
		timeoutCancel()
		ctxCancel()
		allocCancel()
	}
	return ctx, cancel
}

// JSErrorCollector records uncaught exceptions and console.error calls.
// Create it before navigating.
type JSErrorCollector struct {
	mu     sync.Mutex
	errors []string
}

func NewJSErrorCollector(ctx context.Context) *JSErrorCollector {
	c := &JSErrorCollector{}

	chromedp.ListenTarget(ctx, func(ev interface{}) {
		c.mu.Lock()
		defer c.mu.Unlock()

		switch e := ev.(type) {
		case *runtime.EventExceptionThrown:
			desc := e.ExceptionDetails.Text
			if e.ExceptionDetails.Exception != nil && e.ExceptionDetails.Exception.Description != "" {
				desc = e.ExceptionDetails.Exception.Description
			}
			c.errors = append(c.errors, "EXCEPTION: "+desc)

		case *runtime.EventConsoleAPICalled:
			if e.Type != runtime.APITypeError {
				return
			}
			var parts []string
			for _, arg := range e.Args {
				if arg.Value != nil {
					parts = append(parts, string(arg.Value))
				} else if arg.Description != "" {
					parts = append(parts, arg.Description)
				}
			}
			if msg := strings.Join(parts, " "); msg != "" && !strings.Contains(msg, "favicon") {
				c.errors = append(c.errors, "console.error: "+msg)
			}
		}
	})

	return c
}

func (c *JSErrorCollector) Errors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.errors))
	copy(out, c.errors)
	return out
}

func NavigateAndWait(ctx context.Context, url string, waitMs int) error {
	if waitMs == 0 {
		waitMs = 500
	}
	return chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.Sleep(time.Duration(waitMs)*time.Millisecond),
	)
}

func Exists(ctx context.Context, selector string) (bool, error) {
	var exists bool
	err := chromedp.Run(ctx,
		chromedp.Evaluate(fmt.Sprintf(`document.querySelector('%s') !== null`, escJS(selector)), &exists),
	)
	return exists, err
}

func TextContains(ctx context.Context, selector, expected string) (bool, string, error) {
	var actual string
	err := chromedp.Run(ctx,
		chromedp.Evaluate(fmt.Sprintf(`
			(() => {
				const el = document.querySelector('%s');
				return el ? el.textContent.trim() : '';
			})()
		`, escJS(selector)), &actual),
	)
	if err != nil {
		return false, "", err
	}
	return strings.Contains(actual, expected), actual, nil
}

func Screenshot(ctx context.Context, path string) error {
	var buf []byte
	if err := chromedp.Run(ctx, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

// RootClass returns the class attribute of the <html> element.
func RootClass(ctx context.Context) (string, error) {
	var class string
	err := chromedp.Run(ctx, chromedp.Evaluate(`document.documentElement.className`, &class))
	return class, err
}

// ToggleTheme clicks the header theme toggle and waits for the page to settle.
func ToggleTheme(ctx context.Context, waitMs int) error {
	if waitMs == 0 {
		waitMs = 300
	}
	return chromedp.Run(ctx,
		chromedp.Click(`button[data-theme]`, chromedp.ByQuery),
		chromedp.Sleep(time.Duration(waitMs)*time.Millisecond),
	)
}

// RootHasClassExpr is a JS expression true when <html> carries class.
func RootHasClassExpr(class string) string {
	return fmt.Sprintf(`document.documentElement.classList.contains('%s')`, escJS(class))
}

type CheckResult struct {
	Name   string
	Pass   bool
	Detail string
}

// PageRequest loads URL, optionally at a viewport size, clicks the theme
// toggle Toggles times, then evaluates Checks ("selector|state") and Evals
// (JS expressions that must be truthy).
//
// States: visible, exists, gone, text=<substring>, count=<n>.
type PageRequest struct {
	URL        string
	Viewport   string // "WIDTHxHEIGHT"
	WaitMs     int
	Toggles    int
	Checks     []string
	Evals      []string
	Screenshot string
}

type PageResponse struct {
	Results []CheckResult
	Passed  int
	Failed  int
}

// Failures returns the results that did not pass.
func (r *PageResponse) Failures() []CheckResult {
	var out []CheckResult
	for _, res := range r.Results {
		if !res.Pass {
			out = append(out, res)
		}
	}
	return out
}

func (r *PageResponse) add(res CheckResult) {
	r.Results = append(r.Results, res)
	if res.Pass {
		r.Passed++
	} else {
		r.Failed++
	}
}

func RunPage(ctx context.Context, req PageRequest) (*PageResponse, error) {
	var actions []chromedp.Action
	if req.Viewport != "" {
		w, h, err := parseViewport(req.Viewport)
		if err != nil {
			return nil, err
		}
		actions = append(actions, chromedp.EmulateViewport(w, h))
	}
	if err := chromedp.Run(ctx, actions...); err != nil {
		return nil, fmt.Errorf("viewport %s: %w", req.Viewport, err)
	}
	if err := NavigateAndWait(ctx, req.URL, req.WaitMs); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", req.URL, err)
	}

	resp := &PageResponse{}
	for i := 0; i < req.Toggles; i++ {
		name := fmt.Sprintf("toggle(%d)", i+1)
		if err := ToggleTheme(ctx, 0); err != nil {
			resp.add(CheckResult{Name: name, Detail: err.Error()})
		} else {
			resp.add(CheckResult{Name: name, Pass: true, Detail: "ok"})
		}
	}

	for _, c := range req.Checks {
		sel, state, ok := strings.Cut(c, "|")
		if !ok {
			resp.add(CheckResult{Name: c, Detail: "bad format, need selector|state"})
			continue
		}
		resp.add(runCheck(ctx, sel, state))
	}

	for _, expr := range req.Evals {
		var ok bool
		err := chromedp.Run(ctx, chromedp.Evaluate(fmt.Sprintf(`Boolean(%s)`, expr), &ok))
		res := CheckResult{Name: fmt.Sprintf("eval(%s)", expr), Pass: err == nil && ok}
		if err != nil {
			res.Detail = err.Error()
		} else {
			res.Detail = fmt.Sprintf("returned: %v", ok)
		}
		resp.add(res)
	}

	if req.Screenshot != "" {
		if err := Screenshot(ctx, req.Screenshot); err != nil {
			return resp, fmt.Errorf("screenshot failed: %w", err)
		}
	}
	return resp, nil
}

// runCheck evaluates one selector state in a single round trip.
func runCheck(ctx context.Context, selector, state string) CheckResult {
	name := fmt.Sprintf("check(%s|%s)", selector, state)

	var probe struct {
		Count   int    `json:"count"`
		Visible bool   `json:"visible"`
		Text    string `json:"text"`
	}
	err := chromedp.Run(ctx, chromedp.Evaluate(fmt.Sprintf(`
		(() => {
			const all = document.querySelectorAll('%s');
			const el = all[0];
			return {
				count: all.length,
				visible: !!el && getComputedStyle(el).display !== 'none',
				text: el ? el.textContent.trim() : '',
			};
		})()
	`, escJS(selector)), &probe))
	if err != nil {
		return CheckResult{Name: name, Detail: err.Error()}
	}

	switch {
	case state == "visible":
		return CheckResult{Name: name, Pass: probe.Visible, Detail: fmt.Sprintf("visible=%v", probe.Visible)}
	case state == "exists":
		return CheckResult{Name: name, Pass: probe.Count > 0, Detail: fmt.Sprintf("count=%d", probe.Count)}
	case state == "gone":
		return CheckResult{Name: name, Pass: probe.Count == 0, Detail: fmt.Sprintf("count=%d", probe.Count)}
	case strings.HasPrefix(state, "text="):
		want := strings.TrimPrefix(state, "text=")
		return CheckResult{Name: name, Pass: strings.Contains(probe.Text, want), Detail: "got: " + probe.Text}
	case strings.HasPrefix(state, "count="):
		want, err := strconv.Atoi(strings.TrimPrefix(state, "count="))
		if err != nil {
			return CheckResult{Name: name, Detail: err.Error()}
		}
		return CheckResult{Name: name, Pass: probe.Count == want, Detail: fmt.Sprintf("count=%d", probe.Count)}
	default:
		return CheckResult{Name: name, Detail: "unknown state: " + state}
	}
}

func parseViewport(s string) (int64, int64, error) {
	ws, hs, ok := strings.Cut(s, "x")
	w, errW := strconv.ParseInt(ws, 10, 64)
	h, errH := strconv.ParseInt(hs, 10, 64)
	if !ok || errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid viewport %q, want WIDTHxHEIGHT", s)
	}
	return w, h, nil
}

func escJS(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return s
}
