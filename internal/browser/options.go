// Package browser provides the shared chromedp allocator configuration.
package browser

import "github.com/chromedp/chromedp"

// Default viewport for captures. Keeping this fixed makes screenshots from
// different runs comparable.
const (
	ViewportWidth  = 1280
	ViewportHeight = 800
)

// Options returns chromedp allocator options for a verification run.
// All browser instances go through this so every run renders the same way.
func Options(headless bool) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.WindowSize(ViewportWidth, ViewportHeight),

		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),

		// WebGL canvases need a GL backend even without a display.
		chromedp.Flag("use-gl", "swiftshader"),
	)

	if headless {
		opts = append(opts, chromedp.Flag("disable-gpu", true))
	}

	return opts
}
