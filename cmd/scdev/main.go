// Command scdev is a dev CLI for snapcheck maintenance and debugging tasks.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/chromedp/chromedp"
	"github.com/pkg/browser"

	"github.com/snapcheck/snapcheck/internal/app"
	browseropts "github.com/snapcheck/snapcheck/internal/browser"
	"github.com/snapcheck/snapcheck/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "inspect":
		runInspect()
	case "open":
		if len(os.Args) < 3 {
			fmt.Println("Usage: scdev open <config|artifacts|data>")
			os.Exit(1)
		}
		runOpen(os.Args[2])
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: scdev <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  inspect          Open the target page in a visible browser")
	fmt.Println("  open config      Open config file in default editor")
	fmt.Println("  open artifacts   Open the screenshot directory in file explorer")
	fmt.Println("  open data        Open the data directory in file explorer")
}

// runInspect opens the scenario's target URL in a visible browser so the
// page under test can be eyeballed with the same rendering settings the
// verifier uses.
func runInspect() {
	cfg := loadConfigOrDefault()

	sc, err := app.LoadScenario(cfg)
	if err != nil {
		log.Fatalf("Failed to load scenario: %v", err)
	}

	log.Printf("Opening %s with verifier browser options...", sc.URL)

	opts := browseropts.Options(false) // non-headless so you can see it

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	go func() {
		err := chromedp.Run(ctx,
			chromedp.Navigate(sc.URL),
		)
		if err != nil {
			log.Printf("Failed to navigate: %v", err)
		}
	}()

	fmt.Println("Press Enter to end program...")
	fmt.Scanln()

	log.Println("Done.")
}

func loadConfigOrDefault() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: could not load config: %v (using defaults)", err)
		return config.Default()
	}
	return cfg
}

func runOpen(target string) {
	var path string
	var err error

	switch target {
	case "config":
		path, err = config.ConfigPath()
	case "artifacts":
		path = loadConfigOrDefault().Output.Dir
	case "data":
		path, err = config.DataDir()
	default:
		fmt.Printf("Unknown target: %s\n", target)
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("Failed to get path: %v", err)
	}

	if err := browser.OpenFile(path); err != nil {
		log.Fatalf("Failed to open: %v", err)
	}
}
