// myks-init stores the Apps Script web-app URL in the local settings
// database and probes the deployment with a bet fetch, so a broken URL
// is caught before the server ever starts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"myks/internal/cli"
	"myks/internal/ledger"
	"myks/internal/ledger/webapp"
	"myks/internal/log"
)

func main() {
	urlFlag := flag.String("url", "", "Apps Script web-app /exec URL to store")
	skipProbe := flag.Bool("skip-probe", false, "store the URL without contacting the deployment")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.InitSettings(logger, cfg)
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *urlFlag != "" {
		if err := store.SetWebAppURL(ctx, *urlFlag); err != nil {
			logger.Error("Failed to store web-app URL", log.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Stored web-app URL")
	}

	current, err := store.WebAppURL(ctx)
	if err != nil {
		logger.Error("Failed to read stored URL", log.FieldError, err)
		os.Exit(1)
	}
	if current == "" {
		fmt.Fprintln(os.Stderr, "no web-app URL stored; pass -url or set WEB_APP_URL")
		os.Exit(1)
	}

	if *skipProbe {
		logger.Info("Skipping deployment probe", "url", current)
		return
	}

	client := webapp.New(store)
	bets, err := client.FetchBets(ctx)
	if err != nil {
		logger.Error("Deployment probe failed", log.FieldError, err)
		if ledger.IsDeployment(err) {
			fmt.Fprintln(os.Stderr, "The URL does not answer like an Apps Script web app. Check that the deployment is published with access set to 'Anyone'.")
		}
		os.Exit(1)
	}

	logger.Info("Deployment reachable", log.FieldCount, len(bets))
	fmt.Printf("ok: %d bets visible through %s\n", len(bets), current)
}
