// Command crm is the terminal client for the Vertex CRM API: a searchable,
// sortable client table with an add/edit form.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"vertex-crm/gateway"
	"vertex-crm/monitoring"
	"vertex-crm/tui"
	"vertex-crm/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var apiURL string
	var logFile string
	var metricsAddr string

	defaultURL := os.Getenv("CRM_API_URL")
	if defaultURL == "" {
		defaultURL = gateway.DefaultBaseURL
	}

	flagSet := pflag.NewFlagSet("crm", pflag.ContinueOnError)
	flagSet.StringVar(&apiURL, "api-url", defaultURL, "base URL of the CRM API (env CRM_API_URL)")
	flagSet.StringVar(&logFile, "log-file", "crm.log", "file that receives diagnostic logs")
	flagSet.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address (e.g. :9091)")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	// Logs go to a file so they never draw over the table.
	output, err := tea.LogToFile(logFile, "CRM: ")
	if err != nil {
		return fmt.Errorf("cannot open log file %s: %w", logFile, err)
	}
	defer output.Close()
	logger := log.New(output, "CRM: ", log.LstdFlags|log.Lshortfile)

	config := gateway.Config{BaseURL: apiURL, Logger: logger}
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := utils.InitSentry(dsn, "vertex-crm-client"); err != nil {
			logger.Printf("Sentry disabled: %v", err)
		} else {
			defer utils.FlushSentry()
			config.Reporter = utils.CaptureError
		}
	}

	monitoring.Init()
	if metricsAddr != "" {
		stop := serveMetrics(metricsAddr, logger)
		defer stop()
	}

	client := gateway.NewClient(config)
	logger.Printf("Using API at %s", client.BaseURL())

	model := tui.NewModel(context.Background(), client)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// serveMetrics exposes /metrics on addr until the returned stop is called.
func serveMetrics(addr string, logger *log.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Printf("Serving metrics on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("Metrics server error: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Printf("Metrics server shutdown error: %v", err)
		}
	}
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `crm: terminal client for the Vertex Connections CRM.

Lists clients from the API, with search (/), status filter (s), column
sorting (1-9) and an add/edit form (a, e). Deleting (d) asks for
confirmation first.

Usage:
  crm [flags]

Flags:
%s`, flagSet.FlagUsages())
}
