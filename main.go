package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/sap156/zillow-mcp-server/internal/config"
	"github.com/sap156/zillow-mcp-server/mcpserver"
	"github.com/sap156/zillow-mcp-server/mortgage"
	"github.com/sap156/zillow-mcp-server/zillow"
)

const version = "1.0.0"

func main() {
	httpMode := flag.Bool("http", false, "run as HTTP server instead of stdio")
	host := flag.String("host", "127.0.0.1", "host for HTTP server")
	port := flag.Int("port", 8000, "port for HTTP server")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	// Logging goes to stderr so it never corrupts the stdio transport.
	if *debug {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	}
	if err := godotenv.Load(); err == nil {
		log.Printf("[INFO] loaded environment from .env")
	}

	cfg := config.Load()
	client, err := zillow.NewClient(zillow.Config{
		APIKey:            cfg.APIKey,
		BaseURL:           cfg.BaseURL,
		AttemptTimeout:    cfg.AttemptTimeout,
		CallDeadline:      cfg.CallDeadline,
		MaxAttempts:       cfg.MaxAttempts,
		RetryWaitMin:      cfg.RetryWaitMin,
		RetryWaitMax:      cfg.RetryWaitMax,
		RequestsPerSecond: cfg.UpstreamRPS,
	})
	if err != nil {
		log.Fatalf("zillow client: %v", err)
	}
	calc := mortgage.NewCalculator(mortgage.Rates{
		PropertyTax: cfg.PropertyTaxRate,
		Insurance:   cfg.InsuranceRate,
		PMI:         cfg.PMIRate,
	})

	srv := mcpserver.New(client, calc, version)

	// Startup connectivity probe; an unreachable upstream is reported, not
	// fatal, since check_health surfaces it per call.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := client.CheckHealth(ctx); err != nil {
		log.Printf("[WARN] could not reach Zillow API at startup: %v", err)
	} else {
		log.Printf("[INFO] connected to Zillow API")
	}
	cancel()

	if *httpMode {
		addr := fmt.Sprintf("%s:%d", *host, *port)
		log.Printf("[INFO] zillow-mcp-server %s listening on %s", version, addr)
		if err := http.ListenAndServe(addr, BuildRouter(srv)); err != nil {
			log.Fatal(err)
		}
		return
	}

	log.Printf("[INFO] zillow-mcp-server %s running on stdio", version)
	if err := srv.ServeStdio(); err != nil {
		log.Fatal(err)
	}
}
