package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/iudanet/syncpad/internal/server"
	"github.com/iudanet/syncpad/internal/server/config"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")

	// LoadConfig registers its own flags and calls flag.Parse
	cfg := config.LoadConfig()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	ctx := context.Background()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func printVersion() {
	fmt.Printf("Syncpad Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
