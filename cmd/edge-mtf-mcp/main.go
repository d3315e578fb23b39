package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/edge-mtf-mcp/internal/config"
	"github.com/ironsheep/edge-mtf-mcp/internal/logger"
	"github.com/ironsheep/edge-mtf-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const usage = `edge-mtf-mcp - MCP server for slanted-edge MTF measurement

Usage: edge-mtf-mcp [options]

Options:
  --version, -v        Print version information
  --help, -h           Print this help message
  --config <file>      Read settings from a TOML file
  --http <addr>        Serve MCP over HTTP on addr instead of stdin/stdout

Environment variables:
  EDGE_MTF_LOG_LEVEL=debug         Log level (debug, info, warn, error)
  EDGE_MTF_LOG_FORMAT=json         Log format (text, json)
  EDGE_MTF_HTTP_ADDR=:8080         Same as --http
  EDGE_MTF_PIXEL_PITCH_UM=2.0      Default sensor pixel pitch
  EDGE_MTF_BINNING=4               Default ESF binning factor
  EDGE_MTF_LUMINANCE=luma          Default grayscale conversion
  AZURE_STORAGE_ACCOUNT, AZURE_STORAGE_KEY
                                   Enable azblob://container/blob image paths

Without --http the server communicates via MCP protocol over stdin/stdout.
Configure it in your MCP client (e.g., Claude Desktop).
`

func main() {
	flags := flag.NewFlagSet("edge-mtf-mcp", flag.ExitOnError)
	flags.Usage = func() { fmt.Fprint(os.Stderr, usage) }

	var showVersion, showHelp bool
	flags.BoolVar(&showVersion, "version", false, "")
	flags.BoolVar(&showVersion, "v", false, "")
	flags.BoolVar(&showHelp, "help", false, "")
	flags.BoolVar(&showHelp, "h", false, "")
	configPath := flags.String("config", "", "")
	httpAddr := flags.String("http", "", "")
	_ = flags.Parse(os.Args[1:])

	switch {
	case showVersion:
		fmt.Printf("edge-mtf-mcp %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case showHelp:
		fmt.Print(usage)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}

	// stdout is reserved for the MCP protocol
	lg, err := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}
	lg.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"commit":     GitCommit,
	}).Debug("Edge MTF MCP server starting")

	server.Version = Version
	srv, err := server.New(cfg, lg)
	if err != nil {
		lg.WithError(err).Fatal("Failed to initialize server")
	}

	if cfg.HTTPAddr == "" {
		if err := srv.Run(); err != nil {
			lg.WithError(err).Fatal("Server error")
		}
		return
	}

	serveHTTP(cfg.HTTPAddr, srv.NewHTTPHandler(), lg)
}

// serveHTTP runs the HTTP transport until SIGINT or SIGTERM.
func serveHTTP(addr string, handler http.Handler, lg *logrus.Logger) {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.WithField("address", addr).Info("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		lg.WithError(err).Fatal("Server forced to shutdown")
	}
	lg.Info("Server exited")
}
