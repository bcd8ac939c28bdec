package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ironsheep/lane-tracker-mcp/internal/config"
	"github.com/ironsheep/lane-tracker-mcp/internal/logging"
	"github.com/ironsheep/lane-tracker-mcp/internal/server"
	"github.com/ironsheep/lane-tracker-mcp/internal/tracker"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("lane-mcp %s (protocol server %s)\n", Version, server.Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "process":
			os.Exit(runProcess(os.Args[2:]))
		}
	}

	cfg, err := config.Load(os.Getenv("LANE_MCP_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync(logger)

	logger.Info("starting lane tracker MCP server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit),
		zap.String("backend", cfg.Backend),
	)

	srv := server.New(cfg, logger)
	defer srv.Close()
	if err := srv.Run(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func printHelp() {
	fmt.Println("lane-mcp - MCP server for lane boundary tracking")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  lane-mcp                                   Serve MCP over stdin/stdout")
	fmt.Println("  lane-mcp process [flags] <frames> <out>    Track lanes over a directory of frames")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Process flags:")
	fmt.Println("  -config <file>   YAML config file")
	fmt.Println("  -stack           Write frame, edges and overlay side by side")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  LANE_MCP_CONFIG=<file>         YAML config file for the server")
	fmt.Println("  LANE_MCP_LOG_LEVEL=debug       Enable debug logging")
	fmt.Println("  LANE_MCP_LOG_MODE=development  Human-readable log output")
	fmt.Println("  LANE_MCP_<SECTION>_<KEY>       Override any config key, e.g. LANE_MCP_HOUGH_THRESHOLD=60")
	fmt.Println()
	fmt.Println("A .env file in the working directory is loaded first.")
}

func runProcess(args []string) int {
	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file")
	stack := fs.Bool("stack", false, "write frame, edges and overlay side by side")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: lane-mcp process [-config file] [-stack] <frames-dir> <out-dir>")
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 1
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		return 1
	}
	defer logging.Sync(logger)

	t, err := tracker.New(cfg, tracker.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create tracker", zap.Error(err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := tracker.RunDirectory(ctx, t, fs.Arg(0), fs.Arg(1), *stack)
	if summary != nil {
		fmt.Printf("frames=%d failed=%d left=%d right=%d both=%d\n",
			summary.Frames, summary.Failed, summary.WithLeft, summary.WithRight, summary.WithBoth)
	}
	if err != nil {
		logger.Error("run failed", zap.Error(err))
		return 1
	}
	return 0
}
