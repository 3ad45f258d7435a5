package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/movetrack/tracksync"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "run":
		err = runCommand(os.Args[2:])
	case "once":
		err = onceCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "stats":
		err = statsCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("track-sync %s: %v", cmd, err)
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "./config.yaml", "Path to sync configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	flow, err := tracksync.Conf(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return flow.Run(ctx)
}

func onceCommand(args []string) error {
	fs := flag.NewFlagSet("once", flag.ExitOnError)
	cfgPath := fs.String("config", "./config.yaml", "Path to sync configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := tracksync.LoadConfig(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	rt, err := tracksync.NewRuntime(cfg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rt.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := rt.RunOnce(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("synced %d measurements, %d points, %d bytes\n",
		res.MeasurementsSynced, res.PointsUploaded, res.BytesUploaded)
	if res.HasError() {
		return fmt.Errorf("finished with errors: parse=%d auth=%d io=%d conflict=%d db=%t",
			res.ParseErrors, res.AuthErrors, res.IOErrors, res.ConflictErrors, res.DatabaseError)
	}
	return nil
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "./config.yaml", "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := tracksync.LoadConfig(*cfgPath); err != nil {
		return err
	}
	fmt.Printf("config %s looks good\n", *cfgPath)
	return nil
}

func statsCommand(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	url := fs.String("url", "http://localhost:9100/metrics", "Prometheus metrics endpoint")
	interval := fs.Duration("interval", 2*time.Second, "Refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	fmt.Printf("Streaming metrics from %s (Ctrl+C to stop)\n", *url)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := printMetricsSnapshot(*url); err != nil {
				fmt.Fprintf(os.Stderr, "stats error: %v\n", err)
			}
		}
	}
}

func printMetricsSnapshot(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	targets := map[string]float64{
		"tracksync_points_uploaded_total": 0,
		"tracksync_bytes_uploaded_total":  0,
		"tracksync_points_pending":        0,
		"tracksync_sync_running":          0,
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		for key := range targets {
			if strings.HasPrefix(line, key+" ") {
				var value float64
				if _, err := fmt.Sscanf(line, key+" %f", &value); err == nil {
					targets[key] = value
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fmt.Printf("[%s] points=%f bytes=%f pending=%f running=%f\n",
		time.Now().Format(time.RFC3339),
		targets["tracksync_points_uploaded_total"],
		targets["tracksync_bytes_uploaded_total"],
		targets["tracksync_points_pending"],
		targets["tracksync_sync_running"],
	)
	return nil
}

func printUsage() {
	fmt.Printf(`track-sync CLI

Usage:
  track-sync <command> [flags]

Commands:
  run        Sync on the configured interval until interrupted
  once       Perform a single sync pass and exit
  validate   Load and validate a config file without syncing
  stats      Poll the Prometheus metrics endpoint and print live counters

Examples:
  track-sync run -config ./config.yaml
  track-sync once -config ./config.yaml
  track-sync validate -config ./config.yaml
  track-sync stats -url http://localhost:9100/metrics -interval 1s
`)
}
