package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/revlyx/revector/internal/progress"
	"github.com/revlyx/revector/internal/setup"
	"github.com/revlyx/revector/internal/worker/refresh"
	"github.com/revlyx/revector/internal/worker/scan"
	"github.com/revlyx/revector/internal/worker/stats"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// WorkerLogDir specifies where worker log files are stored.
	WorkerLogDir = "logs/worker_logs"

	// ScanWorker crawls the profile ID space and assesses new profiles.
	ScanWorker = "scan"

	// RefreshWorker re-assesses profiles with stale assessments.
	RefreshWorker = "refresh"

	// StatsWorker handles statistics aggregation and chart rendering.
	StatsWorker = "stats"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "worker",
		Usage: "Start the revector workers",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Value:   1,
				Usage:   "Number of workers to start",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  ScanWorker,
				Usage: "Start profile scan workers",
				Action: func(ctx context.Context, c *cli.Command) error {
					return runWorkers(ctx, ScanWorker, c.Int("workers"))
				},
			},
			{
				Name:  RefreshWorker,
				Usage: "Start assessment refresh workers",
				Action: func(ctx context.Context, c *cli.Command) error {
					return runWorkers(ctx, RefreshWorker, c.Int("workers"))
				},
			},
			{
				Name:  StatsWorker,
				Usage: "Start the statistics worker",
				Action: func(ctx context.Context, _ *cli.Command) error {
					// Only one stats worker should run at a time
					return runWorkers(ctx, StatsWorker, 1)
				},
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}

// runWorkers starts multiple instances of a worker type and blocks until they
// all stop.
func runWorkers(ctx context.Context, workerType string, count int64) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := setup.InitializeApp(ctx, setup.ServiceWorker, WorkerLogDir)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Cleanup(context.Background())

	// Stagger startup so workers do not hammer the API at once
	if delay := app.Config.Worker.StartupDelay; delay > 0 {
		time.Sleep(time.Duration(delay) * time.Millisecond)
	}

	// Initialize progress bars
	bars := make([]*progress.Bar, count)
	for i := range count {
		bars[i] = progress.NewBar(100, 25, fmt.Sprintf("Worker %d", i))
	}

	// Create and start the renderer
	renderer := progress.NewRenderer(bars)
	go renderer.Render()

	// Start workers
	var g errgroup.Group

	for i := range count {
		workerLogger := setup.GetWorkerLogger(
			fmt.Sprintf("%s_worker_%d", workerType, i),
			WorkerLogDir,
			app.Config.Common.Debug.LogLevel,
		)
		bar := bars[i]

		var w interface{ Start(context.Context) }

		switch workerType {
		case ScanWorker:
			w, err = scan.New(app, bar, workerLogger)
		case RefreshWorker:
			w, err = refresh.New(app, bar, workerLogger)
		case StatsWorker:
			w = stats.New(app, bar, workerLogger)
		default:
			log.Fatalf("Invalid worker type: %s", workerType)
		}

		if err != nil {
			log.Fatalf("Failed to create %s worker: %v", workerType, err)
		}

		g.Go(func() error {
			runWorker(ctx, w, workerLogger)
			return nil
		})
	}

	log.Printf("Started %d %s workers", count, workerType)

	_ = g.Wait()
	renderer.Stop()
	log.Println("All workers have finished. Exiting.")

	return nil
}

// runWorker runs a single worker in a loop with panic recovery.
func runWorker(ctx context.Context, w interface{ Start(context.Context) }, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("Context cancelled, stopping worker")
			return
		default:
			func() {
				defer func() {
					if r := recover(); r != nil {
						logger.Error("Worker execution failed",
							zap.String("worker_type", fmt.Sprintf("%T", w)),
							zap.Any("panic", r),
						)
						logger.Info("Restarting worker in 5 seconds...")
						time.Sleep(5 * time.Second)
					}
				}()

				logger.Info("Starting worker")
				w.Start(ctx)
			}()

			if ctx.Err() != nil {
				continue
			}

			logger.Warn("Worker stopped unexpectedly",
				zap.String("worker_type", fmt.Sprintf("%T", w)),
			)
			time.Sleep(5 * time.Second)
		}
	}
}
