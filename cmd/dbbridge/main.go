package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"dbbridge/internal/config"
	"dbbridge/internal/driver"
	"dbbridge/internal/security"
	"dbbridge/internal/storage"
	"dbbridge/internal/worker"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	// Custom Usage/Help Message
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "dbbridge %s\n\n", version)
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  dbbridge -query \"SELECT ...\" [flags]\n")
		fmt.Fprintf(os.Stderr, "  dbbridge -exec \"CREATE TABLE ...\" [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  DB_BACKEND   postgres or mysql (default postgres)\n")
		fmt.Fprintf(os.Stderr, "  DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME\n")
		fmt.Fprintf(os.Stderr, "  STORAGE_TYPE local or s3; S3_BUCKET et al for s3\n")
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  export DB_BACKEND=postgres DB_HOST=localhost DB_USER=me DB_NAME=app\n")
		fmt.Fprintf(os.Stderr, "  dbbridge -query \"SELECT id, name FROM users\" -format csv\n")
	}

	showVersion := flag.Bool("version", false, "Show version")
	query := flag.String("query", "", "SELECT statement to export")
	exec := flag.String("exec", "", "Statement to execute without a result set (DDL/DML)")
	format := flag.String("format", "csv", "Export format: csv, json, excel, pdf")
	flag.Parse()

	if *showVersion {
		fmt.Printf("dbbridge %s\n", version)
		os.Exit(0)
	}

	_ = godotenv.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	if *query == "" && *exec == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DefaultTimeout)
	defer cancel()

	if *exec != "" {
		runExec(ctx, cfg, *exec)
		return
	}

	runExport(ctx, cfg, *query, *format)
}

func newConnection(backend string) (driver.Connection, error) {
	switch strings.ToLower(backend) {
	case "postgres", "postgresql":
		return driver.NewPostgresConnection(), nil
	case "mysql":
		return driver.NewMySQLConnection(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

func runExec(ctx context.Context, cfg *config.Config, statement string) {
	conn, err := newConnection(cfg.Backend)
	if err != nil {
		slog.Error("Invalid backend", "error", err)
		os.Exit(1)
	}

	if err := conn.Connect(ctx, cfg.DriverConfig()); err != nil {
		slog.Error("Failed to connect", "backend", cfg.Backend, "error", err)
		os.Exit(1)
	}
	defer conn.Disconnect()

	if err := conn.Execute(ctx, statement); err != nil {
		slog.Error("Statement failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Statement executed")
}

func runExport(ctx context.Context, cfg *config.Config, statement, format string) {
	if err := security.ValidateStatement(statement); err != nil {
		slog.Error("Statement rejected", "error", err)
		os.Exit(1)
	}

	// Reject an unknown backend here; inside a worker it would only surface
	// as a failed job.
	if _, err := newConnection(cfg.Backend); err != nil {
		slog.Error("Invalid backend", "error", err)
		os.Exit(1)
	}

	store, err := newStorageProvider(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	factory := func() driver.Connection {
		conn, _ := newConnection(cfg.Backend)
		return conn
	}

	pool := worker.NewPool(cfg.WorkerCount, cfg.MaxDBSessions, factory, cfg.DriverConfig(), store, cfg.Compression)
	pool.Start()
	defer pool.Stop()

	job := worker.NewExportJob(statement, format, cfg.DefaultTimeout)
	defer job.Cancel()

	if !pool.Submit(job) {
		slog.Error("Job queue full")
		os.Exit(1)
	}

	select {
	case <-job.Done():
	case <-ctx.Done():
		slog.Error("Export timed out")
		os.Exit(1)
	}

	if job.Status == worker.StatusFailed {
		slog.Error("Export failed", "job_id", job.ID, "error", job.Error)
		os.Exit(1)
	}

	slog.Info("Export completed",
		"job_id", job.ID,
		"rows", job.Stats.RowsProcessed,
		"duration", job.Stats.Duration.String(),
		"url", store.GetDownloadURL(job.Key),
	)
}

func newStorageProvider(ctx context.Context, cfg *config.Config) (storage.Provider, error) {
	if cfg.StorageType != "s3" {
		return storage.NewLocalProvider(cfg.LocalStoragePath), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = cfg.S3PathStyle
	})

	return storage.NewS3Provider(client, cfg.S3Bucket), nil
}
