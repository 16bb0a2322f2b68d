package worker

import (
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"dbbridge/internal/driver"
	"dbbridge/internal/exporter"
	"dbbridge/internal/storage"

	"golang.org/x/sync/semaphore"
)

// ConnectionFactory produces a fresh, unconnected driver instance for each
// job. Distinct instances are independent, so jobs can run concurrently
// without sharing a session.
type ConnectionFactory func() driver.Connection

// Pool manages concurrent export jobs and limits database load.
// It implements a worker pool pattern with a separate semaphore for DB sessions,
// allowing for fine-grained control over resource usage.
type Pool struct {
	// jobQueue allows for buffering incoming requests before workers pick them up.
	jobQueue chan *ExportJob
	workers  int
	// dbSem restricts the number of concurrently open database sessions.
	dbSem *semaphore.Weighted
	wg    sync.WaitGroup
	quit  chan struct{}

	newConn ConnectionFactory
	dbCfg   driver.Config
	storage storage.Provider
	useGzip bool
}

// NewPool initializes a worker pool with the specified configuration.
// It does not start the workers; call Start() to begin processing.
func NewPool(workers int, maxDBSessions int64, newConn ConnectionFactory, dbCfg driver.Config, store storage.Provider, useGzip bool) *Pool {
	return &Pool{
		jobQueue: make(chan *ExportJob, 100), // Bounded buffer to prevent infinite memory growth
		workers:  workers,
		dbSem:    semaphore.NewWeighted(maxDBSessions),
		quit:     make(chan struct{}),
		newConn:  newConn,
		dbCfg:    dbCfg,
		storage:  store,
		useGzip:  useGzip,
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.workerLoop(i)
	}
	slog.Info("Worker pool started", "workers", p.workers)
}

func (p *Pool) Submit(job *ExportJob) bool {
	select {
	case p.jobQueue <- job:
		return true
	case <-p.quit:
		return false
	default:
		// Queue full
		return false
	}
}

// Stop initiates graceful shutdown
func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()
	slog.Info("Worker pool stopped")
}

func (p *Pool) workerLoop(id int) {
	defer p.wg.Done()
	slog.Debug("Worker started", "worker_id", id)

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			p.processJob(id, job)
		case <-p.quit:
			return
		}
	}
}

func (p *Pool) processJob(workerID int, job *ExportJob) {
	slog.Info("Processing job", "worker_id", workerID, "job_id", job.ID)

	job.Started = time.Now()
	job.Status = StatusProcessing

	// 1. Acquire a DB session slot
	if err := p.dbSem.Acquire(job.Ctx, 1); err != nil {
		p.failJob(job, fmt.Errorf("failed to acquire db session slot: %w", err))
		return
	}

	err := p.executeExport(job)
	p.dbSem.Release(1)

	if err != nil {
		p.failJob(job, err)
		return
	}

	job.Status = StatusCompleted
	job.Finished = time.Now()
	close(job.done)

	slog.Info("Job completed", "job_id", job.ID, "rows", job.Stats.RowsProcessed, "key", job.Key)
}

func (p *Pool) executeExport(job *ExportJob) error {
	// Setup Pipeline
	ext := job.Format
	if ext == "" {
		ext = "csv"
	}
	if ext == "excel" {
		ext = "xlsx"
	}

	if p.useGzip {
		job.Key = fmt.Sprintf("exports/%s.%s.gz", job.ID, ext)
	} else {
		job.Key = fmt.Sprintf("exports/%s.%s", job.ID, ext)
	}

	// Each job gets its own session; one Connection instance is never shared
	// between workers.
	conn := p.newConn()
	if conn == nil {
		return fmt.Errorf("connection factory returned no driver")
	}
	if err := conn.Connect(job.Ctx, p.dbCfg); err != nil {
		return fmt.Errorf("connect failed: %w", err)
	}
	defer conn.Disconnect()

	// Start Storage Upload in background (it reads from pipe)
	storageWriter, errChan := p.storage.StreamToFile(job.Ctx, job.Key)

	// Prepare Output Writer (maybe wrapped in Gzip)
	var finalWriter io.WriteCloser
	if p.useGzip {
		finalWriter = gzip.NewWriter(storageWriter)
	} else {
		finalWriter = storageWriter
	}

	// Choose Encoder
	var encoder exporter.RowEncoder
	switch job.Format {
	case "json":
		encoder = exporter.NewJSONEncoder(finalWriter)
	case "excel":
		encoder = exporter.NewExcelEncoder(finalWriter)
	case "pdf":
		encoder = exporter.NewPDFEncoder(finalWriter)
	default:
		encoder = exporter.NewCSVEncoder(finalWriter)
	}

	// Run Export (DB -> Encoder -> [Gzip?] -> Pipe -> Storage)
	stats, exportErr := exporter.NewStreamer(conn).StreamQuery(job.Ctx, job.Statement, encoder)

	// Close Encoder (some formats need to finish writing/flushing)
	encoderCloseErr := encoder.Close()

	// Close Writers
	// If Gzip, close it first to flush footer
	var outputCloseErr error
	if gw, ok := finalWriter.(*gzip.Writer); ok {
		outputCloseErr = gw.Close()
	}

	// Then close the underlying storage writer (the pipe)
	storageCloseErr := storageWriter.Close()

	// Wait for upload result
	uploadErr := <-errChan

	if exportErr != nil {
		return fmt.Errorf("export failed: %w", exportErr)
	}
	if encoderCloseErr != nil {
		return fmt.Errorf("encoder close failed: %w", encoderCloseErr)
	}
	if outputCloseErr != nil {
		return fmt.Errorf("gzip close failed: %w", outputCloseErr)
	}
	if storageCloseErr != nil {
		return fmt.Errorf("storage close failed: %w", storageCloseErr)
	}
	if uploadErr != nil {
		return fmt.Errorf("upload failed: %w", uploadErr)
	}

	job.Stats = stats
	return nil
}

func (p *Pool) failJob(job *ExportJob, err error) {
	job.Status = StatusFailed
	job.Error = err
	job.Finished = time.Now()
	close(job.done)
	slog.Error("Job failed", "job_id", job.ID, "error", err)
}
