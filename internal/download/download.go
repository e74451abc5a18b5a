package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rjindal/segfetch/internal/planner"
	"github.com/rjindal/segfetch/internal/progress"
	"github.com/rjindal/segfetch/internal/sources"
	"github.com/rjindal/segfetch/internal/utils"
	"github.com/rjindal/segfetch/internal/verify"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	URL             string
	SaveAs          string
	DestinationDir  string
	Connections     int
	BufferSize      int
	UpdateFrequency time.Duration
	BearerToken     string
	OnProgress      func(utils.ProgressSnapshot)
	OnComplete      func(utils.CompletionResult)
}

// Run drives a transfer end to end: probe, plan, pre-size, concurrent
// segment fetches behind a join barrier, then verification. Probe and
// plan failures abort before any file is created; transfer failures
// leave the partial file in place.
func Run(ctx context.Context, src sources.Source, opts Options) (*utils.CompletionResult, error) {
	log := utils.GetLogger("download")
	if opts.Connections < 1 {
		opts.Connections = utils.DefaultConnections
	}
	if opts.BufferSize < 1 {
		opts.BufferSize = utils.DefaultBufferSize
	}
	if opts.UpdateFrequency <= 0 {
		opts.UpdateFrequency = time.Duration(utils.DefaultUpdateFrequencyMs) * time.Millisecond
	}

	info, err := src.Probe(ctx)
	if err != nil {
		return nil, fmt.Errorf("probe failed: %v", err)
	}
	outputPath := utils.ResolveOutputPath(opts.SaveAs, info.Filename, opts.URL, opts.DestinationDir)
	if opts.SaveAs == "" {
		if _, err := os.Stat(outputPath); err == nil {
			outputPath = utils.RenewOutputPath(outputPath)
		}
	}

	job := utils.DownloadJob{
		ID:             uuid.NewString(),
		URL:            opts.URL,
		OutputPath:     outputPath,
		TotalSize:      info.Size,
		RangeSupported: info.RangeSupported,
		Connections:    opts.Connections,
		BufferSize:     opts.BufferSize,
		BearerToken:    opts.BearerToken,
		ExpectedHash:   info.ContentHash,
	}
	job.Segments, err = planner.Plan(info.Size, opts.Connections, info.RangeSupported)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("jobId", job.ID).Str("output", outputPath).Int64("size", info.Size).Int("segments", len(job.Segments)).Msg("Transfer planned")

	// Pre-size the destination so every worker can seek to its offset
	// within a file of the final length.
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, fmt.Errorf("error creating output directory: %v", err)
	}
	outFile, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("error creating output file: %v", err)
	}
	if err := outFile.Truncate(info.Size); err != nil {
		outFile.Close()
		return nil, fmt.Errorf("error pre-sizing output file: %v", err)
	}
	outFile.Close()

	agg := progress.NewAggregator(outputPath, info.Size, opts.UpdateFrequency, opts.OnProgress)
	agg.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(job.Connections)
	for i := range job.Segments {
		seg := &job.Segments[i]
		g.Go(func() error {
			return fetchSegment(gctx, src, &job, seg, agg)
		})
	}
	err = g.Wait()
	agg.Stop()
	if err != nil {
		log.Debug().Str("jobId", job.ID).Err(err).Msg("Transfer failed")
		return nil, fmt.Errorf("transfer failed: %w", err)
	}

	result := utils.CompletionResult{
		Downloaded: agg.Snapshot().Downloaded,
		TotalSize:  info.Size,
		OutputPath: outputPath,
		Success:    true,
	}
	var verifyErr error
	if info.ContentHash != "" {
		result.HashChecked = true
		if verifyErr = verify.Verify(outputPath, info.ContentHash); verifyErr != nil {
			result.Success = false
		}
	}
	if opts.OnProgress != nil {
		opts.OnProgress(utils.ProgressSnapshot{
			Downloaded: info.Size,
			TotalSize:  info.Size,
			OutputPath: outputPath,
		})
	}
	if opts.OnComplete != nil {
		opts.OnComplete(result)
	}
	log.Debug().Str("jobId", job.ID).Int64("downloaded", result.Downloaded).Bool("success", result.Success).Msg("Transfer completed")
	return &result, verifyErr
}
