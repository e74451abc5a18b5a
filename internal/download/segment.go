package download

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rjindal/segfetch/internal/progress"
	"github.com/rjindal/segfetch/internal/sources"
	"github.com/rjindal/segfetch/internal/utils"
)

// fetchSegment downloads one byte range and writes it through its own
// file handle seeked to the segment start. Every chunk is written and
// then reported to the aggregator exactly once. Errors are returned to
// the join barrier; there are no retries at this layer.
func fetchSegment(ctx context.Context, src sources.Source, job *utils.DownloadJob, seg *utils.Segment, agg *progress.Aggregator) error {
	log := utils.GetLogger("segment").With().Str("jobId", job.ID).Int("segmentId", seg.ID).Logger()
	if job.TotalSize == 0 {
		log.Debug().Msg("Zero-length resource, nothing to fetch")
		return nil
	}

	var body io.ReadCloser
	var err error
	if job.RangeSupported {
		log.Debug().Int64("start", seg.StartByte).Int64("end", seg.EndByte).Msg("Sending range request")
		body, err = src.FetchRange(ctx, seg.StartByte, seg.EndByte)
	} else {
		body, err = src.Fetch(ctx)
	}
	if err != nil {
		return fmt.Errorf("segment %d fetch: %v", seg.ID, err)
	}
	defer body.Close()

	outFile, err := os.OpenFile(job.OutputPath, os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("segment %d: error opening output file: %v", seg.ID, err)
	}
	defer outFile.Close()
	if _, err := outFile.Seek(seg.StartByte, io.SeekStart); err != nil {
		return fmt.Errorf("segment %d: error seeking to offset %d: %v", seg.ID, seg.StartByte, err)
	}

	buffer := make([]byte, job.BufferSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		bytesRead, err := body.Read(buffer)
		if bytesRead > 0 {
			if _, writeErr := outFile.Write(buffer[:bytesRead]); writeErr != nil {
				return fmt.Errorf("segment %d: error writing to output file: %v", seg.ID, writeErr)
			}
			seg.Downloaded += int64(bytesRead)
			agg.Add(int64(bytesRead))
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("segment %d: error reading response body: %v", seg.ID, err)
		}
	}
	log.Debug().Int64("downloaded", seg.Downloaded).Msg("Segment completed")
	return nil
}
