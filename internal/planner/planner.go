package planner

import (
	"fmt"

	"github.com/rjindal/segfetch/internal/utils"
)

// Plan splits [0, totalSize) into at most connections segments. Range
// requests on the wire are end-inclusive, so every segment after the
// first starts one byte past the arithmetic boundary: the boundary byte
// itself is delivered by the previous segment's request. The last
// segment's EndByte equals totalSize; servers clamp the over-long range.
func Plan(totalSize int64, connections int, rangeSupported bool) ([]utils.Segment, error) {
	if connections < 1 || totalSize < 0 {
		return nil, fmt.Errorf("%w: size=%d connections=%d", utils.ErrInvalidPlan, totalSize, connections)
	}
	if totalSize == 0 || !rangeSupported {
		return []utils.Segment{{ID: 0, StartByte: 0, EndByte: totalSize}}, nil
	}
	partCount := int64(connections)
	partSize := (totalSize + partCount - 1) / partCount
	segments := make([]utils.Segment, 0, connections)
	for i := int64(0); i < partCount; i++ {
		start := i*partSize + min(1, i)
		end := min((i+1)*partSize, totalSize)
		if start > end || start >= totalSize {
			continue
		}
		segments = append(segments, utils.Segment{
			ID:        len(segments),
			StartByte: start,
			EndByte:   end,
		})
	}
	return segments, nil
}
