package utils

// DownloadJob holds everything a single transfer needs. It is built once
// from probe results and caller configuration and is not modified after
// segment planning, except for the per-segment byte counters which are
// owned by their workers.
type DownloadJob struct {
	ID             string
	URL            string
	OutputPath     string
	TotalSize      int64
	RangeSupported bool
	Connections    int
	BufferSize     int
	BearerToken    string
	ExpectedHash   string
	Segments       []Segment
}

// Segment is one contiguous byte range of the resource. StartByte and
// EndByte are both sent on the wire (end-inclusive range requests), so
// adjacent segments satisfy prev.EndByte+1 == next.StartByte.
type Segment struct {
	ID         int
	StartByte  int64
	EndByte    int64
	Downloaded int64
}

type ProgressSnapshot struct {
	Downloaded int64
	TotalSize  int64
	OutputPath string
}

// CompletionResult is emitted exactly once, after all segments have
// joined and verification (when a declared hash exists) has run.
type CompletionResult struct {
	Downloaded  int64
	TotalSize   int64
	OutputPath  string
	HashChecked bool
	Success     bool
}
