package progress

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rjindal/segfetch/internal/utils"
)

// Aggregator accumulates bytes transferred across segment workers and
// periodically emits snapshots to a single callback. The counter is a
// plain atomic; workers call Add concurrently without coordination.
type Aggregator struct {
	downloaded atomic.Int64
	totalSize  int64
	outputPath string
	interval   time.Duration
	onProgress func(utils.ProgressSnapshot)

	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewAggregator(outputPath string, totalSize int64, interval time.Duration, onProgress func(utils.ProgressSnapshot)) *Aggregator {
	if interval <= 0 {
		interval = time.Duration(utils.DefaultUpdateFrequencyMs) * time.Millisecond
	}
	return &Aggregator{
		totalSize:  totalSize,
		outputPath: outputPath,
		interval:   interval,
		onProgress: onProgress,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

func (a *Aggregator) Add(n int64) {
	a.downloaded.Add(n)
}

func (a *Aggregator) Snapshot() utils.ProgressSnapshot {
	return utils.ProgressSnapshot{
		Downloaded: a.downloaded.Load(),
		TotalSize:  a.totalSize,
		OutputPath: a.outputPath,
	}
}

// Start launches the emit loop. Stop must be called exactly when the
// transfer ends; it blocks until the loop has exited, so no tick can
// fire after completion has been reported.
func (a *Aggregator) Start() {
	if !a.started.CompareAndSwap(false, true) {
		return
	}
	go a.emitLoop()
}

func (a *Aggregator) emitLoop() {
	defer close(a.doneCh)
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			if a.onProgress != nil {
				a.onProgress(a.Snapshot())
			}
		}
	}
}

func (a *Aggregator) Stop() {
	a.stopOnce.Do(func() {
		close(a.stopCh)
	})
	if a.started.Load() {
		<-a.doneCh
	}
}
