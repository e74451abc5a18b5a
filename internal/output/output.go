package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rjindal/segfetch/internal/utils"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("37"))  // dark green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))   // red
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))  // cyan
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))   // green
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250")) // light grey
)

var styleSymbols = map[string]string{
	"pass": "✓",
	"fail": "✗",
}

func PrintSuccess(text string) {
	fmt.Println(successStyle.Render(text))
}

func PrintError(text string) {
	fmt.Println(errorStyle.Render(text))
}

func PrintInfo(text string) {
	fmt.Println(infoStyle.Render(text))
}

// ProgressRenderer turns snapshots into a single rewritten console line
// with a bar, transfer speed, and ETA.
type ProgressRenderer struct {
	startTime      time.Time
	lastUpdateTime time.Time
	lastDownloaded int64
	rendered       bool
}

func NewProgressRenderer() *ProgressRenderer {
	now := time.Now()
	return &ProgressRenderer{startTime: now, lastUpdateTime: now}
}

func (r *ProgressRenderer) Render(s utils.ProgressSnapshot) {
	now := time.Now()
	timeDiff := now.Sub(r.lastUpdateTime).Seconds()
	speed := float64(0)
	if timeDiff > 0 {
		speed = float64(s.Downloaded-r.lastDownloaded) / timeDiff / 1024 / 1024 // MB/s
		r.lastUpdateTime = now
		r.lastDownloaded = s.Downloaded
	}
	eta := "calculating..."
	if speed > 0 && s.TotalSize > 0 {
		etaSeconds := int64(float64(s.TotalSize-s.Downloaded) / (speed * 1024 * 1024))
		if etaSeconds < 60 {
			eta = fmt.Sprintf("%ds", etaSeconds)
		} else if etaSeconds < 3600 {
			eta = fmt.Sprintf("%dm %ds", etaSeconds/60, etaSeconds%60)
		} else {
			eta = fmt.Sprintf("%dh %dm", etaSeconds/3600, (etaSeconds%3600)/60)
		}
	}
	fmt.Printf("\r\033[K%s %s %.1f%% %s/%s %.2f MB/s ETA: %s",
		barStyle.Render(renderBar(s.Downloaded, s.TotalSize)),
		detailStyle.Render(shortName(s.OutputPath)),
		percentOf(s.Downloaded, s.TotalSize),
		utils.FormatBytes(uint64(s.Downloaded)),
		utils.FormatBytes(uint64(s.TotalSize)),
		speed, eta)
	r.rendered = true
}

func (r *ProgressRenderer) Finish(res utils.CompletionResult) {
	if r.rendered {
		fmt.Println()
	}
	elapsed := time.Since(r.startTime).Seconds()
	symbol, style := styleSymbols["pass"], successStyle
	if !res.Success {
		symbol, style = styleSymbols["fail"], errorStyle
	}
	verified := "not verified (no declared hash)"
	if res.HashChecked {
		if res.Success {
			verified = "hash verified"
		} else {
			verified = "hash mismatch"
		}
	}
	fmt.Println(style.Render(fmt.Sprintf("%s %s  Size: %s  Time: %.2fs  %s",
		symbol, res.OutputPath, utils.FormatBytes(uint64(res.Downloaded)), elapsed, verified)))
}

func renderBar(downloaded, total int64) string {
	const width = 30
	if total <= 0 {
		return "[" + strings.Repeat("=", width) + "]"
	}
	filled := int(float64(downloaded) / float64(total) * width)
	if filled > width {
		filled = width
	}
	bar := "[" + strings.Repeat("=", filled)
	if filled < width {
		bar += ">" + strings.Repeat(" ", width-filled-1)
	}
	return bar + "]"
}

func percentOf(downloaded, total int64) float64 {
	if total <= 0 {
		return 100
	}
	return float64(downloaded) / float64(total) * 100
}

func shortName(outputPath string) string {
	if len(outputPath) > 25 {
		return "..." + outputPath[len(outputPath)-22:]
	}
	return outputPath
}
