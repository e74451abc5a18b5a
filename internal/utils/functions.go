package utils

import (
	"fmt"
	u "net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var filenameRegex = regexp.MustCompile(`[^a-zA-Z0-9_\-\. ]+`)

func SanitizeFilename(name string) string {
	return filenameRegex.ReplaceAllString(name, "_")
}

// ResolveOutputPath picks the destination name with precedence: explicit
// save-as > server-suggested filename > last URL path segment, then joins
// it with destDir when one is configured.
func ResolveOutputPath(saveAs string, suggested string, rawURL string, destDir string) string {
	if saveAs != "" {
		if destDir != "" && !filepath.IsAbs(saveAs) {
			return filepath.Join(destDir, saveAs)
		}
		return saveAs
	}
	name := suggested
	if name == "" {
		if parsed, err := u.Parse(rawURL); err == nil {
			name = filepath.Base(parsed.Path)
		}
		if name == "" || name == "." || name == "/" {
			name = "download"
		}
	}
	return filepath.Join(destDir, name)
}

// RenewOutputPath returns a name-(N).ext variant that doesn't exist yet.
func RenewOutputPath(outputPath string) string {
	dir := filepath.Dir(outputPath)
	base := filepath.Base(outputPath)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	index := 1
	for {
		outputPath = filepath.Join(dir, fmt.Sprintf("%s-(%d)%s", name, index, ext))
		if _, err := os.Stat(outputPath); os.IsNotExist(err) {
			return outputPath
		}
		index++
	}
}

func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func IsS3URL(rawURL string) bool {
	return strings.HasPrefix(rawURL, "s3://")
}
