package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FileRecord represents one file visible in the user's dashboard. Confirmed
// records carry a server-assigned ID; optimistic records carry a synthesized
// temporary ID that is never relied upon after the next successful load.
type FileRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SizeMB    string    `json:"size"` // decimal string as served by the backend
	Timestamp time.Time `json:"timestamp"`
	Extension string    `json:"extension"`
}

// SizeMBValue parses the decimal size string; malformed values count as zero
func (f FileRecord) SizeMBValue() float64 {
	v, err := strconv.ParseFloat(f.SizeMB, 64)
	if err != nil {
		return 0
	}
	return v
}

// ExtensionOf derives the uppercase extension tag shown on file icons
func ExtensionOf(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 && i < len(name)-1 {
		return strings.ToUpper(name[i+1:])
	}
	return "FILE"
}

// NewOptimisticRecord builds the placeholder record inserted ahead of upload
// confirmation. The temporary ID combines username, name and creation instant
// so placeholders are recognizable in logs until the next load replaces them.
func NewOptimisticRecord(username, name string, sizeMB float64, now time.Time) FileRecord {
	return FileRecord{
		ID:        fmt.Sprintf("%s-%s-%d", username, name, now.UnixMilli()),
		Name:      name,
		SizeMB:    fmt.Sprintf("%.2f", sizeMB),
		Timestamp: now,
		Extension: ExtensionOf(name),
	}
}

// TimeAgo renders an upload instant relative to now for the file list
func TimeAgo(t, now time.Time) string {
	diff := now.Sub(t)

	mins := int(diff.Minutes())
	hours := int(diff.Hours())
	days := int(diff.Hours() / 24)

	switch {
	case mins < 1:
		return "just now"
	case mins < 60:
		return fmt.Sprintf("%d minute%s ago", mins, plural(mins))
	case hours < 24:
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	default:
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	}
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
