package cli

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/swamp-dev/mastery/internal/metrics"
)

func renderProgressBar(percent float64, width int) string {
	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return "[" + bar + "]"
}

func trendIcon(t metrics.Trend) string {
	switch t {
	case metrics.TrendAccelerating:
		return "⇈"
	case metrics.TrendGrowing:
		return "↑"
	case metrics.TrendSteady:
		return "→"
	case metrics.TrendDeclining:
		return "↓"
	default:
		return "○"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func percentOf(n, target int) float64 {
	if target <= 0 {
		return 0
	}
	return float64(n) / float64(target) * 100
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
