package types

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatDate converts an RFC3339 datetime string to "Jan 2, 2006"
func FormatDate(dateString string) string {
	t, err := time.Parse(time.RFC3339, dateString)
	if err != nil {
		return dateString
	}

	return t.Format("Jan 2, 2006")
}

// FormatRating renders an average on the 1-5 scale as "4.5/5"
func FormatRating(avg float64) string {
	return fmt.Sprintf("%.1f/5", avg)
}

func FormatSuccessRate(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate)
}

// FormatStars renders an average as five stars, rounded to the nearest whole star
func FormatStars(avg float64) string {
	full := int(math.Round(avg))
	full = max(0, min(full, 5))
	return strings.Repeat("★", full) + strings.Repeat("☆", 5-full)
}

func FormatVoteCount(count int) string {
	if count == 1 {
		return "1 vote"
	}
	return fmt.Sprintf("%d votes", count)
}

func FormatTipCount(count int) string {
	if count == 1 {
		return "1 tip"
	}
	return fmt.Sprintf("%d tips", count)
}
