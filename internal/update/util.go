package update

import (
	"fmt"
	"time"
)

func formatClock(totalSec int) string {
	if totalSec < 0 {
		totalSec = 0
	}
	min := totalSec / 60
	sec := totalSec % 60
	return fmt.Sprintf("%02d:%02d", min, sec)
}

func formatDuration(d time.Duration) string {
	totalSec := int(d / time.Second)
	if totalSec >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", totalSec/3600, (totalSec%3600)/60, totalSec%60)
	}
	return formatClock(totalSec)
}

func progressLabel(completed, total int) string {
	return fmt.Sprintf("%d/%d", completed, total)
}
