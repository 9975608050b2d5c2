package cache

import (
	"time"
)

// refreshHour は日足データが更新される時刻（米国東部時間）です。
const refreshHour = 18

var newYork = loadLocation("America/New_York")

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TimeUntilNextRefresh は次の日足更新時刻（米国東部時間18時）までの期間を返します。
func TimeUntilNextRefresh(now time.Time) time.Duration {
	local := now.In(newYork)

	next := time.Date(local.Year(), local.Month(), local.Day(), refreshHour, 0, 0, 0, newYork)

	// 今日の更新時刻を過ぎている場合は翌日
	if !local.Before(next) {
		next = next.AddDate(0, 0, 1)
	}

	return next.Sub(local)
}
