package lib

import "time"

// RuDateLayout is the day-first date format shown next to reviews.
const RuDateLayout = "02.01.2006"

func FormatRuDate(t time.Time) string {
	return t.Format(RuDateLayout)
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
