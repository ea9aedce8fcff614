package timeparse

import (
	"strings"
	"time"
)

// russianMonths maps genitive-case Russian month names to month numbers,
// matching the "<day> <month> <year> <HH:MM>" form the trackers export.
var russianMonths = map[string]string{
	"января":   "01",
	"февраля":  "02",
	"марта":    "03",
	"апреля":   "04",
	"мая":      "05",
	"июня":     "06",
	"июля":     "07",
	"августа":  "08",
	"сентября": "09",
	"октября":  "10",
	"ноября":   "11",
	"декабря":  "12",
}

// russianStrategy matches "<day> <month-name> <year> <HH:MM>" with a
// case-insensitive month lookup. The day is zero-padded before the final
// fixed-format parse.
type russianStrategy struct{}

func (russianStrategy) TryParse(raw string) (time.Time, bool) {
	fields := strings.Fields(raw)
	if len(fields) != 4 {
		return time.Time{}, false
	}
	day, month, year, clock := fields[0], fields[1], fields[2], fields[3]

	monthNum, ok := russianMonths[strings.ToLower(month)]
	if !ok {
		return time.Time{}, false
	}
	if len(day) == 1 {
		day = "0" + day
	}

	t, err := time.Parse("2006-01-02 15:04", year+"-"+monthNum+"-"+day+" "+clock)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
