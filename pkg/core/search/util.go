package search

import (
	"strconv"
	"time"
)

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
