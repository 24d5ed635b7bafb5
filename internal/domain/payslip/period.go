package payslip

import (
	"fmt"
	"time"
)

type periodHeader struct {
	number string
	date   string
	span   string
	month  string
}

const dateLayout = "02/01/2006"

// newPeriodHeader derives the slip header for a month of the current
// year: slip serial, issue date and the first..last day span.
func newPeriodHeader(period int, now time.Time) periodHeader {
	year := now.Year()
	first := time.Date(year, time.Month(period), 1, 0, 0, 0, 0, time.UTC)
	// Day zero of the next month is the last day of this one.
	last := time.Date(year, time.Month(period)+1, 0, 0, 0, 0, 0, time.UTC)

	return periodHeader{
		number: fmt.Sprintf("ZED%d", period),
		date:   fmt.Sprintf("Date: %s", now.Format(dateLayout)),
		span:   fmt.Sprintf("%s - %s", first.Format(dateLayout), last.Format(dateLayout)),
		month:  time.Month(period).String(),
	}
}
