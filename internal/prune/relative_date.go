package prune

import (
	"fmt"
	"strings"
	"time"
)

const (
	unknownValueConstant           = "unknown"
	relativeDateTodayConstant      = "today"
	relativeDateYesterdayConstant  = "yesterday"
	relativeDaysTemplateConstant   = "%d days ago"
	relativeWeeksTemplateConstant  = "%d weeks ago"
	relativeMonthsTemplateConstant = "%d months ago"
	relativeYearsTemplateConstant  = "%d years ago"
	gitDefaultDateLayoutConstant   = "2006-01-02 15:04:05 -0700"
	hoursPerDayConstant            = 24
	daysPerWeekConstant            = 7
	daysPerMonthConstant           = 30
	daysPerYearConstant            = 365
)

var commitDateLayouts = []string{time.RFC3339, gitDefaultDateLayoutConstant}

// FormatRelativeDate describes how long ago rawDate was, relative to now.
func FormatRelativeDate(rawDate string, now time.Time) string {
	commitTime, parsed := parseCommitDate(rawDate)
	if !parsed {
		return unknownValueConstant
	}

	elapsedDays := int(now.Sub(commitTime).Hours() / hoursPerDayConstant)
	if elapsedDays < 0 {
		elapsedDays = 0
	}

	switch {
	case elapsedDays == 0:
		return relativeDateTodayConstant
	case elapsedDays == 1:
		return relativeDateYesterdayConstant
	case elapsedDays < daysPerWeekConstant:
		return fmt.Sprintf(relativeDaysTemplateConstant, elapsedDays)
	case elapsedDays < daysPerMonthConstant:
		return fmt.Sprintf(relativeWeeksTemplateConstant, elapsedDays/daysPerWeekConstant)
	case elapsedDays < daysPerYearConstant:
		return fmt.Sprintf(relativeMonthsTemplateConstant, elapsedDays/daysPerMonthConstant)
	default:
		return fmt.Sprintf(relativeYearsTemplateConstant, elapsedDays/daysPerYearConstant)
	}
}

func parseCommitDate(rawDate string) (time.Time, bool) {
	trimmedDate := strings.TrimSpace(rawDate)
	if len(trimmedDate) == 0 || trimmedDate == unknownValueConstant {
		return time.Time{}, false
	}
	for _, layout := range commitDateLayouts {
		if parsedTime, parseError := time.Parse(layout, trimmedDate); parseError == nil {
			return parsedTime, true
		}
	}
	return time.Time{}, false
}
