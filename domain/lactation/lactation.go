// Package lactation maps calendar months onto the dairy reporting cycle:
// a fixed 12-month window running October through September, labelled by
// the year it starts in ("2023-24").
package lactation

import (
	"fmt"
	"sort"
)

// Position locates a calendar month inside its lactation cycle.
type Position struct {
	StartYear int // calendar year the cycle starts in (October)
	Index     int // 0 = October of StartYear ... 11 = September of StartYear+1
}

// Of maps a calendar (year, month 0-11) pair onto its cycle position.
func Of(year, month0 int) Position {
	startYear := year
	if month0 < 9 { // before October: cycle started the previous year
		startYear = year - 1
	}
	return Position{StartYear: startYear, Index: (month0 + 3) % 12}
}

// Calendar is the inverse of Of: it returns the calendar (year, month 0-11)
// pair for a cycle position. Indices 0-2 fall in October-December of the
// start year, 3-11 in January-September of the following year.
func (p Position) Calendar() (year, month0 int) {
	month0 = (p.Index + 9) % 12
	year = p.StartYear
	if p.Index >= 3 {
		year++
	}
	return year, month0
}

// Label formats a cycle start year as "YYYY-YY".
func Label(startYear int) string {
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

// LastCycles returns the last n distinct cycle start years present among
// the given calendar (year, month0) pairs, ascending. Fewer than n are
// returned when the data does not cover n cycles.
func LastCycles(pairs [][2]int, n int) []int {
	seen := make(map[int]struct{})
	var years []int
	for _, p := range pairs {
		sy := Of(p[0], p[1]).StartYear
		if _, ok := seen[sy]; !ok {
			seen[sy] = struct{}{}
			years = append(years, sy)
		}
	}
	sort.Ints(years)
	if n > 0 && len(years) > n {
		years = years[len(years)-n:]
	}
	return years
}
