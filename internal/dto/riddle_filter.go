// RiddleFilters describe user-provided filters to narrow the riddle history.
package dto

import "time"

type RiddleFilters struct {
	Label      string
	DateAfter  time.Time
	DateBefore time.Time
	Limit      int
	Offset     int
}
