package dynamo

import "strings"

// ContactEvent reports which boundaries a body touched during boundary resolution.
type ContactEvent uint8

const (
	HitLeft ContactEvent = 1 << iota
	HitRight
	HitFloor
	HitCeiling
	Bounced
	Rested
)

func (e ContactEvent) Has(flag ContactEvent) bool { return e&flag != 0 }

func (e ContactEvent) String() string {
	if e == 0 {
		return "none"
	}
	names := []string{"left", "right", "floor", "ceiling", "bounced", "rested"}
	parts := make([]string, 0, len(names))
	for i, name := range names {
		if e&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}
