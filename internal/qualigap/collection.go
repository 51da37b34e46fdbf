package qualigap

import "time"

// Gap is one season's qualifying delta at a race: the target's fastest lap
// minus the teammate's.
type Gap struct {
	Season   int           `json:"season"`
	Round    int           `json:"round"`
	Teammate string        `json:"teammate"`
	Delta    time.Duration `json:"-"`
	Seconds  float64       `json:"gap_seconds"`
}

// NewGap builds a gap from two lap times. The delta is truncated to the
// millisecond.
func NewGap(season, round int, teammate string, target, mate time.Duration) Gap {
	delta := (target - mate).Truncate(time.Millisecond)
	return Gap{
		Season:   season,
		Round:    round,
		Teammate: teammate,
		Delta:    delta,
		Seconds:  durationSeconds(delta),
	}
}

// RaceGaps is the list of gaps recorded for one race name.
type RaceGaps struct {
	Race string `json:"race"`
	Gaps []Gap  `json:"gaps"`
}

// Collection maps race names to their gaps, keeping first-seen order.
type Collection struct {
	races []RaceGaps
	index map[string]int
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{index: map[string]int{}}
}

// Ensure registers race with an empty gap list if it is not yet present.
func (c *Collection) Ensure(race string) {
	if _, ok := c.index[race]; ok {
		return
	}
	c.index[race] = len(c.races)
	c.races = append(c.races, RaceGaps{Race: race, Gaps: []Gap{}})
}

// Append records a gap for race.
func (c *Collection) Append(race string, gap Gap) {
	c.Ensure(race)
	i := c.index[race]
	c.races[i].Gaps = append(c.races[i].Gaps, gap)
}

// Gaps returns the gaps recorded for race.
func (c *Collection) Gaps(race string) ([]Gap, bool) {
	i, ok := c.index[race]
	if !ok {
		return nil, false
	}
	return append([]Gap{}, c.races[i].Gaps...), true
}

// Len returns the number of races known to the collection.
func (c *Collection) Len() int {
	return len(c.races)
}

// Races returns a copy of every race in first-seen order.
func (c *Collection) Races() []RaceGaps {
	out := make([]RaceGaps, len(c.races))
	for i, race := range c.races {
		out[i] = RaceGaps{Race: race.Race, Gaps: append([]Gap{}, race.Gaps...)}
	}
	return out
}

func durationSeconds(d time.Duration) float64 {
	return float64(d.Truncate(time.Millisecond).Milliseconds()) / 1000
}
