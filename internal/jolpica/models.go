package jolpica

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Event describes one championship round from a season schedule.
type Event struct {
	Season   int    `json:"season"`
	Round    int    `json:"round"`
	Name     string `json:"name"`
	Circuit  string `json:"circuit"`
	Locality string `json:"locality"`
	Country  string `json:"country"`
	Date     string `json:"date"`
}

// Qualifying is the classified result of one qualifying session.
type Qualifying struct {
	Season  int                `json:"season"`
	Round   int                `json:"round"`
	Name    string             `json:"name"`
	Results []QualifyingResult `json:"results"`
}

// QualifyingResult is one driver's line in a qualifying classification.
type QualifyingResult struct {
	Number      string      `json:"number"`
	Position    string      `json:"position"`
	Driver      Driver      `json:"Driver"`
	Constructor Constructor `json:"Constructor"`
	Q1          string      `json:"Q1"`
	Q2          string      `json:"Q2"`
	Q3          string      `json:"Q3"`
}

// Driver identifies a competitor.
type Driver struct {
	DriverID   string `json:"driverId"`
	Code       string `json:"code"`
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
}

// FullName joins the given and family names.
func (d Driver) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(d.GivenName) + " " + strings.TrimSpace(d.FamilyName))
}

// Constructor identifies a team entry.
type Constructor struct {
	ConstructorID string `json:"constructorId"`
	Name          string `json:"name"`
}

// LapTimes returns the parsed Q1, Q2 and Q3 times. Segments without a time
// are zero.
func (r QualifyingResult) LapTimes() ([]time.Duration, error) {
	raw := []string{r.Q1, r.Q2, r.Q3}
	out := make([]time.Duration, 0, len(raw))
	for _, value := range raw {
		lap, err := ParseLapTime(value)
		if err != nil {
			return nil, fmt.Errorf("driver %s: %w", r.Driver.DriverID, err)
		}
		out = append(out, lap)
	}
	return out, nil
}

// ParseLapTime converts provider lap times ("1:29.708", "59.123") to a
// duration. Empty strings yield zero with no error.
func ParseLapTime(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	var minutes int
	secondsPart := value
	if idx := strings.IndexByte(value, ':'); idx >= 0 {
		m, err := strconv.Atoi(value[:idx])
		if err != nil || m < 0 {
			return 0, fmt.Errorf("parse lap time %q: invalid minutes", value)
		}
		minutes = m
		secondsPart = value[idx+1:]
	}
	wholePart, fracPart, _ := strings.Cut(secondsPart, ".")
	seconds, err := strconv.Atoi(wholePart)
	if err != nil || seconds < 0 || (minutes > 0 && seconds >= 60) {
		return 0, fmt.Errorf("parse lap time %q: invalid seconds", value)
	}
	var millis int
	if fracPart != "" {
		if len(fracPart) > 3 {
			fracPart = fracPart[:3]
		}
		for len(fracPart) < 3 {
			fracPart += "0"
		}
		millis, err = strconv.Atoi(fracPart)
		if err != nil || millis < 0 {
			return 0, fmt.Errorf("parse lap time %q: invalid fraction", value)
		}
	}
	return time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}

type mrEnvelope struct {
	MRData struct {
		Total     string `json:"total"`
		RaceTable struct {
			Season string    `json:"season"`
			Races  []rawRace `json:"Races"`
		} `json:"RaceTable"`
	} `json:"MRData"`
}

type rawRace struct {
	Season   string `json:"season"`
	Round    string `json:"round"`
	RaceName string `json:"raceName"`
	Date     string `json:"date"`
	Circuit  struct {
		CircuitName string `json:"circuitName"`
		Location    struct {
			Locality string `json:"locality"`
			Country  string `json:"country"`
		} `json:"Location"`
	} `json:"Circuit"`
	QualifyingResults []QualifyingResult `json:"QualifyingResults"`
}

func (r rawRace) event() (Event, error) {
	season, err := strconv.Atoi(strings.TrimSpace(r.Season))
	if err != nil {
		return Event{}, fmt.Errorf("parse season %q: %w", r.Season, err)
	}
	round, err := strconv.Atoi(strings.TrimSpace(r.Round))
	if err != nil {
		return Event{}, fmt.Errorf("parse round %q: %w", r.Round, err)
	}
	return Event{
		Season:   season,
		Round:    round,
		Name:     strings.TrimSpace(r.RaceName),
		Circuit:  strings.TrimSpace(r.Circuit.CircuitName),
		Locality: strings.TrimSpace(r.Circuit.Location.Locality),
		Country:  strings.TrimSpace(r.Circuit.Location.Country),
		Date:     strings.TrimSpace(r.Date),
	}, nil
}
