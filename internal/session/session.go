package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"qualigap/internal/jolpica"
	"qualigap/internal/textutil"
)

var (
	// ErrDriverNotFound reports that no classified driver matches a name.
	ErrDriverNotFound = errors.New("driver not found in session")
	// ErrNoTeammate reports that the target's team fielded no other driver.
	ErrNoTeammate = errors.New("no teammate found")
	// ErrNoLapTime reports that a driver set no time in any segment.
	ErrNoLapTime = errors.New("no lap time")
)

// Driver is one classified entrant of a qualifying session.
type Driver struct {
	FullName     string
	Abbreviation string
	TeamID       string
	Team         string
	// Laps holds the Q1, Q2 and Q3 times; zero marks a segment without a time.
	Laps []time.Duration
}

// Session is a loaded qualifying session.
type Session struct {
	Season  int
	Round   int
	Name    string
	Drivers []Driver
}

// FromQualifying builds a session from a provider classification, keeping
// classification order.
func FromQualifying(q *jolpica.Qualifying) (*Session, error) {
	if q == nil {
		return nil, errors.New("qualifying result required")
	}
	s := &Session{
		Season:  q.Season,
		Round:   q.Round,
		Name:    q.Name,
		Drivers: make([]Driver, 0, len(q.Results)),
	}
	codes := newCodeSet(q.Results)
	for _, result := range q.Results {
		laps, err := result.LapTimes()
		if err != nil {
			return nil, fmt.Errorf("%d %s: %w", q.Season, q.Name, err)
		}
		s.Drivers = append(s.Drivers, Driver{
			FullName:     result.Driver.FullName(),
			Abbreviation: codes.assign(result.Driver),
			TeamID:       strings.TrimSpace(result.Constructor.ConstructorID),
			Team:         strings.TrimSpace(result.Constructor.Name),
			Laps:         laps,
		})
	}
	return s, nil
}

// Empty reports whether the session has no classified drivers, as for rounds
// that have not run yet.
func (s *Session) Empty() bool {
	return len(s.Drivers) == 0
}

// HasDriver reports whether any classified driver's name contains name,
// ignoring case and accents.
func (s *Session) HasDriver(name string) bool {
	_, ok := s.find(name)
	return ok
}

// TeamNameByDriver returns the team the named driver entered with.
func (s *Session) TeamNameByDriver(name string) (string, error) {
	d, ok := s.find(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrDriverNotFound, name)
	}
	return d.Team, nil
}

// DriverNamesByTeam lists the full names of a team's drivers in
// classification order. The team matches by display name or constructor id.
func (s *Session) DriverNamesByTeam(team string) []string {
	key := textutil.FoldName(team)
	if key == "" {
		return nil
	}
	var names []string
	for _, d := range s.Drivers {
		if textutil.FoldName(d.Team) == key || textutil.FoldName(d.TeamID) == key {
			names = append(names, d.FullName)
		}
	}
	return names
}

// DriverAbbreviation returns the three-letter code of the named driver.
func (s *Session) DriverAbbreviation(name string) (string, error) {
	d, ok := s.find(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrDriverNotFound, name)
	}
	return d.Abbreviation, nil
}

// FastestLap returns the quickest segment time of the driver with the given
// abbreviation.
func (s *Session) FastestLap(abbreviation string) (time.Duration, error) {
	abbreviation = strings.ToUpper(strings.TrimSpace(abbreviation))
	for _, d := range s.Drivers {
		if d.Abbreviation != abbreviation {
			continue
		}
		var best time.Duration
		for _, lap := range d.Laps {
			if lap > 0 && (best == 0 || lap < best) {
				best = lap
			}
		}
		if best == 0 {
			return 0, fmt.Errorf("%w: %s", ErrNoLapTime, abbreviation)
		}
		return best, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrDriverNotFound, abbreviation)
}

// Teammate returns the first driver of the target's team whose name does not
// contain the target name.
func (s *Session) Teammate(name string) (string, error) {
	team, err := s.TeamNameByDriver(name)
	if err != nil {
		return "", err
	}
	for _, candidate := range s.DriverNamesByTeam(team) {
		if !textutil.NameContains(candidate, name) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %q (%s)", ErrNoTeammate, name, team)
}

// find prefers an exact folded match and falls back to substring matching so
// that a family name alone still resolves.
func (s *Session) find(name string) (Driver, bool) {
	key := textutil.FoldName(name)
	if key == "" {
		return Driver{}, false
	}
	for _, d := range s.Drivers {
		if textutil.FoldName(d.FullName) == key {
			return d, true
		}
	}
	for _, d := range s.Drivers {
		if textutil.NameContains(d.FullName, key) {
			return d, true
		}
	}
	return Driver{}, false
}

// codeSet hands out abbreviations that are unique within one session.
// Provider codes are reserved up front. Older seasons carry none, so the
// first three letters of the family name stand in, with a numeric suffix
// when two entrants share them.
type codeSet map[string]bool

func newCodeSet(results []jolpica.QualifyingResult) codeSet {
	set := codeSet{}
	for _, result := range results {
		if code := providerCode(result.Driver); code != "" {
			set[code] = true
		}
	}
	return set
}

func (set codeSet) assign(d jolpica.Driver) string {
	if code := providerCode(d); code != "" {
		return code
	}
	base := fallbackCode(d)
	code := base
	for n := 2; set[code]; n++ {
		code = fmt.Sprintf("%s%d", base, n)
	}
	set[code] = true
	return code
}

func providerCode(d jolpica.Driver) string {
	return strings.ToUpper(strings.TrimSpace(d.Code))
}

func fallbackCode(d jolpica.Driver) string {
	var letters []rune
	for _, r := range textutil.FoldName(d.FamilyName) {
		if r >= 'a' && r <= 'z' {
			letters = append(letters, r)
		}
		if len(letters) == 3 {
			break
		}
	}
	if len(letters) == 0 {
		return strings.ToUpper(strings.TrimSpace(d.DriverID))
	}
	return strings.ToUpper(string(letters))
}
