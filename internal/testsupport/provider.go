package testsupport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"testing"
)

// Entry is one driver's qualifying line served by FakeProvider.
type Entry struct {
	Given  string
	Family string
	Code   string
	Team   string
	Q1     string
	Q2     string
	Q3     string
}

type fakeRound struct {
	name    string
	entries []Entry
}

// FakeProvider serves Ergast-shaped schedule and qualifying responses from an
// in-memory season table.
type FakeProvider struct {
	server *httptest.Server

	mu            sync.Mutex
	seasons       map[int]map[int]fakeRound
	requests      map[string]int
	throttleFirst int
	throttled     int
	failStatus    map[string]int
}

var (
	schedulePath   = regexp.MustCompile(`^/ergast/f1/(\d{4})\.json$`)
	qualifyingPath = regexp.MustCompile(`^/ergast/f1/(\d{4})/(\d+)/qualifying\.json$`)
)

// NewFakeProvider starts a fake provider and registers its shutdown.
func NewFakeProvider(t testing.TB) *FakeProvider {
	t.Helper()
	p := &FakeProvider{
		seasons:    map[int]map[int]fakeRound{},
		requests:   map[string]int{},
		failStatus: map[string]int{},
	}
	p.server = httptest.NewServer(http.HandlerFunc(p.handle))
	t.Cleanup(p.server.Close)
	return p
}

// URL returns the base URL to configure as provider.base_url.
func (p *FakeProvider) URL() string {
	return p.server.URL + "/ergast/f1"
}

// AddRound registers a round. Rounds without entries appear in the schedule
// with an empty qualifying classification.
func (p *FakeProvider) AddRound(season, round int, name string, entries ...Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seasons[season] == nil {
		p.seasons[season] = map[int]fakeRound{}
	}
	p.seasons[season][round] = fakeRound{name: name, entries: entries}
}

// ThrottleFirst answers the first n requests with 429.
func (p *FakeProvider) ThrottleFirst(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.throttleFirst = n
}

// FailPath answers every request for path with status.
func (p *FakeProvider) FailPath(path string, status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failStatus[path] = status
}

// Requests returns how many times path was requested.
func (p *FakeProvider) Requests(path string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests[path]
}

// TotalRequests returns the number of requests served.
func (p *FakeProvider) TotalRequests() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := 0
	for _, n := range p.requests {
		total += n
	}
	return total
}

func (p *FakeProvider) handle(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.requests[r.URL.Path]++
	if p.throttled < p.throttleFirst {
		p.throttled++
		p.mu.Unlock()
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
		return
	}
	if status, ok := p.failStatus[r.URL.Path]; ok {
		p.mu.Unlock()
		w.WriteHeader(status)
		return
	}
	var races []map[string]any
	var season string
	if m := schedulePath.FindStringSubmatch(r.URL.Path); m != nil {
		season = m[1]
		races = p.scheduleLocked(atoi(m[1]))
	} else if m := qualifyingPath.FindStringSubmatch(r.URL.Path); m != nil {
		season = m[1]
		races = p.qualifyingLocked(atoi(m[1]), atoi(m[2]))
	} else {
		p.mu.Unlock()
		http.NotFound(w, r)
		return
	}
	p.mu.Unlock()

	if races == nil {
		races = []map[string]any{}
	}
	payload := map[string]any{
		"MRData": map[string]any{
			"total": strconv.Itoa(len(races)),
			"RaceTable": map[string]any{
				"season": season,
				"Races":  races,
			},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func (p *FakeProvider) scheduleLocked(season int) []map[string]any {
	rounds := p.seasons[season]
	keys := make([]int, 0, len(rounds))
	for round := range rounds {
		keys = append(keys, round)
	}
	sort.Ints(keys)
	races := make([]map[string]any, 0, len(keys))
	for _, round := range keys {
		races = append(races, raceJSON(season, round, rounds[round].name))
	}
	return races
}

func (p *FakeProvider) qualifyingLocked(season, round int) []map[string]any {
	data, ok := p.seasons[season][round]
	if !ok || len(data.entries) == 0 {
		return nil
	}
	race := raceJSON(season, round, data.name)
	results := make([]map[string]any, 0, len(data.entries))
	for i, entry := range data.entries {
		results = append(results, map[string]any{
			"number":   strconv.Itoa(i + 1),
			"position": strconv.Itoa(i + 1),
			"Driver": map[string]any{
				"driverId":   fmt.Sprintf("driver_%d", i+1),
				"code":       entry.Code,
				"givenName":  entry.Given,
				"familyName": entry.Family,
			},
			"Constructor": map[string]any{
				"constructorId": entry.Team,
				"name":          entry.Team,
			},
			"Q1": entry.Q1,
			"Q2": entry.Q2,
			"Q3": entry.Q3,
		})
	}
	race["QualifyingResults"] = results
	return []map[string]any{race}
}

func raceJSON(season, round int, name string) map[string]any {
	return map[string]any{
		"season":   strconv.Itoa(season),
		"round":    strconv.Itoa(round),
		"raceName": name,
		"date":     fmt.Sprintf("%d-01-01", season),
		"Circuit": map[string]any{
			"circuitName": name + " Circuit",
			"Location": map[string]any{
				"locality": "Town",
				"country":  "Country",
			},
		},
	}
}

func atoi(value string) int {
	n, _ := strconv.Atoi(value)
	return n
}
