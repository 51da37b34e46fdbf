package qualigap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"qualigap/internal/jolpica"
	"qualigap/internal/logging"
	"qualigap/internal/session"
)

// Skip reasons recorded when a race cannot produce a gap.
const (
	SkipNoTeammate = "no teammate"
	SkipNoLapTime  = "no lap time"
)

// Skip records a session where the target took part but no gap could be
// computed.
type Skip struct {
	Season int    `json:"season"`
	Round  int    `json:"round"`
	Race   string `json:"race"`
	Reason string `json:"reason"`
	Detail string `json:"detail"`
}

// Result is the output of one collection pass.
type Result struct {
	Collection *Collection
	Skips      []Skip
	// Sessions counts sessions in which the target driver appeared.
	Sessions int
	// Loaded counts every qualifying session fetched.
	Loaded int
}

// Collector walks season schedules and accumulates per-race qualifying gaps
// between a driver and their teammate.
type Collector struct {
	source      jolpica.Source
	logger      *slog.Logger
	concurrency int
}

// NewCollector creates a collector. Concurrency bounds parallel session
// fetches within a season; values below one fetch sequentially.
func NewCollector(source jolpica.Source, logger *slog.Logger, concurrency int) *Collector {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Collector{
		source:      source,
		logger:      logging.NewComponentLogger(logger, "collector"),
		concurrency: concurrency,
	}
}

// Collect gathers gaps for driver over the inclusive season range.
func (c *Collector) Collect(ctx context.Context, driver string, startYear, endYear int) (*Result, error) {
	if c.source == nil {
		return nil, errors.New("collector source unavailable")
	}
	if startYear > endYear {
		return nil, fmt.Errorf("start year %d after end year %d", startYear, endYear)
	}
	result := &Result{Collection: NewCollection()}
	for season := startYear; season <= endYear; season++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := c.collectSeason(ctx, driver, season, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (c *Collector) collectSeason(ctx context.Context, driver string, season int, result *Result) error {
	events, err := c.source.Schedule(ctx, season)
	if err != nil {
		return fmt.Errorf("load %d schedule: %w", season, err)
	}
	for _, event := range events {
		result.Collection.Ensure(event.Name)
	}

	sessions := make([]*jolpica.Qualifying, len(events))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, event := range events {
		g.Go(func() error {
			q, err := c.source.Qualifying(gctx, season, event.Round)
			if err != nil {
				return fmt.Errorf("load %d %s qualifying: %w", season, event.Name, err)
			}
			sessions[i] = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	appeared := 0
	for i, event := range events {
		result.Loaded++
		ok, err := c.processSession(driver, event, sessions[i], result)
		if err != nil {
			return err
		}
		if ok {
			appeared++
		}
	}
	result.Sessions += appeared
	c.logger.Info("season collected",
		logging.Int(logging.FieldSeason, season),
		logging.Int("races", len(events)),
		logging.Int("sessions_with_driver", appeared),
		logging.Int("races_seen", result.Collection.Len()))
	return nil
}

// processSession appends the gap for one session. It reports whether the
// driver took part.
func (c *Collector) processSession(driver string, event jolpica.Event, q *jolpica.Qualifying, result *Result) (bool, error) {
	if q == nil {
		return false, nil
	}
	sess, err := session.FromQualifying(q)
	if err != nil {
		return false, fmt.Errorf("decode %d %s qualifying: %w", event.Season, event.Name, err)
	}
	logger := c.logger.With(
		logging.Int(logging.FieldSeason, event.Season),
		logging.String(logging.FieldRace, event.Name))
	if !sess.HasDriver(driver) {
		logger.Debug("driver absent from session", logging.Bool("empty_session", sess.Empty()))
		return false, nil
	}

	teammate, err := sess.Teammate(driver)
	if err != nil {
		c.skip(logger, result, event, SkipNoTeammate, err)
		return true, nil
	}
	target, mate, err := lapTimes(sess, driver, teammate)
	if err != nil {
		c.skip(logger, result, event, SkipNoLapTime, err)
		return true, nil
	}
	gap := NewGap(event.Season, event.Round, teammate, target, mate)
	result.Collection.Append(event.Name, gap)
	logger.Debug("gap recorded",
		logging.String("teammate", teammate),
		logging.String("gap", FormatGap(gap.Seconds)))
	return true, nil
}

func lapTimes(sess *session.Session, driver, teammate string) (target, mate time.Duration, err error) {
	abbrTarget, err := sess.DriverAbbreviation(driver)
	if err != nil {
		return 0, 0, err
	}
	abbrMate, err := sess.DriverAbbreviation(teammate)
	if err != nil {
		return 0, 0, err
	}
	if target, err = sess.FastestLap(abbrTarget); err != nil {
		return 0, 0, err
	}
	if mate, err = sess.FastestLap(abbrMate); err != nil {
		return 0, 0, err
	}
	return target, mate, nil
}

func (c *Collector) skip(logger *slog.Logger, result *Result, event jolpica.Event, reason string, cause error) {
	result.Skips = append(result.Skips, Skip{
		Season: event.Season,
		Round:  event.Round,
		Race:   event.Name,
		Reason: reason,
		Detail: cause.Error(),
	})
	hint := "check the session classification on the provider"
	if errors.Is(cause, session.ErrNoTeammate) {
		hint = "the team fielded a single car; nothing to compare against"
	}
	logging.WarnWithContext(logger, fmt.Sprintf("%s for race %s, year %d", reason, event.Name, event.Season), "gap_skipped",
		logging.Error(cause),
		logging.String(logging.FieldErrorHint, hint),
		logging.String(logging.FieldImpact, "race contributes no gap for this season"))
}
