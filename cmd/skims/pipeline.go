// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"

	"github.com/katalvlaran/skims/config"
	"github.com/katalvlaran/skims/connector"
	"github.com/katalvlaran/skims/feed"
	"github.com/katalvlaran/skims/skim"
	"github.com/katalvlaran/skims/timetable"
)

// Output file names inside paths.path_outputs.
const (
	fileStopTimes = "stop_times.csv"
	fileTransfer  = "connectors_transfer.csv"
	fileAccess    = "connectors_access.csv"
	fileEgress    = "connectors_egress.csv"
	fileSkims     = "skims.csv"
)

// pipeline runs the configured steps. A skipped step's product is read back
// from the output directory of an earlier run.
type pipeline struct {
	cfg    *config.Config
	logger *slog.Logger
	proj   *feed.Projector

	stopTimes  *timetable.StopTimes
	origins    *timetable.Endpoints
	dests      *timetable.Endpoints
	connectors *connector.Connectors
}

func newPipeline(cfg *config.Config, logger *slog.Logger) *pipeline {
	return &pipeline{
		cfg:    cfg,
		logger: logger,
		proj:   feed.NewProjector(cfg.Latitude()),
	}
}

func (p *pipeline) run(ctx context.Context) error {
	if p.cfg.Has(config.StepPreprocessing) {
		if err := p.preprocess(); err != nil {
			return fmt.Errorf("preprocessing: %w", err)
		}
	}
	if p.cfg.Has(config.StepConnectors) {
		if err := p.buildConnectors(); err != nil {
			return fmt.Errorf("connectors: %w", err)
		}
	}
	if p.cfg.Has(config.StepGraph) {
		if err := p.graph(ctx); err != nil {
			return fmt.Errorf("graph: %w", err)
		}
	}
	return nil
}

func (p *pipeline) preprocess() error {
	s := p.cfg.Settings
	log := p.logger.With("step", config.StepPreprocessing)

	log.Info("Reading files...", "path", p.cfg.Paths.GTFS)
	static, err := feed.Load(p.cfg.Paths.GTFS)
	if err != nil {
		return err
	}
	log.Info("Time filtering...", "date", s.CalendarDate, "start_s", s.StartS, "end_s", s.EndS)
	trips, err := feed.FilterDay(static, s.CalendarDate)
	if err != nil {
		return err
	}
	st, skipped, err := feed.StopTimes(trips, feed.Window{StartS: s.StartS, EndS: s.EndS}, p.proj)
	if err != nil {
		return err
	}
	if skipped > 0 {
		log.Warn("stop visits without coordinates skipped", "count", skipped)
	}
	if bb := s.BoundingBox; bb != nil {
		log.Info("Cropping to bounding box...")
		if st, err = feed.FilterBoundingBox(st, orb.Bound{
			Min: orb.Point{bb.XMin, bb.YMin},
			Max: orb.Point{bb.XMax, bb.YMax},
		}); err != nil {
			return err
		}
	}

	log.Info("Saving outputs", "dir", p.cfg.Paths.Outputs, "rows", st.Len(), "trips", len(trips))
	if err = p.write(fileStopTimes, func(w io.Writer) error { return timetable.WriteStopTimes(w, st) }); err != nil {
		return err
	}
	p.stopTimes = st
	log.Info("Preprocessing complete.")

	return nil
}

func (p *pipeline) buildConnectors() error {
	if err := p.loadInputs(); err != nil {
		return err
	}
	b, err := connector.NewBuilder(p.cfg.ConnectorParams(), connector.WithLogger(p.logger.With("step", config.StepConnectors)))
	if err != nil {
		return err
	}
	c, err := b.Build(p.stopTimes, p.origins, p.dests)
	if err != nil {
		return err
	}
	for name, t := range map[string]*connector.Table{fileTransfer: c.Transfer, fileAccess: c.Access, fileEgress: c.Egress} {
		if err = p.write(name, func(w io.Writer) error { return connector.WriteCSV(w, t) }); err != nil {
			return err
		}
	}
	p.connectors = c

	return nil
}

func (p *pipeline) graph(ctx context.Context) error {
	if err := p.loadInputs(); err != nil {
		return err
	}
	if p.connectors == nil {
		c, err := p.readConnectors()
		if err != nil {
			return err
		}
		p.connectors = c
	}

	res, err := skim.Run(ctx,
		skim.Inputs{StopTimes: p.stopTimes, Origins: p.origins, Destinations: p.dests},
		p.cfg.SkimParams(),
		skim.WithRunLogger(p.logger.With("step", config.StepGraph)),
		skim.WithConnectors(p.connectors),
	)
	if err != nil {
		return err
	}
	p.logger.Info("Saving results", "path", filepath.Join(p.cfg.Paths.Outputs, fileSkims))

	return p.write(fileSkims, func(w io.Writer) error { return res.Skim.WriteCSV(w, "origin") })
}

// loadInputs reads whatever earlier steps of this run did not produce.
func (p *pipeline) loadInputs() error {
	var err error
	if p.stopTimes == nil {
		if p.stopTimes, err = readFile(filepath.Join(p.cfg.Paths.Outputs, fileStopTimes), timetable.ReadStopTimes); err != nil {
			return err
		}
	}
	readZones := func(r io.Reader) (*timetable.Endpoints, error) { return timetable.ReadEndpoints(r, p.proj) }
	if p.origins == nil {
		if p.origins, err = readFile(p.cfg.Paths.Origins, readZones); err != nil {
			return fmt.Errorf("origins: %w", err)
		}
	}
	if p.dests == nil {
		if p.dests, err = readFile(p.cfg.Paths.Destinations, readZones); err != nil {
			return fmt.Errorf("destinations: %w", err)
		}
	}
	return nil
}

// readConnectors loads connector tables saved by an earlier run. Their node
// ids already carry the offsets of the current inputs.
func (p *pipeline) readConnectors() (*connector.Connectors, error) {
	c := &connector.Connectors{Offsets: connector.Offsets{
		Stops:        p.stopTimes.Len(),
		Origins:      p.origins.Len(),
		Destinations: p.dests.Len(),
	}}
	dir := p.cfg.Paths.Outputs
	var err error
	if c.Transfer, err = readFile(filepath.Join(dir, fileTransfer), connector.ReadCSV); err != nil {
		return nil, err
	}
	if c.Access, err = readFile(filepath.Join(dir, fileAccess), connector.ReadCSV); err != nil {
		return nil, err
	}
	if c.Egress, err = readFile(filepath.Join(dir, fileEgress), connector.ReadCSV); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *pipeline) write(name string, fn func(io.Writer) error) error {
	f, err := os.Create(filepath.Join(p.cfg.Paths.Outputs, name))
	if err != nil {
		return err
	}
	if err = fn(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return f.Close()
}

func readFile[T any](path string, fn func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()

	v, err := fn(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
