package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/facegate/attendance-engine/internal/config"
	"github.com/facegate/attendance-engine/internal/engine"
	"github.com/facegate/attendance-engine/internal/seed"
	"github.com/facegate/attendance-engine/internal/store/mock"
	"github.com/facegate/attendance-engine/internal/store/postgres"
	"github.com/facegate/attendance-engine/internal/web"
)

// backends bundles the storage repositories plus the owning pool. pool is nil
// in the in-memory demo mode.
type backends struct {
	repos web.Repositories
	pool  *postgres.Pool
}

func (b *backends) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
}

// openBackends connects the PostgreSQL repositories when DATABASE_URL is set,
// or falls back to in-memory repositories (optionally seeded from a YAML
// fixture file) for demos and local development.
func openBackends(ctx context.Context, cfg *config.Config) (*backends, error) {
	if cfg.Database.URL != "" {
		fmt.Println("Connecting to PostgreSQL database...")
		pool, err := postgres.Initialize(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
		}
		return &backends{
			repos: web.Repositories{
				Employees: postgres.NewEmployeeRepository(pool),
				Offices:   postgres.NewOfficeRepository(pool),
				Events:    postgres.NewEventRepository(pool),
			},
			pool: pool,
		}, nil
	}

	fmt.Println("DATABASE_URL not set, using in-memory storage")
	employees := mock.NewEmployeeRepository()
	offices := mock.NewOfficeRepository()
	events := mock.NewEventRepository()

	if cfg.Web.SeedPath != "" {
		fmt.Printf("Loading seed data from %s\n", cfg.Web.SeedPath)
		f, err := seed.LoadFile(cfg.Web.SeedPath)
		if err != nil {
			return nil, err
		}
		if err := f.Apply(ctx, employees, offices); err != nil {
			return nil, err
		}
		fmt.Printf("Seeded %d offices and %d employees\n", len(f.Offices), len(f.Employees))
	}

	return &backends{
		repos: web.Repositories{
			Employees: employees,
			Offices:   offices,
			Events:    events,
		},
	}, nil
}

// buildEngine assembles the engine from config and restores today's session
// state from the event log so restarts don't forget open sessions.
func buildEngine(ctx context.Context, cfg *config.Config, b *backends) (*engine.Engine, error) {
	loc := time.Local
	if cfg.Engine.Timezone != "" {
		parsed, err := time.LoadLocation(cfg.Engine.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid ATTENDANCE_TIMEZONE %q: %w", cfg.Engine.Timezone, err)
		}
		loc = parsed
	}

	opts := engine.Options{
		DescriptorDim:      cfg.Engine.DescriptorDim,
		MatchThreshold:     cfg.Engine.MatchThreshold,
		GraceBeforeMinutes: cfg.Engine.GraceBeforeMinutes,
		LockWait:           time.Duration(cfg.Engine.LockWaitMillis) * time.Millisecond,
		Location:           loc,
	}
	if cfg.Engine.UseANNIndex {
		fmt.Println("Using HNSW index for descriptor matching")
		opts.Matcher = engine.NewIndexedMatcher(cfg.Engine.DescriptorDim, cfg.Engine.MatchThreshold)
	}

	eng := engine.New(b.repos.Employees, b.repos.Offices, b.repos.Events, opts)

	// Replay today's events so an engine restarted mid-day still rejects a
	// second check-in.
	now := time.Now().In(loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	events, err := b.repos.Events.EventsBetween(ctx, from, from.Add(24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("restoring session state: %w", err)
	}
	eng.Sessions().Restore(events, loc)
	if len(events) > 0 {
		fmt.Printf("Restored session state from %d events\n", len(events))
	}

	return eng, nil
}
