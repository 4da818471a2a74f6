// Package cli implements the shalat command line client.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nixie-Tech-LLC/shalat/internal/aladhan"
	"github.com/Nixie-Tech-LLC/shalat/internal/config"
	"github.com/Nixie-Tech-LLC/shalat/internal/location"
	"github.com/Nixie-Tech-LLC/shalat/internal/model"
	"github.com/Nixie-Tech-LLC/shalat/internal/prayer"
)

// Deps are the collaborators a command needs. Nil fields are filled from
// the environment when the command runs.
type Deps struct {
	Fetcher  aladhan.Fetcher
	Locator  location.Locator
	Catalog  *location.Catalog
	Now      func() time.Time
	Timezone *time.Location
}

type options struct {
	city      string
	latitude  float64
	longitude float64
	auto      bool
	method    int
	json      bool
}

// NewRootCmd creates the root command for the shalat CLI.
func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(version, &Deps{})
}

func newRootCmd(version string, deps *Deps) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "shalat",
		Short:   "Jadwal shalat for Indonesian cities",
		Long:    "Shows today's prayer times and the next prayer for an Indonesian city, using the Kemenag calculation method.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return deps.fill(opts)
		},
		// Default action: show today's prayer schedule.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToday(cmd, deps, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.city, "city", "", "City name from the catalog (default Jakarta)")
	pf.Float64Var(&opts.latitude, "lat", 0, "Latitude, used with --lon instead of --city")
	pf.Float64Var(&opts.longitude, "lon", 0, "Longitude, used with --lat instead of --city")
	pf.BoolVar(&opts.auto, "auto", false, "Detect the location from the public IP address")
	pf.IntVar(&opts.method, "method", -1, "Override calculation method (default from ALADHAN_METHOD, 11)")
	pf.BoolVar(&opts.json, "json", false, "Output as JSON")

	rootCmd.AddCommand(newNextCmd(deps, opts))
	rootCmd.AddCommand(newTodayCmd(deps, opts))
	rootCmd.AddCommand(newCitiesCmd(deps))

	return rootCmd
}

// fill loads configuration for any dependency the caller did not inject.
func (d *Deps) fill(opts *options) error {
	if d.Catalog == nil {
		d.Catalog = location.DefaultCatalog()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Fetcher != nil && d.Timezone != nil && d.Locator != nil {
		return nil
	}

	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if d.Timezone == nil {
		d.Timezone = cfg.Timezone
	}
	if d.Locator == nil {
		d.Locator = location.NewIPLocator()
	}
	if d.Fetcher == nil {
		client := aladhan.NewClient()
		client.BaseURL = cfg.AladhanBaseURL
		client.Method = cfg.AladhanMethod
		if opts.method >= 0 {
			client.Method = opts.method
		}
		d.Fetcher = client
	}
	return nil
}

// resolveCity applies the priority --lat/--lon > --auto > --city > default.
func resolveCity(ctx context.Context, cmd *cobra.Command, deps *Deps, opts *options) (model.City, error) {
	flags := cmd.Flags()
	latSet, lonSet := flags.Changed("lat"), flags.Changed("lon")

	switch {
	case latSet || lonSet:
		if !latSet || !lonSet {
			return model.City{}, fmt.Errorf("--lat and --lon must be used together")
		}
		city := model.MyLocation(model.Coordinate{Latitude: opts.latitude, Longitude: opts.longitude})
		return city, city.Validate()
	case opts.auto:
		if deps.Locator == nil {
			return model.City{}, fmt.Errorf("location detection is not available")
		}
		coord, err := deps.Locator.Locate(ctx, "")
		if err != nil {
			return model.City{}, fmt.Errorf("location detection failed: %w", err)
		}
		return model.MyLocation(coord), nil
	case opts.city != "":
		city, ok := deps.Catalog.Find(opts.city)
		if !ok {
			return model.City{}, fmt.Errorf("unknown city %q, see 'shalat cities'", opts.city)
		}
		return city, nil
	default:
		return deps.Catalog.Default(), nil
	}
}

// status is today's schedule and cursor for a city.
type status struct {
	city     model.City
	schedule model.DailyPrayerSchedule
	cursor   prayer.Cursor
	now      time.Time
}

func loadStatus(cmd *cobra.Command, deps *Deps, opts *options) (*status, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	city, err := resolveCity(ctx, cmd, deps, opts)
	if err != nil {
		return nil, err
	}

	now := deps.Now()
	data, err := deps.Fetcher.FetchSchedule(ctx, city.Coordinate, now.In(deps.Timezone))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prayer times: %w", err)
	}
	schedule, err := data.Schedule()
	if err != nil {
		return nil, fmt.Errorf("failed to read prayer times: %w", err)
	}

	loc := prayer.Location(schedule, deps.Timezone)
	return &status{
		city:     city,
		schedule: schedule,
		cursor:   prayer.ComputeIn(schedule, now, loc),
		now:      now.In(loc),
	}, nil
}
