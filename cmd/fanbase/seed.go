package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fanbase/fanbase/internal/domain/entities"
	"github.com/fanbase/fanbase/internal/domain/errs"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the baseline series, timeline and sample characters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				return seed(cmd.Context(), d)
			})
		},
	}
}

// seed writes the fixed catalog rows. All saves are upserts, so re-running
// the command refreshes the catalog without duplicating it.
func seed(ctx context.Context, d *Deps) error {
	series := []*entities.Series{
		{ID: "classic", Name: "Classic", Description: "The original series", StartYear: "20XX", ColorCode: "#1e88e5"},
		{ID: "x", Name: "X", Description: "The Maverick Wars era", StartYear: "21XX", ColorCode: "#43a047"},
		{ID: "zero", Name: "Zero", Description: "After the Elf Wars", StartYear: "22XX", ColorCode: "#e53935"},
		{ID: "legends", Name: "Legends", Description: "The age of carbons", StartYear: "52XX", ColorCode: "#fdd835"},
	}
	for _, s := range series {
		if err := d.Store.SaveSeries(ctx, s); err != nil {
			return fmt.Errorf("seeding series %s: %w", s.ID, err)
		}
	}

	now := time.Now()
	characters := []*entities.Character{
		{ID: "rock", Name: "Mega Man", Alias: "Rock", SeriesID: "classic", IsRobotMaster: false, FirstAppearance: "Mega Man", CreatedAt: now},
		{ID: "roll", Name: "Roll", SeriesID: "classic", FirstAppearance: "Mega Man", CreatedAt: now},
		{ID: "dr-light", Name: "Dr. Light", SeriesID: "classic", IsHuman: true, FirstAppearance: "Mega Man", CreatedAt: now},
		{ID: "dr-wily", Name: "Dr. Wily", SeriesID: "classic", IsHuman: true, FirstAppearance: "Mega Man", CreatedAt: now},
		{ID: "x-unit", Name: "X", SeriesID: "x", IsReploid: true, FirstAppearance: "Mega Man X", CreatedAt: now},
		{ID: "zero-unit", Name: "Zero", SeriesID: "x", IsReploid: true, FirstAppearance: "Mega Man X", CreatedAt: now},
		{ID: "sigma", Name: "Sigma", SeriesID: "x", IsReploid: true, IsMaverick: true, FirstAppearance: "Mega Man X", CreatedAt: now},
	}
	for _, c := range characters {
		if err := d.Store.SaveCharacter(ctx, c); err != nil {
			return fmt.Errorf("seeding character %s: %w", c.ID, err)
		}
	}

	edges := []struct {
		source, target, edgeType, description string
	}{
		{"dr-light", "rock", "creator", "Built Rock as a lab assistant"},
		{"dr-light", "roll", "creator", ""},
		{"rock", "roll", "sibling", ""},
		{"dr-wily", "rock", "enemy", ""},
		{"x-unit", "zero-unit", "ally", "Maverick Hunter partners"},
		{"sigma", "x-unit", "enemy", ""},
	}
	for _, e := range edges {
		if _, err := d.API.Relationships.AddEdge(ctx, e.source, e.target, e.edgeType, e.description); err != nil {
			// A re-run hits the duplicate check; anything else is a real failure
			var conflict *errs.ConflictError
			if errors.As(err, &conflict) {
				continue
			}
			return fmt.Errorf("seeding edge %s->%s: %w", e.source, e.target, err)
		}
	}

	official := &entities.Timeline{
		ID:          "official",
		Title:       "Official Timeline",
		Description: "The commonly accepted sequence of events",
		IsOfficial:  true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := d.Store.SaveTimeline(ctx, official); err != nil {
		return fmt.Errorf("seeding timeline: %w", err)
	}

	fmt.Println("Seed data loaded")
	return nil
}
