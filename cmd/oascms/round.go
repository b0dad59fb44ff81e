package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/oascms/internal/lottery"
)

func (a *app) roundCommands() map[string]func(context.Context, []string) error {
	return map[string]func(context.Context, []string) error{
		"open":  a.roundOpen,
		"apply": a.roundApply,
		"close": a.roundClose,
		"draw":  a.roundDraw,
		"show":  a.roundShow,
		"list":  a.roundList,
	}
}

func (a *app) roundOpen(ctx context.Context, args []string) error {
	fs := newFlagSet("round open")
	project := fs.String("project", "", "project id")
	name := fs.String("name", "", "round name")
	start := fs.String("start", "", "start date (YYYY-MM-DD)")
	end := fs.String("end", "", "end date (YYYY-MM-DD)")
	winners := fs.Int("winners", 0, "number of winner slots")
	units := fs.StringSlice("units", nil, "available unit ids")

	if err := parseFlags(fs, args); err != nil {
		return err
	}

	startDate, err := parseDate("start", *start)
	if err != nil {
		return err
	}

	endDate, err := parseDate("end", *end)
	if err != nil {
		return err
	}

	round, err := a.lottery.OpenRound(ctx, lottery.OpenRoundParams{
		ProjectID:      *project,
		Name:           *name,
		StartDate:      startDate,
		EndDate:        endDate,
		TotalWinners:   *winners,
		AvailableUnits: *units,
	})
	if err != nil {
		return err
	}

	return a.print(newRoundView(round))
}

func (a *app) roundApply(ctx context.Context, args []string) error {
	fs := newFlagSet("round apply")
	roundFlag := fs.String("round", "", "round id")
	name := fs.String("name", "", "applicant name")
	phone := fs.String("phone", "", "phone number")
	email := fs.String("email", "", "email address")
	group := fs.String("group", "", "priority group (P1_FIRST_TIME, P2_VETERAN, P3_LOCAL, P4_GENERAL)")
	age := fs.Int("age", 0, "age in years")
	family := fs.Int("family", 1, "family size")
	residence := fs.Int("residence", 0, "years of residence")
	firstTime := fs.Bool("first-time", false, "first-time buyer")
	prefer := fs.StringSlice("prefer", nil, "preferred unit ids, most wanted first")

	if err := parseFlags(fs, args); err != nil {
		return err
	}

	roundID, err := parseID("round", *roundFlag)
	if err != nil {
		return err
	}

	profile, err := lottery.ApplicantProfile{FamilySize: 1}.Apply(
		lottery.SetAge(*age),
		lottery.SetFamilySize(*family),
		lottery.SetYearsOfResidence(*residence),
		lottery.SetFirstTimeBuyer(*firstTime),
	)
	if err != nil {
		return err
	}

	prefs := make([]lottery.Preference, 0, len(*prefer))
	for i, unit := range *prefer {
		prefs = append(prefs, lottery.Preference{UnitID: unit, Rank: i + 1})
	}

	applicant, err := a.lottery.AddApplicant(ctx, roundID, lottery.AddApplicantParams{
		Name:          *name,
		Phone:         *phone,
		Email:         *email,
		PriorityGroup: lottery.PriorityGroup(*group),
		Profile:       profile,
		Preferences:   prefs,
	})
	if err != nil {
		return err
	}

	return a.print(newApplicantView(applicant))
}

func (a *app) roundClose(ctx context.Context, args []string) error {
	roundID, err := a.roundFlag("round close", args)
	if err != nil {
		return err
	}

	round, err := a.lottery.CloseRound(ctx, roundID)
	if err != nil {
		return err
	}

	return a.print(newRoundView(round))
}

func (a *app) roundDraw(ctx context.Context, args []string) error {
	roundID, err := a.roundFlag("round draw", args)
	if err != nil {
		return err
	}

	round, err := a.lottery.DrawWinners(ctx, roundID)
	if err != nil {
		return err
	}

	res, err := lottery.Summarize(round)
	if err != nil {
		return err
	}

	return a.print(newResultView(round, res))
}

func (a *app) roundShow(ctx context.Context, args []string) error {
	fs := newFlagSet("round show")
	roundFlag := fs.String("round", "", "round id")
	results := fs.Bool("results", false, "print the draw results instead of the round")

	if err := parseFlags(fs, args); err != nil {
		return err
	}

	roundID, err := parseID("round", *roundFlag)
	if err != nil {
		return err
	}

	round, err := a.lottery.GetRound(ctx, roundID)
	if err != nil {
		return err
	}

	if !*results {
		return a.print(newRoundView(round))
	}

	res, err := a.lottery.Results(ctx, roundID)
	if err != nil {
		return err
	}

	return a.print(newResultView(round, res))
}

func (a *app) roundList(ctx context.Context, args []string) error {
	fs := newFlagSet("round list")
	project := fs.String("project", "", "project id, empty for all")

	if err := parseFlags(fs, args); err != nil {
		return err
	}

	rounds, err := a.lottery.ListRounds(ctx, *project)
	if err != nil {
		return fmt.Errorf("listing rounds: %w", err)
	}

	views := make([]roundView, 0, len(rounds))
	for _, r := range rounds {
		views = append(views, newRoundView(r))
	}

	return a.print(views)
}

func (a *app) roundFlag(name string, args []string) (uuid.UUID, error) {
	fs := newFlagSet(name)
	roundFlag := fs.String("round", "", "round id")

	if err := parseFlags(fs, args); err != nil {
		return uuid.Nil, err
	}

	return parseID("round", *roundFlag)
}
