package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"text/tabwriter"

	"github.com/atinyakov/DietJournal/internal/client"
	"github.com/atinyakov/DietJournal/internal/models"
	"github.com/spf13/cobra"
)

func (a *app) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username>",
		Short: "Log in, registering the username on first use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.api.Login(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			s := &client.Session{UserID: res.UserID, Username: res.Username}
			if err := s.Save(a.sessionPath); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res.IsNew {
				fmt.Fprintf(out, "Welcome, %s! Registered as user %d\n", res.Username, res.UserID)
			} else {
				fmt.Fprintf(out, "Logged in as %s (user %d)\n", res.Username, res.UserID)
			}
			if res.CurrentStage != nil {
				printStage(out, res.CurrentStage)
			}
			return nil
		},
	}
}

func (a *app) stageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Manage program stages",
	}

	var (
		stageType string
		startDate string
		weight    float64
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Open a new stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := a.currentUser()
			if err != nil {
				return err
			}
			id, err := a.api.CreateStage(cmd.Context(), client.StageInput{
				UserID: uid, StageType: stageType, StartDate: startDate, InitialWeight: weight,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened stage %d\n", id)
			return nil
		},
	}
	create.Flags().StringVar(&stageType, "type", "", "stage type, e.g. training")
	create.Flags().StringVar(&startDate, "start", today(), "start date (YYYY-MM-DD)")
	create.Flags().Float64Var(&weight, "weight", 0, "initial weight")
	_ = create.MarkFlagRequired("type")
	_ = create.MarkFlagRequired("weight")

	var stageID int64
	complete := &cobra.Command{
		Use:   "complete",
		Short: "Complete a stage (the open one by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := a.currentUser()
			if err != nil {
				return err
			}
			id := stageID
			if id == 0 {
				open, err := a.api.CurrentStage(cmd.Context(), uid)
				if err != nil {
					return err
				}
				if open == nil {
					return fmt.Errorf("no open stage")
				}
				id = open.ID
			}
			if err := a.api.CompleteStage(cmd.Context(), uid, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed stage %d\n", id)
			return nil
		},
	}
	complete.Flags().Int64Var(&stageID, "id", 0, "stage id")

	current := &cobra.Command{
		Use:   "current",
		Short: "Show the open stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := a.currentUser()
			if err != nil {
				return err
			}
			stage, err := a.api.CurrentStage(cmd.Context(), uid)
			if err != nil {
				return err
			}
			if stage == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No open stage")
				return nil
			}
			printStage(cmd.OutOrStdout(), stage)
			return nil
		},
	}

	cmd.AddCommand(create, complete, current)
	return cmd
}

func (a *app) entryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Record and read daily entries",
	}

	var (
		date    string
		stageID int64
		params  string
		weight  float64
		meals   []string
	)
	save := &cobra.Command{
		Use:   "save",
		Short: "Save a day's parameters and meals",
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := a.currentUser()
			if err != nil {
				return err
			}
			in := client.EntryInput{UserID: uid, StageID: stageID, EntryDate: date, Meals: []models.Meal{}}
			if params != "" {
				if err := json.Unmarshal([]byte(params), &in.DailyParams); err != nil {
					return fmt.Errorf("--params: %w", err)
				}
			}
			if cmd.Flags().Changed("weight") {
				in.DailyParams.MorningWeight = models.Num(weight)
			}
			for _, raw := range meals {
				m, err := parseMeal(raw)
				if err != nil {
					return err
				}
				in.Meals = append(in.Meals, m)
			}
			if in.StageID == 0 {
				open, err := a.api.CurrentStage(cmd.Context(), uid)
				if err != nil {
					return err
				}
				if open == nil {
					return fmt.Errorf("no open stage: pass --stage or run `dietjournal stage create`")
				}
				in.StageID = open.ID
			}
			id, err := a.api.SaveEntry(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved entry %d for %s\n", id, in.EntryDate)
			return nil
		},
	}
	save.Flags().StringVar(&date, "date", today(), "entry date (YYYY-MM-DD)")
	save.Flags().Int64Var(&stageID, "stage", 0, "stage id (the open stage by default)")
	save.Flags().StringVar(&params, "params", "", `daily parameters as JSON, e.g. '{"morning_weight":79.5,"waist":70}'`)
	save.Flags().Float64Var(&weight, "weight", 0, "morning weight")
	save.Flags().StringArrayVar(&meals, "meal", nil, "meal as time|food|mass|kcal (repeatable)")

	var getDate string
	get := &cobra.Command{
		Use:   "get",
		Short: "Show the entry for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := a.currentUser()
			if err != nil {
				return err
			}
			e, err := a.api.GetEntry(cmd.Context(), uid, getDate)
			if err != nil {
				return err
			}
			if e == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "No entry for %s\n", getDate)
				return nil
			}
			return printJSON(cmd.OutOrStdout(), e)
		},
	}
	get.Flags().StringVar(&getDate, "date", today(), "entry date (YYYY-MM-DD)")

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List recent entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := a.currentUser()
			if err != nil {
				return err
			}
			entries, err := a.api.History(cmd.Context(), uid, limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tSTAGE\tWEIGHT\tMEALS")
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%d\n", e.ID, e.EntryDate, e.StageID,
					formatNumber(e.DailyParams.MorningWeight.Ptr()), len(e.Meals))
			}
			return w.Flush()
		},
	}
	history.Flags().IntVar(&limit, "limit", 0, "number of entries (server default 30)")

	cmd.AddCommand(save, get, history)
	return cmd
}

func (a *app) productCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage the personal product catalog",
	}

	var kcal float64
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := a.currentUser()
			if err != nil {
				return err
			}
			id, err := a.api.AddProduct(cmd.Context(), uid, args[0], kcal)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added product %d\n", id)
			return nil
		},
	}
	add.Flags().Float64Var(&kcal, "kcal", 0, "calories per 100 g")
	_ = add.MarkFlagRequired("kcal")

	list := &cobra.Command{
		Use:   "list",
		Short: "List all products",
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := a.currentUser()
			if err != nil {
				return err
			}
			products, err := a.api.ListProducts(cmd.Context(), uid)
			if err != nil {
				return err
			}
			return printProducts(cmd.OutOrStdout(), products)
		},
	}

	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Find products whose name contains query (case-sensitive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := a.currentUser()
			if err != nil {
				return err
			}
			products, err := a.api.SearchProducts(cmd.Context(), uid, args[0])
			if err != nil {
				return err
			}
			return printProducts(cmd.OutOrStdout(), products)
		},
	}

	cmd.AddCommand(add, list, search)
	return cmd
}

func (a *app) reportCmd() *cobra.Command {
	var (
		date   string
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a daily report and optionally download it",
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := a.currentUser()
			if err != nil {
				return err
			}
			url, err := a.api.GenerateReport(cmd.Context(), uid, date, format)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report: %s%s\n", a.api.BaseURL(), url)
			if output == "" {
				return nil
			}
			if output == "." {
				output = path.Base(url)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer f.Close()
			if err := a.api.DownloadReport(cmd.Context(), url, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", today(), "report date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&format, "format", "html", "html, pdf or excel")
	cmd.Flags().StringVarP(&output, "output", "o", "", `download into this file ("." keeps the server name)`)
	return cmd
}

func (a *app) statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics",
	}

	var (
		days    int
		summary bool
	)
	weight := &cobra.Command{
		Use:   "weight",
		Short: "Show recent weights, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := a.currentUser()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if summary {
				s, err := a.api.WeightSummary(cmd.Context(), uid, days)
				if err != nil {
					return err
				}
				if s.Days == 0 {
					fmt.Fprintln(out, "No weights recorded")
					return nil
				}
				fmt.Fprintf(out, "Days: %d\nFirst: %g\nLast: %g\nMin: %g\nMax: %g\nMean: %g\nChange: %+g\n",
					s.Days, s.First, s.Last, s.Min, s.Max, s.Mean, s.Change)
				return nil
			}
			points, err := a.api.WeightStats(cmd.Context(), uid, days)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tWEIGHT\tNEXT\tLOST")
			for _, p := range points {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Date, formatNumber(p.Weight), formatNumber(p.NextWeight), formatNumber(p.LostWeight))
			}
			return w.Flush()
		},
	}
	weight.Flags().IntVar(&days, "days", 0, "number of entries (server default 30)")
	weight.Flags().BoolVar(&summary, "summary", false, "print aggregates instead of the series")

	cmd.AddCommand(weight)
	return cmd
}

func printStage(w io.Writer, s *models.Stage) {
	fmt.Fprintf(w, "Stage %d: %s since %s, initial weight %g\n", s.ID, s.StageType, s.StartDate, s.InitialWeight)
}

func printProducts(out io.Writer, products []models.Product) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tKCAL/100G")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%g\n", p.ID, p.Name, p.CaloriesPer100g)
	}
	return w.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
