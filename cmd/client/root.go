package main

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atinyakov/DietJournal/internal/client"
	"github.com/atinyakov/DietJournal/internal/models"
	"github.com/spf13/cobra"
)

const defaultSessionFile = ".dietjournal-session.json"

// app carries the state shared by all commands of one invocation.
type app struct {
	baseURL     string
	sessionPath string
	userID      int64
	api         *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "dietjournal",
		Short:         "dietjournal keeps a diet journal on a remote server",
		Long:          "dietjournal logs in by username and records program stages, daily weights and meals, products and reports.",
		Version:       fmt.Sprintf("%s (built %s)", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A")),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.api = client.New(a.baseURL, nil)
		},
	}
	root.PersistentFlags().StringVar(&a.baseURL, "url", "http://localhost:8080", "server base URL")
	root.PersistentFlags().StringVar(&a.sessionPath, "session", defaultSessionFile, "file remembering the logged-in user")
	root.PersistentFlags().Int64Var(&a.userID, "user", 0, "user id (overrides the session)")

	root.AddCommand(
		a.loginCmd(),
		a.stageCmd(),
		a.entryCmd(),
		a.productCmd(),
		a.reportCmd(),
		a.statsCmd(),
	)
	return root
}

// currentUser returns the --user flag or the id stored by the last login.
func (a *app) currentUser() (int64, error) {
	if a.userID > 0 {
		return a.userID, nil
	}
	s, err := client.LoadSession(a.sessionPath)
	if err != nil {
		return 0, err
	}
	if !s.LoggedIn() {
		return 0, errors.New("not logged in: run `dietjournal login <username>` or pass --user")
	}
	return s.UserID, nil
}

func today() string {
	return time.Now().Format(models.DateLayout)
}

// parseMeal reads "time|food|mass|kcal"; mass and kcal may be empty.
func parseMeal(raw string) (models.Meal, error) {
	parts := strings.Split(raw, "|")
	if len(parts) < 2 || len(parts) > 4 {
		return models.Meal{}, fmt.Errorf("meal %q: want time|food|mass|kcal", raw)
	}
	for len(parts) < 4 {
		parts = append(parts, "")
	}
	m := models.Meal{Time: strings.TrimSpace(parts[0]), Food: strings.TrimSpace(parts[1])}
	if err := m.Mass.UnmarshalJSON([]byte(strconv.Quote(parts[2]))); err != nil {
		return models.Meal{}, fmt.Errorf("meal %q: mass: %w", raw, err)
	}
	if err := m.Kcal.UnmarshalJSON([]byte(strconv.Quote(parts[3]))); err != nil {
		return models.Meal{}, fmt.Errorf("meal %q: kcal: %w", raw, err)
	}
	return m, nil
}

func formatNumber(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
