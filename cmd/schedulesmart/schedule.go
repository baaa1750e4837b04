/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Raop2/ScheduleSmartNew/internal/db"
	"github.com/Raop2/ScheduleSmartNew/internal/engine"
	"github.com/Raop2/ScheduleSmartNew/internal/export"
	"github.com/Raop2/ScheduleSmartNew/internal/models"
	"github.com/Raop2/ScheduleSmartNew/internal/solver"
	"github.com/Raop2/ScheduleSmartNew/internal/taskstore"
)

var (
	scheduleTasksFile string
	scheduleStrategy  string
	scheduleStartHour int
	scheduleEndHour   int
	scheduleWeekends  bool
	scheduleICSOut    string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run one scheduling pass",
	Long:  "Schedule tasks from a YAML file or from the task store and print the resulting plan",
	RunE:  runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVarP(&scheduleTasksFile, "tasks", "t", "", "YAML file with tasks (default: use the task store)")
	scheduleCmd.Flags().StringVarP(&scheduleStrategy, "strategy", "s", "greedy", "scheduling strategy: greedy or optimal")
	scheduleCmd.Flags().IntVar(&scheduleStartHour, "start-hour", 9, "work window start hour")
	scheduleCmd.Flags().IntVar(&scheduleEndHour, "end-hour", 17, "work window end hour")
	scheduleCmd.Flags().BoolVar(&scheduleWeekends, "weekends", false, "allow scheduling on weekends")
	scheduleCmd.Flags().StringVarP(&scheduleICSOut, "ics", "o", "", "write the plan to this iCal file")
}

// taskFile is the YAML document accepted by --tasks.
type taskFile struct {
	Tasks       []models.Task               `yaml:"tasks"`
	Preferences *models.SchedulePreferences `yaml:"preferences,omitempty"`
}

func runSchedule(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	strategy, err := engine.ParseStrategy(scheduleStrategy)
	if err != nil {
		return err
	}

	prefs := models.SchedulePreferences{
		StartHour:       scheduleStartHour,
		EndHour:         scheduleEndHour,
		IncludeWeekends: scheduleWeekends,
	}

	var tasks []models.Task
	var store *taskstore.Store

	if scheduleTasksFile != "" {
		data, err := os.ReadFile(scheduleTasksFile)
		if err != nil {
			return fmt.Errorf("read tasks file: %w", err)
		}
		var file taskFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("parse tasks file: %w", err)
		}
		tasks = file.Tasks
		for i := range tasks {
			if tasks[i].ID == "" {
				tasks[i].ID = uuid.NewString()
			}
			if tasks[i].Priority == "" {
				tasks[i].Priority = models.PriorityMedium
			}
		}
		if file.Preferences != nil {
			prefs = *file.Preferences
		}
	} else {
		database, err := db.Connect(cfg)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer func() { _ = db.Close(database) }()

		if err := db.Migrate(database); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		store = taskstore.New(database, logger)
		tasks, err = store.ListTasks(cmd.Context())
		if err != nil {
			return err
		}
		stored, err := store.GetPreferences(cmd.Context())
		if err != nil {
			return err
		}
		prefs = *stored
	}

	eng := engine.New(&solver.BranchBound{}, engine.Options{
		GreedyHorizonDays:  cfg.GreedyHorizonDays,
		OptimalHorizonDays: cfg.OptimalHorizonDays,
		SolverTimeLimit:    cfg.SolverTimeLimit,
	}, logger)

	result, err := eng.Schedule(cmd.Context(), tasks, prefs, strategy, time.Now())
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.ApplyResult(cmd.Context(), result); err != nil {
			return err
		}
	}

	printResult(result)

	if scheduleICSOut != "" {
		if err := writeICS(scheduleICSOut, tasks, result); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", scheduleICSOut)
	}

	return nil
}

func printResult(result *engine.Result) {
	fmt.Printf("status: %s\n", result.Status)

	if len(result.Scheduled) > 0 {
		fmt.Println("\nscheduled:")
		for _, a := range result.Scheduled {
			fmt.Printf("  %s - %s  %s\n",
				a.StartsAt.Format("Mon Jan 2 15:04"),
				a.EndsAt.Format("15:04"),
				a.Name)
		}
	}

	if len(result.Unscheduled) > 0 {
		fmt.Println("\nunscheduled:")
		for _, u := range result.Unscheduled {
			fmt.Printf("  %s: %s\n", u.TaskID, u.Reason)
		}
	}
}

// writeICS renders the plan as an iCal file. Assignments are copied onto
// the in-memory tasks first so ad-hoc runs export without a database.
func writeICS(path string, tasks []models.Task, result *engine.Result) error {
	byID := make(map[string]*models.Task, len(tasks))
	for i := range tasks {
		byID[tasks[i].ID] = &tasks[i]
	}
	for _, a := range result.Scheduled {
		task, ok := byID[a.TaskID]
		if !ok {
			continue
		}
		start, end := a.StartsAt, a.EndsAt
		task.ScheduledStart = &start
		task.ScheduledEnd = &end
	}

	data := export.BuildICal(tasks, time.Now())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write ics file: %w", err)
	}
	return nil
}
