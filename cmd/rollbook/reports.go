package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/mmynk/rollbook/internal/service"
	"github.com/mmynk/rollbook/internal/spreadsheet"
)

func (cli *commandLine) dashboard(_ context.Context, args []string) error {
	fs := cli.flagSet("dashboard")
	asJSON := fs.Bool("json", false, "Print JSON")
	if err := parse(fs, args); err != nil {
		return err
	}

	db := cli.reports.Dashboard()
	if *asJSON {
		return json.NewEncoder(cli.out).Encode(map[string]any{
			"totalStudents":     db.TotalStudents,
			"averageGpa":        db.AverageGPA,
			"averageAttendance": db.AverageAttendance,
			"totalOutstanding":  db.TotalOutstanding,
		})
	}
	fmt.Fprintf(cli.out, "Students:           %d\n", db.TotalStudents)
	fmt.Fprintf(cli.out, "Average GPA:        %.2f\n", db.AverageGPA)
	fmt.Fprintf(cli.out, "Average attendance: %.2f%%\n", db.AverageAttendance)
	fmt.Fprintf(cli.out, "Fees outstanding:   %.2f\n", db.TotalOutstanding)
	return nil
}

func (cli *commandLine) export(_ context.Context, args []string) error {
	fs := cli.flagSet("export")
	path := fs.String("out", "roster.xlsx", "Output workbook")
	search := fs.String("search", "", "Match name or roll")
	course := fs.String("course", "", "Course filter")
	semester := fs.String("semester", "", "Semester filter")
	if err := parse(fs, args); err != nil {
		return err
	}

	rows := cli.reports.Roster(service.StudentFilter{Search: *search, Course: *course, Semester: *semester})
	f, err := os.Create(*path)
	if err != nil {
		return err
	}
	if err := spreadsheet.ExportRoster(f, cli.reports.Dashboard(), rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Exported %d students to %s\n", len(rows), *path)
	return nil
}

func (cli *commandLine) reset(ctx context.Context, args []string) error {
	fs := cli.flagSet("reset")
	yes := fs.Bool("yes", false, "Confirm erasing all data")
	if err := parse(fs, args); err != nil {
		return err
	}
	if !*yes {
		return errNotConfirmed
	}

	if err := cli.store.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "All data erased")
	return nil
}
