package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mmynk/rollbook/internal/middleware"
	"github.com/mmynk/rollbook/internal/models"
	"github.com/mmynk/rollbook/internal/service"
)

type subjectInput struct {
	Course   string  `validate:"required"`
	Semester string  `validate:"required"`
	Name     string  `validate:"required"`
	MaxMarks float64 `validate:"gt=0"`
}

type markInput struct {
	Roll    string           `validate:"required"`
	Entries []markEntryInput `validate:"min=1,dive"`
}

type markEntryInput struct {
	SubjectID string  `validate:"required"`
	Obtained  float64 `validate:"gte=0"`
}

type attendanceInput struct {
	Date    string                 `validate:"required,datetime=2006-01-02"`
	Entries []attendanceEntryInput `validate:"min=1,dive"`
}

type attendanceEntryInput struct {
	Roll   string `validate:"required"`
	Status string `validate:"oneof=present absent"`
}

type feeInput struct {
	Roll   string  `validate:"required"`
	Amount float64 `validate:"gte=0"`
}

type paymentInput struct {
	Roll   string  `validate:"required"`
	Amount float64 `validate:"gt=0"`
}

func (cli *commandLine) subjectAdd(ctx context.Context, args []string) error {
	fs := cli.flagSet("subject-add")
	in := subjectInput{}
	fs.StringVar(&in.Course, "course", "", "Course")
	fs.StringVar(&in.Semester, "semester", "", "Semester")
	fs.StringVar(&in.Name, "name", "", "Subject name")
	fs.Float64Var(&in.MaxMarks, "max", 100, "Maximum marks")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := cli.check(in); err != nil {
		return err
	}

	sub, err := cli.academics.AddSubject(ctx, models.Subject{
		Course:   in.Course,
		Semester: in.Semester,
		Name:     in.Name,
		MaxMarks: in.MaxMarks,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Added subject %s (%s)\n", sub.Name, sub.ID)
	return nil
}

func (cli *commandLine) subjectList(_ context.Context, args []string) error {
	fs := cli.flagSet("subject-list")
	course := fs.String("course", "", "Course filter")
	semester := fs.String("semester", "", "Semester filter")
	if err := parse(fs, args); err != nil {
		return err
	}

	w := cli.table()
	fmt.Fprintln(w, "ID\tNAME\tCOURSE\tSEMESTER\tMAX")
	for _, s := range cli.academics.ListSubjects(*course, *semester) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\n", s.ID, s.Name, s.Course, s.Semester, s.MaxMarks)
	}
	return w.Flush()
}

func (cli *commandLine) marksSave(ctx context.Context, args []string) error {
	fs := cli.flagSet("marks-save")
	in := markInput{}
	fs.StringVar(&in.Roll, "roll", "", "Roll number")
	if err := parse(fs, args); err != nil {
		return err
	}
	for _, arg := range fs.Args() {
		id, raw, err := splitPair(arg)
		if err != nil {
			return err
		}
		obtained, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%w: marks for %s: %v", middleware.ErrUsage, id, err)
		}
		in.Entries = append(in.Entries, markEntryInput{SubjectID: id, Obtained: obtained})
	}
	if err := cli.check(in); err != nil {
		return err
	}

	entries := make([]service.MarkEntry, len(in.Entries))
	previous := make(map[string]string, len(in.Entries))
	for i, e := range in.Entries {
		entries[i] = service.MarkEntry{SubjectID: e.SubjectID, Obtained: e.Obtained}
		if m, ok := cli.academics.Mark(in.Roll, e.SubjectID); ok {
			previous[e.SubjectID] = strconv.FormatFloat(m.Obtained, 'g', -1, 64)
		}
	}
	if err := cli.academics.SaveMarks(ctx, in.Roll, entries); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Saved %d marks for %s\n", len(entries), in.Roll)
	for _, e := range entries {
		if was, ok := previous[e.SubjectID]; ok {
			fmt.Fprintf(cli.out, "  %s: %s -> %g\n", e.SubjectID, was, e.Obtained)
		}
	}
	return nil
}

func (cli *commandLine) marksSheet(_ context.Context, args []string) error {
	fs := cli.flagSet("marks-sheet")
	roll := fs.String("roll", "", "Roll number")
	course := fs.String("course", "", "Course (default: the student's)")
	semester := fs.String("semester", "", "Semester (default: the student's)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *roll == "" {
		fs.Usage()
		return errHelp
	}

	rows, err := cli.academics.MarkSheet(*roll, *course, *semester)
	if err != nil {
		return err
	}
	w := cli.table()
	fmt.Fprintln(w, "SUBJECT\tID\tMAX\tOBTAINED")
	for _, r := range rows {
		obtained := "-"
		if r.HasMark {
			obtained = strconv.FormatFloat(r.Obtained, 'g', -1, 64)
		}
		fmt.Fprintf(w, "%s\t%s\t%g\t%s\n", r.Subject.Name, r.Subject.ID, r.Subject.MaxMarks, obtained)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "GPA: %.2f\n", cli.reports.GPAForStudent(*roll))
	return nil
}

func (cli *commandLine) attendanceMark(ctx context.Context, args []string) error {
	fs := cli.flagSet("attendance-mark")
	in := attendanceInput{}
	fs.StringVar(&in.Date, "date", cli.now().Format(service.DateLayout), "Date (YYYY-MM-DD)")
	course := fs.String("course", "", "Course roster to mark with -all")
	semester := fs.String("semester", "", "Semester roster to mark with -all")
	all := fs.String("all", "", "Status for every student in the roster; ROLL=STATUS arguments override it")
	if err := parse(fs, args); err != nil {
		return err
	}

	index := make(map[string]int)
	put := func(roll, status string) {
		if i, ok := index[roll]; ok {
			in.Entries[i].Status = status
			return
		}
		index[roll] = len(in.Entries)
		in.Entries = append(in.Entries, attendanceEntryInput{Roll: roll, Status: status})
	}
	if *all != "" {
		for _, st := range cli.attendance.Roster(*course, *semester) {
			put(st.Roll, *all)
		}
	}
	for _, arg := range fs.Args() {
		roll, status, err := splitPair(arg)
		if err != nil {
			return err
		}
		put(roll, status)
	}
	if err := cli.check(in); err != nil {
		return err
	}

	entries := make([]service.AttendanceEntry, len(in.Entries))
	for i, e := range in.Entries {
		entries[i] = service.AttendanceEntry{Roll: e.Roll, Status: models.AttendanceStatus(e.Status)}
	}
	if err := cli.attendance.MarkForDate(ctx, in.Date, entries); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Marked %d students for %s\n", len(entries), in.Date)
	return nil
}

func (cli *commandLine) attendanceSummary(_ context.Context, args []string) error {
	fs := cli.flagSet("attendance-summary")
	roll := fs.String("roll", "", "Roll number")
	date := fs.String("date", "", "List every record on this date instead")
	if err := parse(fs, args); err != nil {
		return err
	}

	switch {
	case *roll != "":
		s := cli.attendance.Summary(*roll)
		fmt.Fprintf(cli.out, "%s: %d/%d present (%.2f%%)\n", *roll, s.Present, s.Total, s.Percent)
		for _, a := range cli.attendance.RecordsFor(*roll) {
			fmt.Fprintf(cli.out, "  %s  %s\n", a.Date, a.Status)
		}
		return nil
	case *date != "":
		w := cli.table()
		fmt.Fprintln(w, "ROLL\tSTATUS")
		for _, a := range cli.attendance.RecordsOn(*date) {
			fmt.Fprintf(w, "%s\t%s\n", a.Roll, a.Status)
		}
		return w.Flush()
	default:
		fs.Usage()
		return errHelp
	}
}

func (cli *commandLine) feeTotal(ctx context.Context, args []string) error {
	fs := cli.flagSet("fee-total")
	in := feeInput{}
	fs.StringVar(&in.Roll, "roll", "", "Roll number")
	fs.Float64Var(&in.Amount, "total", 0, "Total fee")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := cli.check(in); err != nil {
		return err
	}

	if err := cli.fees.SetTotal(ctx, in.Roll, in.Amount); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Total fee for %s set to %.2f\n", in.Roll, in.Amount)
	return nil
}

func (cli *commandLine) feePay(ctx context.Context, args []string) error {
	fs := cli.flagSet("fee-pay")
	in := paymentInput{}
	fs.StringVar(&in.Roll, "roll", "", "Roll number")
	fs.Float64Var(&in.Amount, "amount", 0, "Amount paid")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := cli.check(in); err != nil {
		return err
	}

	if err := cli.fees.AddPayment(ctx, in.Roll, in.Amount); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Recorded payment of %.2f for %s\n", in.Amount, in.Roll)
	return nil
}

func (cli *commandLine) feeInfo(ctx context.Context, args []string) error {
	fs := cli.flagSet("fee-info")
	roll := fs.String("roll", "", "Roll number")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *roll == "" {
		fs.Usage()
		return errHelp
	}

	info, err := cli.fees.Info(ctx, *roll)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Total: %.2f\nPaid:  %.2f\nDue:   %.2f\n", info.Total, info.Paid, info.Due)
	for _, p := range info.Payments {
		fmt.Fprintf(cli.out, "  %s  %.2f\n", p.Date, p.Amount)
	}
	return nil
}
