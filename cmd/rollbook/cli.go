package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mmynk/rollbook/internal/middleware"
	"github.com/mmynk/rollbook/internal/service"
	"github.com/mmynk/rollbook/internal/store"
)

var (
	errHelp = fmt.Errorf("%w: help provided", middleware.ErrUsage)

	errNotConfirmed = fmt.Errorf("%w: destructive command needs -yes", middleware.ErrUsage)
)

type command struct {
	name    string
	usage   string
	handler middleware.Handler
}

type commandLine struct {
	store      *store.Store
	students   *service.StudentService
	academics  *service.AcademicService
	attendance *service.AttendanceService
	fees       *service.FeeService
	reports    *service.ReportService

	validate *validator.Validate
	out      io.Writer
	now      func() time.Time
	commands []command
}

func newCommandLine(st *store.Store, out io.Writer, opts ...service.FeeOption) *commandLine {
	cli := &commandLine{
		store:      st,
		students:   service.NewStudentService(st),
		academics:  service.NewAcademicService(st),
		attendance: service.NewAttendanceService(st),
		fees:       service.NewFeeService(st, opts...),
		reports:    service.NewReportService(st),
		validate:   validator.New(),
		out:        out,
		now:        time.Now,
	}
	cli.commands = []command{
		{"student-add", "-roll ROLL -name NAME [-course ...] - add a student", cli.studentAdd},
		{"student-update", "-id ID [-roll ...] [-replace] - change a student's details", cli.studentUpdate},
		{"student-remove", "-id ID | -roll ROLL - remove a student", cli.studentRemove},
		{"student-clear", "-yes - remove every student", cli.studentClear},
		{"student-list", "[-search S] [-course C] [-semester S] [-json] - list students", cli.studentList},
		{"student-import", "-file FILE.xlsx - add students from a spreadsheet", cli.studentImport},
		{"subject-add", "-course C -semester S -name NAME -max N - add a subject", cli.subjectAdd},
		{"subject-list", "[-course C] [-semester S] - list subjects", cli.subjectList},
		{"marks-save", "-roll ROLL SUBJECT_ID=MARKS... - record marks", cli.marksSave},
		{"marks-sheet", "-roll ROLL [-course C] [-semester S] - show a student's marks", cli.marksSheet},
		{"attendance-mark", "[-date D] [-course C -semester S -all STATUS] ROLL=STATUS... - mark attendance", cli.attendanceMark},
		{"attendance-summary", "-roll ROLL | -date D - show attendance", cli.attendanceSummary},
		{"fee-total", "-roll ROLL -total N - set the total fee", cli.feeTotal},
		{"fee-pay", "-roll ROLL -amount N - record a payment", cli.feePay},
		{"fee-info", "-roll ROLL - show a fee account", cli.feeInfo},
		{"dashboard", "[-json] - show headline figures", cli.dashboard},
		{"export", "-out FILE.xlsx [-search S] [-course C] [-semester S] - export the roster", cli.export},
		{"reset", "-yes - erase all data", cli.reset},
	}
	return cli
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	for _, c := range cli.commands {
		fmt.Fprintf(w, "  %s\t%s\n", c.name, c.usage)
	}
	w.Flush()
}

// run dispatches args (program name first) to a command.
func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	for _, c := range cli.commands {
		if c.name == args[1] {
			h := middleware.Chain(c.name, c.handler, middleware.Logging, middleware.Recover)
			return h(ctx, args[2:])
		}
	}
	cli.printUsage()
	return errHelp
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		return errHelp
	}
	if err != nil {
		return fmt.Errorf("%w: %v", middleware.ErrUsage, err)
	}
	return nil
}

// check validates v and turns field failures into a usage error.
func (cli *commandLine) check(v any, fields ...string) error {
	var err error
	if len(fields) > 0 {
		err = cli.validate.StructPartial(v, fields...)
	} else {
		err = cli.validate.Struct(v)
	}
	return validationError(err)
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fieldMessage(fe)
	}
	return fmt.Errorf("%w: %s", middleware.ErrUsage, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "datetime":
		return field + " must be a date like 2006-01-02"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

func (cli *commandLine) table() *tabwriter.Writer {
	return tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
}

// splitPair parses KEY=VALUE positional arguments.
func splitPair(arg string) (string, string, error) {
	k, v, ok := strings.Cut(arg, "=")
	if !ok || k == "" {
		return "", "", fmt.Errorf("%w: expected KEY=VALUE, got %q", middleware.ErrUsage, arg)
	}
	return k, v, nil
}
