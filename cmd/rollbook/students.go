package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/mmynk/rollbook/internal/models"
	"github.com/mmynk/rollbook/internal/service"
	"github.com/mmynk/rollbook/internal/spreadsheet"
)

// studentInput is a student as entered on the command line.
type studentInput struct {
	Roll        string `validate:"required"`
	Name        string `validate:"required"`
	Course      string
	Semester    string
	DOB         string `validate:"omitempty,datetime=2006-01-02"`
	Gender      string
	Phone       string
	Email       string `validate:"omitempty,email"`
	ParentPhone string
	Address     string
	Blood       string
}

func fromStudent(s models.Student) studentInput {
	return studentInput{
		Roll: s.Roll, Name: s.Name, Course: s.Course, Semester: s.Semester,
		DOB: s.DOB, Gender: s.Gender, Phone: s.Phone, Email: s.Email,
		ParentPhone: s.ParentPhone, Address: s.Address, Blood: s.Blood,
	}
}

func (in studentInput) student() models.Student {
	return models.Student{
		Roll: in.Roll, Name: in.Name, Course: in.Course, Semester: in.Semester,
		DOB: in.DOB, Gender: in.Gender, Phone: in.Phone, Email: in.Email,
		ParentPhone: in.ParentPhone, Address: in.Address, Blood: in.Blood,
	}
}

// studentFlags binds one flag per student field.
type studentFlags struct {
	values map[string]*string
}

// studentFlagFields maps flag names to studentInput field names.
var studentFlagFields = []struct{ flag, field, usage string }{
	{"roll", "Roll", "Roll number (unique)"},
	{"name", "Name", "Full name"},
	{"course", "Course", "Course, e.g. BCA"},
	{"semester", "Semester", "Semester, e.g. Sem 1"},
	{"dob", "DOB", "Date of birth (YYYY-MM-DD)"},
	{"gender", "Gender", "Gender"},
	{"phone", "Phone", "Phone number"},
	{"email", "Email", "Email address"},
	{"parent-phone", "ParentPhone", "Parent's phone number"},
	{"address", "Address", "Postal address"},
	{"blood", "Blood", "Blood group, e.g. O+"},
}

func addStudentFlags(fs *flag.FlagSet) *studentFlags {
	sf := &studentFlags{values: make(map[string]*string, len(studentFlagFields))}
	for _, f := range studentFlagFields {
		sf.values[f.field] = fs.String(f.flag, "", f.usage)
	}
	return sf
}

func (sf *studentFlags) input() studentInput {
	v := func(field string) string { return *sf.values[field] }
	return studentInput{
		Roll: v("Roll"), Name: v("Name"), Course: v("Course"), Semester: v("Semester"),
		DOB: v("DOB"), Gender: v("Gender"), Phone: v("Phone"), Email: v("Email"),
		ParentPhone: v("ParentPhone"), Address: v("Address"), Blood: v("Blood"),
	}
}

// patch returns a patch holding only the flags that were given, and the
// names of the fields it touches.
func (sf *studentFlags) patch(fs *flag.FlagSet) (service.StudentPatch, []string) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var (
		p      service.StudentPatch
		fields []string
	)
	targets := map[string]**string{
		"Roll": &p.Roll, "Name": &p.Name, "Course": &p.Course, "Semester": &p.Semester,
		"DOB": &p.DOB, "Gender": &p.Gender, "Phone": &p.Phone, "Email": &p.Email,
		"ParentPhone": &p.ParentPhone, "Address": &p.Address, "Blood": &p.Blood,
	}
	for _, f := range studentFlagFields {
		if set[f.flag] {
			*targets[f.field] = sf.values[f.field]
			fields = append(fields, f.field)
		}
	}
	return p, fields
}

func (cli *commandLine) studentAdd(ctx context.Context, args []string) error {
	fs := cli.flagSet("student-add")
	sf := addStudentFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}

	in := sf.input()
	if err := cli.check(in); err != nil {
		return err
	}
	st, err := cli.students.Add(ctx, in.student())
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Added student %s (%s)\n", st.Roll, st.ID)
	return nil
}

func (cli *commandLine) studentUpdate(ctx context.Context, args []string) error {
	fs := cli.flagSet("student-update")
	id := fs.String("id", "", "Student id")
	replace := fs.Bool("replace", false, "Replace every field; unset flags become empty")
	sf := addStudentFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id == "" {
		fs.Usage()
		return errHelp
	}

	var (
		st  models.Student
		err error
	)
	if *replace {
		in := sf.input()
		if err := cli.check(in); err != nil {
			return err
		}
		st, err = cli.students.Update(ctx, *id, in.student())
	} else {
		p, fields := sf.patch(fs)
		if len(fields) == 0 {
			fs.Usage()
			return errHelp
		}
		if err := cli.check(sf.input(), fields...); err != nil {
			return err
		}
		st, err = cli.students.Patch(ctx, *id, p)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Updated student %s (%s)\n", st.Roll, st.ID)
	return nil
}

func (cli *commandLine) studentRemove(ctx context.Context, args []string) error {
	fs := cli.flagSet("student-remove")
	id := fs.String("id", "", "Student id")
	roll := fs.String("roll", "", "Roll number, used when -id is not given")
	if err := parse(fs, args); err != nil {
		return err
	}

	switch {
	case *id != "":
	case *roll != "":
		st, err := cli.students.GetByRoll(*roll)
		if err != nil {
			return err
		}
		*id = st.ID
	default:
		fs.Usage()
		return errHelp
	}

	if err := cli.students.Remove(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Removed student %s\n", *id)
	return nil
}

func (cli *commandLine) studentClear(ctx context.Context, args []string) error {
	fs := cli.flagSet("student-clear")
	yes := fs.Bool("yes", false, "Confirm removal of every student")
	if err := parse(fs, args); err != nil {
		return err
	}
	if !*yes {
		return errNotConfirmed
	}

	n := cli.students.Count()
	if err := cli.students.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Removed %d students\n", n)
	return nil
}

func (cli *commandLine) studentList(_ context.Context, args []string) error {
	fs := cli.flagSet("student-list")
	search := fs.String("search", "", "Match name or roll")
	course := fs.String("course", "", "Course filter")
	semester := fs.String("semester", "", "Semester filter")
	asJSON := fs.Bool("json", false, "Print JSON")
	if err := parse(fs, args); err != nil {
		return err
	}

	students := cli.students.List(service.StudentFilter{Search: *search, Course: *course, Semester: *semester})
	if *asJSON {
		out := []models.Student{}
		for st := range students {
			out = append(out, st)
		}
		enc := json.NewEncoder(cli.out)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	w := cli.table()
	fmt.Fprintln(w, "ROLL\tNAME\tCOURSE\tSEMESTER\tPHONE\tID")
	for st := range students {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", st.Roll, st.Name, st.Course, st.Semester, st.Phone, st.ID)
	}
	return w.Flush()
}

func (cli *commandLine) studentImport(ctx context.Context, args []string) error {
	fs := cli.flagSet("student-import")
	path := fs.String("file", "", "xlsx workbook with a header row")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *path == "" {
		fs.Usage()
		return errHelp
	}

	f, err := os.Open(*path)
	if err != nil {
		return err
	}
	defer f.Close()

	students, err := spreadsheet.ReadStudents(f)
	if err != nil {
		return err
	}

	var errs []error
	imported := 0
	for _, st := range students {
		if err := cli.check(fromStudent(st)); err != nil {
			errs = append(errs, fmt.Errorf("roll %s: %w", st.Roll, err))
			continue
		}
		if _, err := cli.students.Add(ctx, st); err != nil {
			errs = append(errs, fmt.Errorf("roll %s: %w", st.Roll, err))
			continue
		}
		imported++
	}
	fmt.Fprintf(cli.out, "Imported %d of %d students\n", imported, len(students))
	return errors.Join(errs...)
}
