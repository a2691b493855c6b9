package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/gradespark/core"
	"github.com/trezcool/gradespark/core/catalog"
	"github.com/trezcool/gradespark/core/grading"
	"github.com/trezcool/gradespark/core/lead"
	"github.com/trezcool/gradespark/core/settings"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	out       io.Writer
	catalog   *catalog.Catalog
	store     *settings.Store
	simulator *grading.Simulator
	leadSvc   *lead.Service
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  grades - list the grades with datasets")
	fmt.Fprintln(cli.out, "  subjects -grade GRADE - list a grade's subjects")
	fmt.Fprintln(cli.out, "  assignments -grade GRADE -subject SUBJECT - list a subject's assignments")
	fmt.Fprintln(cli.out, "  summary -grade GRADE -subject SUBJECT -assignment ASSIGNMENT - count submissions")
	fmt.Fprintln(cli.out, "  grade -grade GRADE -subject SUBJECT -assignment ASSIGNMENT [-out FILE.csv] - grade an assignment")
	fmt.Fprintln(cli.out, "  settings - print the settings document")
	fmt.Fprintln(cli.out, "  setkey - store the API key (prompted next)")
	fmt.Fprintln(cli.out, "  lead -name NAME -email EMAIL -school SCHOOL [-role ROLE -size SIZE -timeline TIMELINE] - request early access")
	fmt.Fprintln(cli.out, "  leads - list the requests kept locally")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// parse maps -h to errHelp.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

type selectionFlags struct {
	grade, subject, assignment *string
}

func addSelectionFlags(fs *flag.FlagSet) selectionFlags {
	return selectionFlags{
		grade:      fs.String("grade", "", "The grade level, e.g. 10."),
		subject:    fs.String("subject", "", "The subject, e.g. Math."),
		assignment: fs.String("assignment", "", "The assignment name."),
	}
}

func (f selectionFlags) complete() bool {
	return *f.grade != "" && *f.subject != "" && *f.assignment != ""
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "grades":
		return cli.listGrades()

	case "subjects":
		cmd := cli.newFlagSet("subjects")
		grade := cmd.String("grade", "", "The grade level, e.g. 10.")
		if err := parse(cmd, args[2:]); err != nil {
			return err
		}
		if *grade == "" {
			cmd.Usage()
			return errHelp
		}
		return cli.listSubjects(*grade)

	case "assignments":
		cmd := cli.newFlagSet("assignments")
		grade := cmd.String("grade", "", "The grade level, e.g. 10.")
		subject := cmd.String("subject", "", "The subject, e.g. Math.")
		if err := parse(cmd, args[2:]); err != nil {
			return err
		}
		if *grade == "" || *subject == "" {
			cmd.Usage()
			return errHelp
		}
		return cli.listAssignments(*grade, *subject)

	case "summary":
		cmd := cli.newFlagSet("summary")
		sel := addSelectionFlags(cmd)
		if err := parse(cmd, args[2:]); err != nil {
			return err
		}
		if !sel.complete() {
			cmd.Usage()
			return errHelp
		}
		return cli.summary(*sel.grade, *sel.subject, *sel.assignment)

	case "grade":
		cmd := cli.newFlagSet("grade")
		sel := addSelectionFlags(cmd)
		out := cmd.String("out", "", "Export the graded rows to this CSV file.")
		if err := parse(cmd, args[2:]); err != nil {
			return err
		}
		if !sel.complete() {
			cmd.Usage()
			return errHelp
		}
		return cli.grade(*sel.grade, *sel.subject, *sel.assignment, *out)

	case "settings":
		return cli.printSettings()

	case "setkey":
		fmt.Fprint(cli.out, "Enter API key:")
		key, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(key) == 0 {
			return errHelp
		}
		return cli.setAPIKey(string(key))

	case "lead":
		cmd := cli.newFlagSet("lead")
		var nl lead.NewLead
		cmd.StringVar(&nl.Name, "name", "", "Your name.")
		cmd.StringVar(&nl.Email, "email", "", "Your email address.")
		cmd.StringVar(&nl.School, "school", "", "Your school or district.")
		cmd.StringVar(&nl.Role, "role", "", "Your role.")
		cmd.StringVar(&nl.Size, "size", "", "Your team size.")
		cmd.StringVar(&nl.Timeline, "timeline", "", "When you plan to start.")
		cmd.StringVar(&nl.Feature, "feature", "", "The feature you are interested in.")
		if err := parse(cmd, args[2:]); err != nil {
			return err
		}
		return cli.submitLead(nl)

	case "leads":
		return cli.listLeads()

	default:
		cli.printUsage()
		return errHelp
	}
}

// describe renders err for the terminal, listing field errors one per line.
func describe(err error) string {
	var vErr *core.ValidationError
	if !errors.As(err, &vErr) || len(vErr.Fields) == 0 {
		return err.Error()
	}
	var sb strings.Builder
	sb.WriteString(vErr.Error())
	for _, fe := range vErr.Fields {
		fmt.Fprintf(&sb, "\n  %s: %s", fe.Field, fe.Error)
	}
	return sb.String()
}
