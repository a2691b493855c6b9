package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/trezcool/gradespark/core/catalog"
	"github.com/trezcool/gradespark/core/grading"
	"github.com/trezcool/gradespark/core/settings"
)

var errNoData = errors.New("no demo data found")

func (cli *commandLine) listGrades() error {
	if !cli.catalog.DataExists() {
		return errors.Wrap(errNoData, cli.catalog.Root())
	}
	for _, g := range cli.catalog.Grades() {
		fmt.Fprintln(cli.out, g)
	}
	return nil
}

func (cli *commandLine) listSubjects(grade string) error {
	subjects := cli.catalog.Subjects(grade)
	if len(subjects) == 0 {
		return unknown("grade", grade, cli.catalog.Grades())
	}
	for _, s := range subjects {
		fmt.Fprintln(cli.out, s)
	}
	return nil
}

func (cli *commandLine) listAssignments(grade, subject string) error {
	known := cli.catalog.Subjects(grade)
	if len(known) == 0 {
		return unknown("grade", grade, cli.catalog.Grades())
	}
	assignments := cli.catalog.Assignments(grade, subject)
	if len(assignments) == 0 {
		return unknown("subject", subject, known)
	}
	for _, a := range assignments {
		fmt.Fprintln(cli.out, a)
	}
	return nil
}

func (cli *commandLine) summary(grade, subject, assignment string) error {
	sum, err := cli.catalog.Summarize(grade, subject, assignment)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%d/%d submitted, %d missing\n", sum.Submitted, sum.Total, sum.Missing)
	return nil
}

// grade runs the simulator over a dataset, prints the results and optionally exports them to out.
func (cli *commandLine) grade(grade, subject, assignment, out string) error {
	ds, err := cli.catalog.Load(grade, subject, assignment)
	if err != nil {
		return err
	}

	last := -1
	rows, err := cli.simulator.Run(context.Background(), ds.Rows, subject, grade, func(pct int, msg string) {
		if pct/25 != last/25 || pct == 100 {
			fmt.Fprintf(cli.out, "[%3d%%] %s\n", pct, msg)
		}
		last = pct
	})
	if err != nil {
		return err
	}

	showRubric := true
	if cli.store != nil {
		showRubric = cli.store.Settings().ShowRubric
		cli.store.Update(func(doc *settings.Settings) {
			doc.LastSelection = settings.Selection{Grade: grade, Subject: subject, Assignment: assignment}
		})
		if err = cli.store.Save(); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	header := []string{"STUDENT", "SCORE", "FEEDBACK"}
	if showRubric {
		header = append(header, "RUBRIC")
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		cells := []string{row.Name, row.Score, row.Feedback}
		if showRubric {
			cells = append(cells, row.Rubric)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err = tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(cli.out)
	for _, line := range grading.Summarize(rows).Lines() {
		fmt.Fprintln(cli.out, line)
	}

	if out != "" {
		if !strings.EqualFold(filepath.Ext(out), catalog.Ext) {
			out += catalog.Ext
		}
		if err = catalog.ExportCSV(out, rows); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Exported %d rows to %s\n", len(rows), out)
	}
	return nil
}

func unknown(kind, name string, known []string) error {
	msg := fmt.Sprintf("unknown %s %q", kind, name)
	if s, ok := catalog.Suggest(known, name); ok {
		msg += fmt.Sprintf(", did you mean %q?", s)
	}
	return errors.New(msg)
}
