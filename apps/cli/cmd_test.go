package main

import (
	"bytes"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/trezcool/gradespark/core"
	"github.com/trezcool/gradespark/core/catalog"
	"github.com/trezcool/gradespark/core/grading"
	"github.com/trezcool/gradespark/core/lead"
	"github.com/trezcool/gradespark/core/settings"
	inmemdb "github.com/trezcool/gradespark/storage/inmem"
	"github.com/trezcool/gradespark/tests"
)

var leadRepo lead.Repository

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	dir := t.TempDir()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed, %v", err)
	}
	leadRepo = inmemdb.NewLeadRepository(db)

	out := new(bytes.Buffer)
	return &commandLine{
		out:     out,
		catalog: catalog.New(testutil.CreateDemoData(t), nil),
		store: settings.NewStore(
			filepath.Join(dir, "settings.json"),
			settings.WithEnvFile(filepath.Join(dir, ".env")),
		),
		simulator: grading.NewSimulator(rand.NewSource(1)),
		leadSvc:   lead.NewService(nil, leadRepo, nil),
	}, out
}

// reopen reads back the settings saved at path.
func reopen(t *testing.T, path string) *settings.Store {
	return settings.NewStore(path, settings.WithEnvFile(filepath.Join(t.TempDir(), ".env")))
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    []string // substrings of the output
	extra      interface{}
}

func (tt cliTest) check(t *testing.T, err error, out string) {
	t.Helper()
	switch {
	case err == nil:
		if tt.wantErr != nil || tt.wantErrStr != "" {
			t.Fatalf("cli.run() error = nil, want an error")
		}
	case tt.wantErr != nil:
		if !errors.Is(err, tt.wantErr) {
			t.Fatalf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
		}
	case tt.wantErrStr != "":
		if err.Error() != tt.wantErrStr {
			t.Fatalf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
		}
	default:
		t.Fatalf("cli.run() unexpected error = %v", err)
	}
	for _, want := range tt.wantOut {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func Test_commandLine_catalog(t *testing.T) {
	cli, out := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "help flag", args: []string{"subjects", "-h"}, wantErr: errHelp},
		{name: "grades", args: []string{"grades"}, wantOut: []string{"10\n9\n"}},
		{name: "subjects: no grade", args: []string{"subjects"}, wantErr: errHelp},
		{name: "subjects", args: []string{"subjects", "-grade", "10"}, wantOut: []string{"English\nMath\n"}},
		{
			name:       "subjects: unknown grade",
			args:       []string{"subjects", "-grade", "100"},
			wantErrStr: `unknown grade "100", did you mean "10"?`,
		},
		{name: "assignments: no subject", args: []string{"assignments", "-grade", "10"}, wantErr: errHelp},
		{name: "assignments", args: []string{"assignments", "-grade", "10", "-subject", "Math"}, wantOut: []string{"Quiz 1\nQuiz 2\n"}},
		{
			name:       "assignments: unknown subject",
			args:       []string{"assignments", "-grade", "10", "-subject", "Mth"},
			wantErrStr: `unknown subject "Mth", did you mean "Math"?`,
		},
		{name: "summary: incomplete", args: []string{"summary", "-grade", "10", "-subject", "Math"}, wantErr: errHelp},
		{
			name:    "summary",
			args:    []string{"summary", "-grade", "10", "-subject", "Math", "-assignment", "Quiz 1"},
			wantOut: []string{"2/3 submitted, 1 missing"},
		},
		{
			name:    "summary: missing dataset",
			args:    []string{"summary", "-grade", "10", "-subject", "Math", "-assignment", "Quiz 9"},
			wantErr: catalog.ErrDatasetNotFound,
		},
	}
	for _, tt := range tests {
		args := append([]string{"gradespark"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			tt.check(t, cli.run(args), out.String())
		})
	}
}

func Test_commandLine_gradesNoData(t *testing.T) {
	cli, _ := setup(t)
	cli.catalog = catalog.New(filepath.Join(t.TempDir(), "missing"), nil)

	if err := cli.run([]string{"gradespark", "grades"}); !errors.Is(err, errNoData) {
		t.Errorf("cli.run() error = %v, wantErr %v", err, errNoData)
	}
}

func Test_commandLine_grade(t *testing.T) {
	cli, out := setup(t)
	exportPath := filepath.Join(t.TempDir(), "results")

	tt := cliTest{
		args: []string{"grade", "-grade", "10", "-subject", "Math", "-assignment", "Quiz 1", "-out", exportPath},
		wantOut: []string{
			"[100%] Grading Cy...",
			"STUDENT",
			"RUBRIC",
			"Cy",
			"Assignments graded: 2",
			"Awaiting submission: 1",
			"Missing students: Cy",
			"Exported 3 rows to " + exportPath + ".csv",
		},
	}
	tt.check(t, cli.run(append([]string{"gradespark"}, tt.args...)), out.String())

	data, err := os.ReadFile(exportPath + ".csv")
	if err != nil {
		t.Fatalf("ReadFile() failed, %v", err)
	}
	if !strings.HasPrefix(string(data), testutil.ValidHeader+"\n") {
		t.Errorf("export header = %q", strings.SplitN(string(data), "\n", 2)[0])
	}

	want := settings.Selection{Grade: "10", Subject: "Math", Assignment: "Quiz 1"}
	if got := reopen(t, cli.store.Path()).Settings().LastSelection; got != want {
		t.Errorf("saved LastSelection = %+v, want %+v", got, want)
	}
}

func Test_commandLine_gradeHidesRubric(t *testing.T) {
	cli, out := setup(t)
	if err := cli.store.Set(settings.KeyShowRubric, false); err != nil {
		t.Fatalf("Set() failed, %v", err)
	}

	if err := cli.run([]string{"gradespark", "grade", "-grade", "10", "-subject", "English", "-assignment", "Essay 1"}); err != nil {
		t.Fatalf("cli.run() unexpected error = %v", err)
	}
	if strings.Contains(out.String(), "RUBRIC") {
		t.Errorf("output %q shows the rubric column", out.String())
	}
}

func Test_commandLine_settings(t *testing.T) {
	cli, out := setup(t)

	type extra struct {
		key string
	}
	tests := []cliTest{
		{name: "empty key", args: []string{"setkey"}, wantErr: errHelp},
		{name: "blank key", args: []string{"setkey"}, extra: extra{key: "   "}, wantErrStr: "empty API key"},
		{name: "set key", args: []string{"setkey"}, extra: extra{key: "sk-secret-1234"}, wantOut: []string{"API key ****1234 saved"}},
		{name: "print", args: []string{"settings"}, wantOut: []string{`"api_key": "****1234"`, `"show_rubric": true`}},
	}
	for _, tt := range tests {
		args := append([]string{"gradespark"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.key), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			tt.check(t, cli.run(args), out.String())
		})
	}

	if got := reopen(t, cli.store.Path()).Settings().APIKey; got != "sk-secret-1234" {
		t.Errorf("saved APIKey = %q, want %q", got, "sk-secret-1234")
	}
}

func Test_commandLine_lead(t *testing.T) {
	cli, out := setup(t)

	tests := []cliTest{
		{name: "empty backlog", args: []string{"leads"}, wantOut: []string{"No leads kept locally."}},
		{name: "invalid", args: []string{"lead", "-name", "Ann", "-email", "nope"}, wantErr: lead.ErrInvalidLead},
		{
			name:    "submit",
			args:    []string{"lead", "-name", "Ann", "-email", "ann@school.edu", "-school", "Central High"},
			wantOut: []string{`Thanks Ann, your request for "Full Version Features" was received.`},
		},
		{name: "backlog", args: []string{"leads"}, wantOut: []string{"ann@school.edu", "Central High"}},
	}
	for _, tt := range tests {
		args := append([]string{"gradespark"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			tt.check(t, cli.run(args), out.String())
		})
	}

	leads, err := leadRepo.All()
	if err != nil {
		t.Fatalf("All() failed, %v", err)
	}
	if len(leads) != 1 {
		t.Errorf("len(leads) = %d, want 1", len(leads))
	}
}

func Test_describe(t *testing.T) {
	err := core.NewValidationError(lead.ErrInvalidLead,
		core.FieldError{Field: "email", Error: "email must be a valid email address"},
		core.FieldError{Field: "school", Error: "this field is required"},
	)
	want := "invalid lead\n  email: email must be a valid email address\n  school: this field is required"
	if got := describe(err); got != want {
		t.Errorf("describe() = %q, want %q", got, want)
	}
	if got := describe(errHelp); got != errHelp.Error() {
		t.Errorf("describe() = %q, want %q", got, errHelp.Error())
	}
}
