package grading

import (
	"context"
	"math/rand"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/trezcool/gradespark/core/catalog"
)

func TestSimulator_Run(t *testing.T) {
	rows := []catalog.Row{
		{Name: "Ann", Score: "12", Feedback: "old", Rubric: "old"},
		{Name: "Bo", Score: catalog.NotSubmitted},
		{Name: "Cy", Score: "Not submitted (late)"},
		{Name: "Dee", Score: ""},
	}
	sim := NewSimulator(rand.NewSource(42))

	var (
		pcts []int
		msgs []string
	)
	got, err := sim.Run(context.Background(), rows, "Math", "10", func(pct int, msg string) {
		pcts = append(pcts, pct)
		msgs = append(msgs, msg)
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("Run() returned %d rows; want %d", len(got), len(rows))
	}

	for i, row := range got {
		if row.Name != rows[i].Name {
			t.Errorf("row %d name = %q; want %q", i, row.Name, rows[i].Name)
		}
		if strings.Contains(rows[i].Score, catalog.NotSubmitted) {
			if row != (catalog.Row{Name: rows[i].Name, Score: catalog.NotSubmitted}) {
				t.Errorf("missing row %d = %+v; want pass-through", i, row)
			}
			continue
		}
		score, err := strconv.Atoi(row.Score)
		if err != nil || score < MinScore || score > MaxScore {
			t.Errorf("row %d score = %q; want integer in [%d, %d]", i, row.Score, MinScore, MaxScore)
		}
		if row.Feedback != Feedback(score, "Math", "10") || row.Rubric != Rubric(score) {
			t.Errorf("row %d feedback/rubric do not match score %d: %+v", i, score, row)
		}
	}

	if rows[0].Score != "12" {
		t.Error("Run() modified its input")
	}
	if want := []int{25, 50, 75, 100}; !reflect.DeepEqual(pcts, want) {
		t.Errorf("progress pcts = %v; want %v", pcts, want)
	}
	if msgs[1] != "Grading Bo..." {
		t.Errorf("progress msg = %q", msgs[1])
	}
}

func TestSimulator_RunScoreRange(t *testing.T) {
	rows := make([]catalog.Row, 500)
	for i := range rows {
		rows[i] = catalog.Row{Name: "S", Score: "0"}
	}
	got, err := NewSimulator(rand.NewSource(1)).Run(context.Background(), rows, "Math", "9", nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	seen := make(map[int]bool)
	for _, row := range got {
		n, _ := strconv.Atoi(row.Score)
		if n < MinScore || n > MaxScore {
			t.Fatalf("score %d out of range", n)
		}
		seen[n] = true
	}
	if !seen[MinScore] || !seen[MaxScore] {
		t.Errorf("range bounds never drawn in %d rows: %v", len(rows), seen)
	}
}

func TestSimulator_RunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rows := []catalog.Row{{Name: "Ann", Score: "1"}, {Name: "Bo", Score: "2"}}

	var calls int
	got, err := NewSimulator(nil).Run(ctx, rows, "Math", "10", func(int, string) {
		calls++
		cancel()
	})
	if err != context.Canceled {
		t.Errorf("Run() error = %v; want %v", err, context.Canceled)
	}
	if got != nil || calls != 1 {
		t.Errorf("Run() kept going after cancel: rows=%v calls=%d", got, calls)
	}
}

func TestSimulator_RunEmpty(t *testing.T) {
	got, err := NewSimulator(nil).Run(context.Background(), nil, "Math", "10", func(int, string) {
		t.Error("progress called for empty input")
	})
	if err != nil || len(got) != 0 {
		t.Errorf("Run() = %v, %v; want empty", got, err)
	}
}

func TestFeedback(t *testing.T) {
	tests := []struct {
		score      int
		wantPrefix string
		wantRubric string
	}{
		{score: 95, wantPrefix: "Excellent work! Strong understanding of Math concepts at grade 10 level.", wantRubric: "Content: Excellent | Analysis: Excellent | Presentation: Good"},
		{score: 90, wantPrefix: "Excellent work!", wantRubric: "Content: Excellent | Analysis: Excellent | Presentation: Good"},
		{score: 89, wantPrefix: "Good effort! Solid grasp of key Math concepts", wantRubric: "Content: Good | Analysis: Good | Presentation: Satisfactory"},
		{score: 80, wantPrefix: "Good effort!", wantRubric: "Content: Good | Analysis: Good | Presentation: Satisfactory"},
		{score: 79, wantPrefix: "Satisfactory work. Review core Math concepts", wantRubric: "Content: Satisfactory | Analysis: Needs Work | Presentation: Satisfactory"},
		{score: 70, wantPrefix: "Satisfactory work.", wantRubric: "Content: Satisfactory | Analysis: Needs Work | Presentation: Satisfactory"},
		{score: 69, wantPrefix: "Needs improvement. Schedule extra help to strengthen Math fundamentals.", wantRubric: "Content: Needs Work | Analysis: Needs Work | Presentation: Needs Work"},
	}
	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.score), func(t *testing.T) {
			if got := Feedback(tt.score, "Math", "10"); !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("Feedback(%d) = %q; want prefix %q", tt.score, got, tt.wantPrefix)
			}
			if got := Rubric(tt.score); got != tt.wantRubric {
				t.Errorf("Rubric(%d) = %q; want %q", tt.score, got, tt.wantRubric)
			}
		})
	}
}
