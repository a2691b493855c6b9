// Package grading simulates grading of a loaded dataset and summarizes the outcome.
package grading

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/trezcool/gradespark/core/catalog"
)

// simulated score range, inclusive
const (
	MinScore = 70
	MaxScore = 95
)

// ProgressFunc receives the completion percentage and a status message after each row.
type ProgressFunc func(pct int, msg string)

// Simulator produces canned scores, feedback and rubric strings. It is safe for concurrent use.
type Simulator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSimulator returns a Simulator drawing from src, or from a time-seeded source when src is nil.
func NewSimulator(src rand.Source) *Simulator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Simulator{rnd: rand.New(src)}
}

func (s *Simulator) score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MinScore + s.rnd.Intn(MaxScore-MinScore+1)
}

// Run grades rows in order and returns new rows; the input is not modified.
// Rows that were not submitted pass through with empty feedback and rubric.
func (s *Simulator) Run(ctx context.Context, rows []catalog.Row, subject, grade string, progress ProgressFunc) ([]catalog.Row, error) {
	results := make([]catalog.Row, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res := catalog.Row{Name: row.Name}
		if strings.Contains(row.Score, catalog.NotSubmitted) {
			res.Score = catalog.NotSubmitted
		} else {
			score := s.score()
			res.Score = fmt.Sprint(score)
			res.Feedback = Feedback(score, subject, grade)
			res.Rubric = Rubric(score)
		}
		results = append(results, res)

		if progress != nil {
			progress((i+1)*100/len(rows), fmt.Sprintf("Grading %s...", row.Name))
		}
	}
	return results, nil
}

// Feedback returns the canned feedback for score.
func Feedback(score int, subject, grade string) string {
	switch {
	case score >= 90:
		return fmt.Sprintf("Excellent work! Strong understanding of %s concepts at grade %s level.", subject, grade)
	case score >= 80:
		return fmt.Sprintf("Good effort! Solid grasp of key %s concepts with room for deeper analysis.", subject)
	case score >= 70:
		return fmt.Sprintf("Satisfactory work. Review core %s concepts and practice application.", subject)
	default:
		return fmt.Sprintf("Needs improvement. Schedule extra help to strengthen %s fundamentals.", subject)
	}
}

// Rubric returns the canned rubric breakdown for score.
func Rubric(score int) string {
	switch {
	case score >= 90:
		return "Content: Excellent | Analysis: Excellent | Presentation: Good"
	case score >= 80:
		return "Content: Good | Analysis: Good | Presentation: Satisfactory"
	case score >= 70:
		return "Content: Satisfactory | Analysis: Needs Work | Presentation: Satisfactory"
	default:
		return "Content: Needs Work | Analysis: Needs Work | Presentation: Needs Work"
	}
}
