package grading

import (
	"strconv"
	"strings"

	"github.com/trezcool/gradespark/core/catalog"
)

// MissingPreviewLen is the number of missing students named in a report preview.
const MissingPreviewLen = 5

type Bucket string

const (
	BucketMissing          Bucket = "missing"
	BucketFailing          Bucket = "failing"
	BucketNeedsImprovement Bucket = "needs_improvement"
	BucketUnderstanding    Bucket = "understanding"
	BucketProficient       Bucket = "proficient"
	BucketUngraded         Bucket = "ungraded" // submitted, no numeric score yet
)

// Buckets lists every bucket, lowest first.
var Buckets = []Bucket{
	BucketMissing,
	BucketFailing,
	BucketNeedsImprovement,
	BucketUnderstanding,
	BucketProficient,
	BucketUngraded,
}

// Classify places a score in its bucket: <=65 failing, <=75 needs improvement,
// <=89 understanding, anything higher proficient.
func Classify(score string) Bucket {
	if score == catalog.NotSubmitted {
		return BucketMissing
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(score), 64)
	if err != nil {
		return BucketUngraded
	}
	switch {
	case n <= 65:
		return BucketFailing
	case n <= 75:
		return BucketNeedsImprovement
	case n <= 89:
		return BucketUnderstanding
	default:
		return BucketProficient
	}
}

// Report summarizes a graded result set.
type Report struct {
	Submitted    int            `json:"submitted"`
	Missing      int            `json:"missing"`
	MissingNames []string       `json:"missing_names"`
	Buckets      map[Bucket]int `json:"buckets"`
}

func Summarize(rows []catalog.Row) Report {
	rep := Report{
		MissingNames: []string{},
		Buckets:      make(map[Bucket]int, len(Buckets)),
	}
	for _, row := range rows {
		if row.Submitted() {
			rep.Submitted++
		} else {
			rep.Missing++
			rep.MissingNames = append(rep.MissingNames, row.Name)
		}
		rep.Buckets[Classify(row.Score)]++
	}
	return rep
}

// MissingPreview lists the first missing students, followed by "..." when there are more.
func (r Report) MissingPreview() string {
	if len(r.MissingNames) <= MissingPreviewLen {
		return strings.Join(r.MissingNames, ", ")
	}
	return strings.Join(r.MissingNames[:MissingPreviewLen], ", ") + ", ..."
}

// Lines renders the report as the completion summary shown after a run.
func (r Report) Lines() []string {
	lines := []string{
		"Assignments graded: " + strconv.Itoa(r.Submitted),
		"Awaiting submission: " + strconv.Itoa(r.Missing),
	}
	if len(r.MissingNames) > 0 {
		lines = append(lines, "Missing students: "+r.MissingPreview())
	}
	return lines
}
