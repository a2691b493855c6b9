package catalog

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const utf8BOM = "\ufeff"

// NotSubmitted is the sentinel score of a student with no submission.
const NotSubmitted = "Not submitted"

var (
	// Header is the exact, ordered column set of a dataset file.
	Header = []string{"Student Name", "Score", "Feedback", "Rubric"}

	// errors
	ErrIncompleteSelection = errors.New("grade, subject and assignment are all required")
	ErrDatasetNotFound     = errors.New("dataset not found")
	ErrHeaderMismatch      = errors.New("dataset header mismatch")
	ErrMalformedDataset    = errors.New("malformed dataset")
)

type (
	// Row is one student record.
	Row struct {
		Name     string `json:"student_name"`
		Score    string `json:"score"`
		Feedback string `json:"feedback"`
		Rubric   string `json:"rubric"`
	}

	Dataset struct {
		Rows      []Row `json:"rows"`
		Submitted int   `json:"submitted"`
		Total     int   `json:"total"`
		Missing   int   `json:"missing"`
	}

	Summary struct {
		Submitted int `json:"submitted"`
		Total     int `json:"total"`
		Missing   int `json:"missing"`
	}
)

// Submitted reports whether the row holds a submission, i.e. its score is not the NotSubmitted sentinel.
func (r Row) Submitted() bool {
	return r.Score != NotSubmitted
}

func (r Row) record() []string {
	return []string{r.Name, r.Score, r.Feedback, r.Rubric}
}

func (d *Dataset) Summary() Summary {
	return Summary{Submitted: d.Submitted, Total: d.Total, Missing: d.Missing}
}

// NewDataset counts submissions over rows.
func NewDataset(rows []Row) *Dataset {
	ds := &Dataset{Rows: rows, Total: len(rows)}
	for _, r := range rows {
		if r.Submitted() {
			ds.Submitted++
		}
	}
	ds.Missing = ds.Total - ds.Submitted
	return ds
}

// Load reads and validates the dataset of grade/subject/assignment.
// Nothing is returned unless the whole file is well-formed.
func (c *Catalog) Load(grade, subject, assignment string) (*Dataset, error) {
	path, ok := c.ResolvePath(grade, subject, assignment)
	if !ok {
		return nil, ErrIncompleteSelection
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			c.logger.Error("demo CSV not found", map[string]interface{}{"path": path})
			return nil, errors.Wrap(ErrDatasetNotFound, path)
		}
		c.logger.Error("opening demo CSV", err, map[string]interface{}{"path": path})
		return nil, errors.Wrap(err, "opening dataset")
	}
	defer func() { _ = f.Close() }()

	ds, err := ReadDataset(f)
	if err != nil {
		c.logger.Error("loading demo CSV", err, map[string]interface{}{"path": path, "expected_header": Header})
		return nil, errors.WithMessage(err, path)
	}
	return ds, nil
}

// Summarize is Load without the rows.
func (c *Catalog) Summarize(grade, subject, assignment string) (Summary, error) {
	ds, err := c.Load(grade, subject, assignment)
	if err != nil {
		return Summary{}, err
	}
	return ds.Summary(), nil
}

// ReadDataset parses a dataset from r.
func ReadDataset(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.Wrap(ErrMalformedDataset, "no header")
		}
		if pErr, ok := err.(*csv.ParseError); ok && pErr.Err == csv.ErrFieldCount {
			return nil, errors.Wrapf(ErrHeaderMismatch, "got %d columns, want %q", len(header), Header)
		}
		return nil, errors.Wrap(ErrMalformedDataset, err.Error())
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	if !headerMatches(header) {
		return nil, errors.Wrapf(ErrHeaderMismatch, "got %q, want %q", header, Header)
	}

	rows := make([]Row, 0)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(ErrMalformedDataset, err.Error())
		}
		rows = append(rows, Row{Name: rec[0], Score: rec[1], Feedback: rec[2], Rubric: rec[3]})
	}
	return NewDataset(rows), nil
}

func headerMatches(header []string) bool {
	if len(header) != len(Header) {
		return false
	}
	for i, col := range Header {
		if header[i] != col {
			return false
		}
	}
	return true
}
