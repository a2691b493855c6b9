package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// ValidHeader is the dataset header line.
const ValidHeader = "Student Name,Score,Feedback,Rubric"

// WriteFile writes content to root/rel, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return path
}

// WriteDataset writes a dataset file with a valid header followed by lines.
func WriteDataset(t *testing.T, root, grade, subject, assignment string, lines ...string) string {
	t.Helper()
	content := ValidHeader + "\n" + strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	return WriteFile(t, root, fmt.Sprintf("%s/%s/%s.csv", grade, subject, assignment), content)
}

// CreateDemoData lays out a small dataset tree under a temp dir and returns its root:
//
//	10/English/Essay 1.csv, 10/Math/Quiz 1.csv, 10/Math/Quiz 2.csv, 9/Science/Lab.csv
//
// plus noise the catalog must ignore: hidden dirs, empty subjects, non-csv files.
func CreateDemoData(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	WriteDataset(t, root, "10", "Math", "Quiz 2", "Ann,88,Good,R1", "Bo,Not submitted,,")
	WriteDataset(t, root, "10", "Math", "Quiz 1", "Ann,91,Great,R1", "Bo,77,Ok,R2", "Cy,Not submitted,,")
	WriteDataset(t, root, "10", "English", "Essay 1", "Ann,85,Nice,R1")
	WriteDataset(t, root, "9", "Science", "Lab", "Dee,Not submitted,,")
	WriteFile(t, root, "9/Science/notes.txt", "not a dataset")
	WriteFile(t, root, "9/Empty/readme.md", "no datasets here")
	WriteDataset(t, root, ".hidden", "Math", "Quiz", "X,1,,")
	WriteDataset(t, root, "11", ".drafts", "Quiz", "X,1,,")
	WriteFile(t, root, "root.csv", ValidHeader+"\n")
	return root
}

type LogEntry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// Logger records every entry; it satisfies core.Logger.
type Logger struct {
	mu      sync.Mutex
	Entries []LogEntry
}

func (l *Logger) add(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, Msg: msg, Args: args})
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.add("debug", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.add("info", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.add("warn", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.add("error", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.add("fatal", msg, args) }

// Count returns the number of entries logged at level.
func (l *Logger) Count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int
	for _, e := range l.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}
