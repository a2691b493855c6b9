// Package catalog discovers demo datasets laid out as <root>/<grade>/<subject>/<assignment>.csv
// and loads them.
package catalog

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/trezcool/gradespark/core"
)

// Ext is the dataset file extension.
const Ext = ".csv"

type (
	// subjects maps subject -> sorted assignment ids
	subjects map[string][]string

	// Catalog is an immutable snapshot of the dataset tree, built once by New.
	Catalog struct {
		root      string
		rootFound bool
		tree      map[string]subjects
		logger    core.Logger
	}
)

// New scans root. A missing root yields an empty Catalog.
func New(root string, logger core.Logger) *Catalog {
	if logger == nil {
		logger = core.NopLogger{}
	}
	c := &Catalog{
		root:   root,
		tree:   make(map[string]subjects),
		logger: logger,
	}
	c.build()
	return c
}

func (c *Catalog) Root() string { return c.root }

// Grades returns all grades, sorted.
func (c *Catalog) Grades() []string {
	grades := make([]string, 0, len(c.tree))
	for grade := range c.tree {
		grades = append(grades, grade)
	}
	sort.Strings(grades)
	return grades
}

// Subjects returns the subjects of grade, sorted. Unknown grades yield an empty slice.
func (c *Catalog) Subjects(grade string) []string {
	subs, ok := c.tree[grade]
	if !ok {
		return []string{}
	}
	return subs.names()
}

// Assignments returns the assignments of grade/subject, sorted. Unknown paths yield an empty slice.
func (c *Catalog) Assignments(grade, subject string) []string {
	assignments, ok := c.tree[grade][subject]
	if !ok {
		return []string{}
	}
	out := make([]string, len(assignments))
	copy(out, assignments)
	return out
}

// DataExists reports whether the root exists and holds at least one dataset.
func (c *Catalog) DataExists() bool {
	return c.rootFound && len(c.tree) > 0
}

// ResolvePath composes root/grade/subject/assignment.csv without checking that it exists.
// It fails if any part is empty.
func (c *Catalog) ResolvePath(grade, subject, assignment string) (string, bool) {
	if grade == "" || subject == "" || assignment == "" {
		return "", false
	}
	return filepath.Join(c.root, grade, subject, assignment+Ext), true
}

// DatasetFile is ResolvePath restricted to files that exist.
func (c *Catalog) DatasetFile(grade, subject, assignment string) (string, bool) {
	path, ok := c.ResolvePath(grade, subject, assignment)
	if ok {
		if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
			return path, true
		}
	}
	c.logger.Warn("demo dataset missing", map[string]interface{}{
		"grade": grade, "subject": subject, "assignment": assignment,
	})
	return "", false
}

func (c *Catalog) build() {
	fi, err := os.Stat(c.root)
	if err != nil || !fi.IsDir() {
		c.logger.Warn("demo data directory not found", map[string]interface{}{"path": c.root})
		return
	}
	c.rootFound = true

	for _, gradeDir := range c.subdirs(c.root) {
		subs := make(subjects)
		for _, subjectDir := range c.subdirs(filepath.Join(c.root, gradeDir)) {
			assignments := c.assignments(filepath.Join(c.root, gradeDir, subjectDir))
			if len(assignments) > 0 {
				subs[subjectDir] = assignments
			}
		}
		if len(subs) > 0 {
			c.tree[gradeDir] = subs
		}
	}
}

// subdirs lists the non-hidden immediate subdirectories of dir, sorted by name.
func (c *Catalog) subdirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		c.logger.Error("reading directory", err, map[string]interface{}{"path": dir})
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if core.IsHidden(e.Name()) || !isDir(dir, e) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// assignments lists the base names of the dataset files in dir, sorted.
func (c *Catalog) assignments(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		c.logger.Error("reading directory", err, map[string]interface{}{"path": dir})
		return nil
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, Ext) || !isRegular(dir, e) {
			continue
		}
		if id := strings.TrimSuffix(name, Ext); id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// isDir follows symlinks.
func isDir(parent string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir()
	}
	fi, err := os.Stat(filepath.Join(parent, e.Name()))
	return err == nil && fi.IsDir()
}

// isRegular follows symlinks.
func isRegular(parent string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.Type().IsRegular()
	}
	fi, err := os.Stat(filepath.Join(parent, e.Name()))
	return err == nil && fi.Mode().IsRegular()
}

func (s subjects) names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
