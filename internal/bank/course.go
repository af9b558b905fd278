package bank

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/blankcheck/internal/grading"
)

// CourseFileSuffix marks course package files inside a courses directory.
const CourseFileSuffix = ".course.json"

// maxWalkDepth bounds how deep LoadDir descends below its root.
const maxWalkDepth = 8

// stemPreviewLen is the rune length StemPreview truncates to.
const stemPreviewLen = 80

// Status is the publication state of a course.
type Status string

const (
	StatusPublished Status = "PUBLISHED"
	StatusDraft     Status = "DRAFT"
)

// Course is one course package: a keyed set of questions.
type Course struct {
	Key       string     `json:"courseKey"`
	Title     string     `json:"title,omitempty"`
	Status    Status     `json:"status,omitempty"`
	Questions []Question `json:"questions"`

	// Path is the file the course was loaded from, if any.
	Path string `json:"-"`
}

// Question is a stored quiz question.
type Question struct {
	// ID is the database id; zero for questions loaded from files.
	ID        int64                `json:"-"`
	CourseKey string               `json:"-"`
	ContentID string               `json:"contentId"`
	Type      grading.QuestionType `json:"type"`
	Stem      string               `json:"stem"`
	Answer    string               `json:"answer"`
	Options   []string             `json:"options,omitempty"`

	// Location is the source file for questions loaded from disk.
	Location string `json:"-"`
}

// ParseCourse validates and decodes a course package. path is only used in
// error messages and as the question Location.
func ParseCourse(raw []byte, path string) (*Course, error) {
	if err := validateCourse(raw); err != nil {
		return nil, &ValidationError{Path: path, Err: err}
	}

	var c Course
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, &ValidationError{Path: path, Err: err}
	}
	if c.Status == "" {
		c.Status = StatusPublished
	}
	c.Path = path
	for i := range c.Questions {
		c.Questions[i].CourseKey = c.Key
		c.Questions[i].Location = path
	}
	return &c, nil
}

// LoadFile reads and parses a course package file.
func LoadFile(path string) (*Course, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read course package: %w", err)
	}
	return ParseCourse(raw, path)
}

// LoadDir loads every course package under root, in path order. Files that
// fail to load are reported in errs and do not stop the walk.
func LoadDir(root string) (courses []*Course, errs []error) {
	paths, err := findCourseFiles(root)
	if err != nil {
		return nil, []error{err}
	}
	for _, p := range paths {
		c, err := LoadFile(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		courses = append(courses, c)
	}
	return courses, errs
}

func findCourseFiles(root string) ([]string, error) {
	root = filepath.Clean(root)
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subdirectories are skipped, the root is not.
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if depth(root, path) > maxWalkDepth {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), CourseFileSuffix) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// StemPreview collapses whitespace and truncates a question stem for
// reports.
func StemPreview(stem string) string {
	s := strings.Join(strings.Fields(stem), " ")
	if utf8.RuneCountInString(s) <= stemPreviewLen {
		return s
	}
	return string([]rune(s)[:stemPreviewLen]) + "..."
}

// FillBlank returns the fill-blank questions of qs, in order.
func FillBlank(qs []Question) []Question {
	var out []Question
	for _, q := range qs {
		if q.Type == grading.TypeFillBlank {
			out = append(out, q)
		}
	}
	return out
}
