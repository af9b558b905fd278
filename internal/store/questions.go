package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/blankcheck/internal/bank"
	"github.com/abhisek/blankcheck/internal/grading"
)

// Filter narrows a question listing.
type Filter struct {
	CourseKey    string               // only this course (empty = all)
	IncludeDraft bool                 // include DRAFT courses
	Type         grading.QuestionType // only this type (empty = all)
}

// Conversion turns a fill-blank question into a multiple-choice one.
type Conversion struct {
	QuestionID int64
	Options    []string
}

// QuestionRepo manages courses and their questions.
type QuestionRepo interface {
	// ImportCourse inserts or updates a course and its questions, keyed by
	// course key and content id. Returns the number of questions written.
	ImportCourse(ctx context.Context, c *bank.Course) (int, error)

	// List returns questions matching f, ordered by course then question id.
	List(ctx context.Context, f Filter) ([]bank.Question, error)

	// ConvertToChoice rewrites each question that is still FILL_BLANK into
	// MULTI_CHOICE with the given options; the answer becomes the options
	// joined by "|". Returns the number of rows changed.
	ConvertToChoice(ctx context.Context, conv []Conversion) (int, error)
}

// questionRepo implements QuestionRepo with raw SQL.
type questionRepo struct {
	db *sql.DB
}

func (r *questionRepo) ImportCourse(ctx context.Context, c *bank.Course) (int, error) {
	status := c.Status
	if status == "" {
		status = bank.StatusPublished
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	var courseID int64
	err = tx.QueryRowContext(ctx, `INSERT INTO courses (course_key, title, status) VALUES (?, ?, ?)
		ON CONFLICT (course_key) DO UPDATE SET title = excluded.title, status = excluded.status
		RETURNING id`, c.Key, c.Title, string(status)).Scan(&courseID)
	if err != nil {
		return 0, fmt.Errorf("upsert course %s: %w", c.Key, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO questions
		(course_id, content_id, question_type, stem, answer, options_json)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (course_id, content_id) DO UPDATE SET
			question_type = excluded.question_type,
			stem = excluded.stem,
			answer = excluded.answer,
			options_json = excluded.options_json`)
	if err != nil {
		return 0, fmt.Errorf("prepare question upsert: %w", err)
	}
	defer stmt.Close()

	for _, q := range c.Questions {
		opts, err := encodeOptions(q.Options)
		if err != nil {
			return 0, fmt.Errorf("encode options for %s: %w", q.ContentID, err)
		}
		if _, err := stmt.ExecContext(ctx, courseID, q.ContentID, string(q.Type), q.Stem, q.Answer, opts); err != nil {
			return 0, fmt.Errorf("upsert question %s/%s: %w", c.Key, q.ContentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(c.Questions), nil
}

func (r *questionRepo) List(ctx context.Context, f Filter) ([]bank.Question, error) {
	var (
		where []string
		args  []any
	)
	if f.CourseKey != "" {
		where = append(where, "c.course_key = ?")
		args = append(args, f.CourseKey)
	}
	if !f.IncludeDraft {
		where = append(where, "c.status = ?")
		args = append(args, string(bank.StatusPublished))
	}
	if f.Type != "" {
		where = append(where, "q.question_type = ?")
		args = append(args, string(f.Type))
	}

	query := `SELECT q.id, c.course_key, q.content_id, q.question_type, q.stem, q.answer, q.options_json
		FROM questions q JOIN courses c ON c.id = q.course_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY c.id, q.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []bank.Question
	for rows.Next() {
		var (
			q     bank.Question
			qType string
			opts  string
		)
		if err := rows.Scan(&q.ID, &q.CourseKey, &q.ContentID, &qType, &q.Stem, &q.Answer, &opts); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Type = grading.QuestionType(qType)
		if q.Options, err = decodeOptions(opts); err != nil {
			return nil, fmt.Errorf("decode options for question %d: %w", q.ID, err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return out, nil
}

func (r *questionRepo) ConvertToChoice(ctx context.Context, conv []Conversion) (int, error) {
	if len(conv) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin conversion: %w", err)
	}
	defer tx.Rollback()

	updated := 0
	for _, c := range conv {
		opts, err := encodeOptions(c.Options)
		if err != nil {
			return 0, fmt.Errorf("encode options for question %d: %w", c.QuestionID, err)
		}
		res, err := tx.ExecContext(ctx, `UPDATE questions
			SET question_type = ?, options_json = ?, answer = ?
			WHERE id = ? AND question_type = ?`,
			string(grading.TypeMultiChoice), opts, strings.Join(c.Options, "|"),
			c.QuestionID, string(grading.TypeFillBlank))
		if err != nil {
			return 0, fmt.Errorf("convert question %d: %w", c.QuestionID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected for question %d: %w", c.QuestionID, err)
		}
		updated += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit conversion: %w", err)
	}
	return updated, nil
}

func encodeOptions(opts []string) (string, error) {
	if opts == nil {
		opts = []string{}
	}
	b, err := json.Marshal(opts)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeOptions(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var opts []string
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		return nil, nil
	}
	return opts, nil
}
