package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/abhisek/blankcheck/internal/bank"
	"github.com/abhisek/blankcheck/internal/grading"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func sampleCourse(key string, status bank.Status) *bank.Course {
	return &bank.Course{
		Key:    key,
		Title:  "Sample " + key,
		Status: status,
		Questions: []bank.Question{
			{ContentID: "q1", Type: grading.TypeFillBlank, Stem: "stem 1", Answer: "e^x|exp(x)"},
			{ContentID: "q2", Type: grading.TypeSingleChoice, Stem: "stem 2", Answer: "A", Options: []string{"A", "B"}},
			{ContentID: "q3", Type: grading.TypeFillBlank, Stem: "stem 3", Answer: "=A\n=B"},
		},
	}
}

func TestImportAndList(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	n, err := repo.ImportCourse(ctx, sampleCourse("pub", bank.StatusPublished))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	_, err = repo.ImportCourse(ctx, sampleCourse("draft", bank.StatusDraft))
	require.NoError(t, err)

	all, err := repo.List(ctx, Filter{IncludeDraft: true})
	require.NoError(t, err)
	assert.Len(t, all, 6)

	published, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, published, 3)
	assert.Equal(t, "pub", published[0].CourseKey)
	assert.Equal(t, []string{"A", "B"}, published[1].Options)
	assert.Nil(t, published[0].Options)

	fill, err := repo.List(ctx, Filter{IncludeDraft: true, Type: grading.TypeFillBlank, CourseKey: "draft"})
	require.NoError(t, err)
	require.Len(t, fill, 2)
	assert.Equal(t, "q1", fill[0].ContentID)
	assert.Equal(t, "q3", fill[1].ContentID)
	assert.NotZero(t, fill[0].ID)
}

func TestImportCourse_Upserts(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	c := sampleCourse("c", bank.StatusPublished)
	_, err := repo.ImportCourse(ctx, c)
	require.NoError(t, err)

	c.Questions[0].Answer = "42"
	c.Status = bank.StatusDraft
	_, err = repo.ImportCourse(ctx, c)
	require.NoError(t, err)

	qs, err := repo.List(ctx, Filter{IncludeDraft: true})
	require.NoError(t, err)
	require.Len(t, qs, 3, "re-import must not duplicate questions")
	assert.Equal(t, "42", qs[0].Answer)

	published, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, published, "course status should be updated to draft")
}

func TestConvertToChoice(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	_, err := repo.ImportCourse(ctx, sampleCourse("c", bank.StatusPublished))
	require.NoError(t, err)
	qs, err := repo.List(ctx, Filter{})
	require.NoError(t, err)

	conv := []Conversion{
		{QuestionID: qs[2].ID, Options: []string{"A", "B"}},
		// Not a fill-blank question; must be left alone.
		{QuestionID: qs[1].ID, Options: []string{"X", "Y"}},
	}
	n, err := repo.ConvertToChoice(ctx, conv)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	qs, err = repo.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, grading.TypeMultiChoice, qs[2].Type)
	assert.Equal(t, "A|B", qs[2].Answer)
	assert.Equal(t, []string{"A", "B"}, qs[2].Options)
	assert.Equal(t, grading.TypeSingleChoice, qs[1].Type)
	assert.Equal(t, "A", qs[1].Answer)

	// Converting again is a no-op.
	n, err = repo.ConvertToChoice(ctx, conv[:1])
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.ConvertToChoice(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDefaultDBPath_Env(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "x.db")
	t.Setenv("BLANKCHECK_DB", p)

	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.DirExists(t, filepath.Dir(p))
}

func TestDefaultDBPath_XDG(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("BLANKCHECK_DB", "")
	t.Setenv("XDG_DATA_HOME", dataHome)

	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataHome, "blankcheck", "blankcheck.db"), got)
}
