package audit

import (
	"context"
	"fmt"

	"github.com/abhisek/blankcheck/internal/answerkey"
	"github.com/abhisek/blankcheck/internal/bank"
	"github.com/abhisek/blankcheck/internal/grading"
	"github.com/abhisek/blankcheck/internal/store"
	"go.uber.org/zap"
)

// FixCandidate is a fill-blank question whose answer is really a
// multiple-choice option list.
type FixCandidate struct {
	QuestionID int64    `json:"questionId"`
	CourseKey  string   `json:"courseKey"`
	ContentID  string   `json:"contentId"`
	Answer     string   `json:"answer"`
	Options    []string `json:"options"`
}

// Converter applies choice conversions. store.QuestionRepo satisfies it.
type Converter interface {
	ConvertToChoice(ctx context.Context, conv []store.Conversion) (int, error)
}

// Fixer finds and rewrites misclassified fill-blank questions.
type Fixer struct {
	log *zap.Logger
}

// NewFixer returns a Fixer that logs to log. A nil logger discards.
func NewFixer(log *zap.Logger) *Fixer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fixer{log: log}
}

// Candidates returns the fill-blank questions whose answer parses as a
// legacy choice list, in input order.
func (f *Fixer) Candidates(questions []bank.Question) []FixCandidate {
	var out []FixCandidate
	for _, q := range questions {
		if q.Type != grading.TypeFillBlank {
			continue
		}
		opts, ok := answerkey.ExtractLegacyChoiceOptions(q.Answer)
		if !ok {
			continue
		}
		out = append(out, FixCandidate{
			QuestionID: q.ID,
			CourseKey:  courseKeyOf(q),
			ContentID:  q.ContentID,
			Answer:     q.Answer,
			Options:    opts,
		})
	}
	f.log.Debug("collected fix candidates",
		zap.Int("questions", len(questions)),
		zap.Int("candidates", len(out)),
	)
	return out
}

// Apply converts the candidates through conv in one batch and returns the
// number of questions changed.
func (f *Fixer) Apply(ctx context.Context, conv Converter, cands []FixCandidate) (int, error) {
	if len(cands) == 0 {
		return 0, nil
	}
	batch := make([]store.Conversion, 0, len(cands))
	for _, c := range cands {
		batch = append(batch, store.Conversion{QuestionID: c.QuestionID, Options: c.Options})
	}

	updated, err := conv.ConvertToChoice(ctx, batch)
	if err != nil {
		f.log.Error("convert misclassified questions", zap.Error(err), zap.Int("candidates", len(cands)))
		return 0, fmt.Errorf("convert to choice: %w", err)
	}
	f.log.Info("converted misclassified questions",
		zap.Int("candidates", len(cands)),
		zap.Int("updated", updated),
	)
	return updated, nil
}
