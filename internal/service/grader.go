package service

import (
	"fmt"

	"github.com/yourusername/contest-api/internal/domain/entity"
	apperrors "github.com/yourusername/contest-api/internal/pkg/errors"
)

// SubmittedAnswer is one question's selected options as received from the
// client. Selection order never affects grading.
type SubmittedAnswer struct {
	QuestionID      uint     `json:"question_id"`
	SelectedAnswers []string `json:"selected_answers"`
}

// GradeSubmission grades the submitted answers against the contest's
// question set and returns the per-question results plus the total score.
//
// Grading rules:
//   - correctness is set equality between the (deduplicated) selected set
//     and the answer key, irrespective of order;
//   - points earned are all-or-nothing, no partial credit;
//   - an answer referencing a question outside the contest fails the whole
//     submission (prevents score inflation via injected bogus IDs);
//   - a duplicate answer for the same question is a malformed submission;
//   - a contest question with no submitted answer is graded with an empty
//     selected set.
//
// The function is pure: no side effects, deterministic, order-independent.
func GradeSubmission(questions []entity.Question, answers []SubmittedAnswer) ([]entity.GradedAnswer, int, error) {
	known := make(map[uint]struct{}, len(questions))
	for i := range questions {
		known[questions[i].ID] = struct{}{}
	}

	byQuestion := make(map[uint][]string, len(answers))
	for _, a := range answers {
		if _, ok := known[a.QuestionID]; !ok {
			return nil, 0, fmt.Errorf("%w: question #%d", apperrors.ErrInvalidQuestionReference, a.QuestionID)
		}
		if _, dup := byQuestion[a.QuestionID]; dup {
			return nil, 0, fmt.Errorf("%w: duplicate answer for question #%d", apperrors.ErrValidation, a.QuestionID)
		}
		byQuestion[a.QuestionID] = dedupe(a.SelectedAnswers)
	}

	graded := make([]entity.GradedAnswer, 0, len(questions))
	totalScore := 0
	for i := range questions {
		q := &questions[i]
		selected := byQuestion[q.ID] // nil (empty set) when the question was skipped
		isCorrect := q.IsCorrect(selected)
		points := q.CalculatePoints(isCorrect)
		totalScore += points

		graded = append(graded, entity.GradedAnswer{
			QuestionID:      q.ID,
			SelectedAnswers: selected,
			IsCorrect:       isCorrect,
			PointsEarned:    points,
		})
	}

	return graded, totalScore, nil
}

// dedupe collapses duplicate selections, preserving first-seen order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
