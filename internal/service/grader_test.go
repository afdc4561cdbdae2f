package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/contest-api/internal/domain/entity"
	apperrors "github.com/yourusername/contest-api/internal/pkg/errors"
)

func twoQuestionContest() []entity.Question {
	return []entity.Question{
		{
			ID:             1,
			Type:           entity.QuestionTypeSingleSelect,
			Options:        entity.StringArray{"A", "B", "C"},
			CorrectAnswers: entity.StringArray{"A"},
			Points:         5,
		},
		{
			ID:             2,
			Type:           entity.QuestionTypeMultiSelect,
			Options:        entity.StringArray{"X", "Y", "Z"},
			CorrectAnswers: entity.StringArray{"X", "Y"},
			Points:         10,
		},
	}
}

func TestGradeSubmission_FullScore(t *testing.T) {
	graded, total, err := GradeSubmission(twoQuestionContest(), []SubmittedAnswer{
		{QuestionID: 1, SelectedAnswers: []string{"A"}},
		{QuestionID: 2, SelectedAnswers: []string{"Y", "X"}},
	})

	require.NoError(t, err)
	assert.Equal(t, 15, total, "order of selections must not matter")
	require.Len(t, graded, 2)
	assert.True(t, graded[0].IsCorrect)
	assert.Equal(t, 5, graded[0].PointsEarned)
	assert.True(t, graded[1].IsCorrect)
	assert.Equal(t, 10, graded[1].PointsEarned)
}

func TestGradeSubmission_ZeroScore(t *testing.T) {
	graded, total, err := GradeSubmission(twoQuestionContest(), []SubmittedAnswer{
		{QuestionID: 1, SelectedAnswers: []string{"B"}},
		{QuestionID: 2, SelectedAnswers: []string{"X"}},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, total, "wrong single answer and partial multi answer both score zero")
	require.Len(t, graded, 2)
	assert.False(t, graded[0].IsCorrect)
	assert.False(t, graded[1].IsCorrect, "subset of the answer key earns nothing")
}

func TestGradeSubmission_AnswerOrderIndependent(t *testing.T) {
	questions := twoQuestionContest()

	_, totalA, err := GradeSubmission(questions, []SubmittedAnswer{
		{QuestionID: 1, SelectedAnswers: []string{"A"}},
		{QuestionID: 2, SelectedAnswers: []string{"X", "Y"}},
	})
	require.NoError(t, err)

	_, totalB, err := GradeSubmission(questions, []SubmittedAnswer{
		{QuestionID: 2, SelectedAnswers: []string{"X", "Y"}},
		{QuestionID: 1, SelectedAnswers: []string{"A"}},
	})
	require.NoError(t, err)

	assert.Equal(t, totalA, totalB)
}

func TestGradeSubmission_UnknownQuestionFailsWholeSubmission(t *testing.T) {
	graded, total, err := GradeSubmission(twoQuestionContest(), []SubmittedAnswer{
		{QuestionID: 1, SelectedAnswers: []string{"A"}},
		{QuestionID: 999, SelectedAnswers: []string{"A"}},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuestionReference)
	assert.Nil(t, graded)
	assert.Zero(t, total)
}

func TestGradeSubmission_DuplicateAnswerRejected(t *testing.T) {
	_, _, err := GradeSubmission(twoQuestionContest(), []SubmittedAnswer{
		{QuestionID: 1, SelectedAnswers: []string{"A"}},
		{QuestionID: 1, SelectedAnswers: []string{"B"}},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGradeSubmission_SkippedQuestionGradedEmpty(t *testing.T) {
	graded, total, err := GradeSubmission(twoQuestionContest(), []SubmittedAnswer{
		{QuestionID: 1, SelectedAnswers: []string{"A"}},
	})

	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, graded, 2, "every contest question appears in the graded result")
	assert.False(t, graded[1].IsCorrect)
	assert.Empty(t, graded[1].SelectedAnswers)
}

func TestGradeSubmission_DuplicateSelectionsCollapse(t *testing.T) {
	graded, total, err := GradeSubmission(twoQuestionContest(), []SubmittedAnswer{
		{QuestionID: 2, SelectedAnswers: []string{"X", "X", "Y"}},
	})

	require.NoError(t, err)
	assert.Equal(t, 10, total)
	assert.True(t, graded[1].IsCorrect)
	assert.Equal(t, []string{"X", "Y"}, graded[1].SelectedAnswers)
}

func TestGradeSubmission_EmptySubmission(t *testing.T) {
	graded, total, err := GradeSubmission(twoQuestionContest(), nil)

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Len(t, graded, 2)
}
