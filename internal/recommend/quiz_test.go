package recommend

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edupath/internal/domain"
)

func TestQuiz_NextRequiresAnswer(t *testing.T) {
	q := NewQuiz(testBank())

	_, err := q.Next()
	assert.True(t, errors.Is(err, ErrUnanswered))

	require.NoError(t, q.Answer("academic_2", domain.Multiple()))
	_, err = q.Next()
	assert.True(t, errors.Is(err, ErrUnanswered))
}

func TestQuiz_PreviousAtStart(t *testing.T) {
	q := NewQuiz(testBank())
	assert.True(t, errors.Is(q.Previous(), ErrAtFirstQuestion))
	assert.Equal(t, 0, q.Index())
}

func TestQuiz_ConditionalQuestions(t *testing.T) {
	q := NewQuiz(testBank())
	assert.Len(t, q.Active(), 6)

	require.NoError(t, q.Answer("location_1", domain.Single("tamil_nadu")))
	assert.Len(t, q.Active(), 7)

	require.NoError(t, q.Answer("location_2", domain.Single("chennai")))
	require.NoError(t, q.Answer("location_1", domain.Single("anywhere")))
	assert.Len(t, q.Active(), 6)

	_, hidden := q.Answers()["location_2"]
	assert.False(t, hidden)
	assert.True(t, errors.Is(q.Answer("location_2", domain.Single("chennai")), ErrInactiveQuestion))
}

func TestQuiz_FullRunCompletesOnce(t *testing.T) {
	q := NewQuiz(testBank())
	calls := 0
	var final domain.AnswerSet
	q.OnComplete = func(a domain.AnswerSet) {
		calls++
		final = a
	}

	answers := map[string]domain.AnswerValue{
		"academic_1":    domain.Single("excellent"),
		"academic_2":    domain.Multiple("mathematics", "science"),
		"future_1":      domain.Single("engineering"),
		"family_income": domain.Single("below_2l"),
		"preference_2":  domain.Single("very_important"),
		"location_1":    domain.Single("tamil_nadu"),
		"location_2":    domain.Single("chennai"),
	}

	done := false
	for !done {
		current, ok := q.Current()
		require.True(t, ok)
		require.NoError(t, q.Answer(current.ID, answers[current.ID]))
		var err error
		done, err = q.Next()
		require.NoError(t, err)
	}

	assert.True(t, q.Completed())
	assert.Equal(t, 1, calls)
	assert.Len(t, final, 7)

	_, err := q.Next()
	assert.True(t, errors.Is(err, ErrQuizCompleted))
	assert.Equal(t, 1, calls)

	q.Reset()
	assert.False(t, q.Completed())
	assert.Equal(t, 0, q.Index())
	assert.Empty(t, q.Answers())
}

func TestQuiz_RevisitOverwrites(t *testing.T) {
	q := NewQuiz(testBank())
	require.NoError(t, q.Answer("academic_1", domain.Single("good")))
	_, err := q.Next()
	require.NoError(t, err)
	require.NoError(t, q.Previous())
	require.NoError(t, q.Answer("academic_1", domain.Single("excellent")))

	assert.Equal(t, "excellent", q.Answers()["academic_1"].First())
}

func TestQuiz_RejectsUnknownOption(t *testing.T) {
	q := NewQuiz(testBank())
	err := q.Answer("academic_1", domain.Single("genius"))

	var dce *DataConsistencyError
	assert.True(t, errors.As(err, &dce))
}

func TestQuiz_SnapshotRoundTrip(t *testing.T) {
	q := NewQuiz(testBank())
	require.NoError(t, q.Answer("academic_1", domain.Single("good")))
	_, err := q.Next()
	require.NoError(t, err)

	restored, err := RestoreQuiz(testBank(), q.Snapshot())
	require.NoError(t, err)

	assert.Equal(t, 1, restored.Index())
	current, ok := restored.Current()
	require.True(t, ok)
	assert.Equal(t, "academic_2", current.ID)
}

func TestRestoreQuiz_RejectsStaleAnswers(t *testing.T) {
	_, err := RestoreQuiz(testBank(), QuizSnapshot{Answers: domain.AnswerSet{"ghost": domain.Single("x")}})
	assert.Error(t, err)
}

func TestQuiz_SnapshotRestoreRoundTrip(t *testing.T) {
	q := NewQuiz(testBank())
	require.NoError(t, q.Answer("academic_1", domain.Single("excellent")))
	_, err := q.Next()
	require.NoError(t, err)
	require.NoError(t, q.Answer("academic_2", domain.Multiple("mathematics", "science")))

	want := q.Snapshot()
	restored, err := RestoreQuiz(testBank(), want)
	require.NoError(t, err)

	if diff := cmp.Diff(want, restored.Snapshot(), cmp.AllowUnexported(domain.AnswerValue{})); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}
