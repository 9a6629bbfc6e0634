package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edupath/internal/domain"
)

var collegeMockColumns = []string{"id", "name", "state", "district", "type", "courses", "annual_fee", "cutoff", "scholarship_available", "facilities", "website"}

func TestSQLiteCollegeRepository_ListBuildsFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(collegeMockColumns).
		AddRow("col-001", "Anna University", "Tamil Nadu", "Chennai", "Government", `["B.Tech"]`, 85000.0, 92.5, true, `["hostel"]`, "").
		AddRow("col-002", "Madras Arts", "Tamil Nadu", "Chennai", "Private", `["B.A"]`, nil, nil, false, `[]`, "")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+sqliteCollegeColumns+" FROM colleges WHERE state = ? COLLATE NOCASE AND type = ? COLLATE NOCASE ORDER BY name ASC LIMIT ? OFFSET ?")).
		WithArgs("tamil nadu", "government", 10, 0).
		WillReturnRows(rows)

	repo := NewSQLiteCollegeRepository(db)
	out, err := repo.List(context.Background(), CollegeFilter{State: "tamil nadu", Type: "government", Limit: 10})
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, []string{"B.Tech"}, out[0].Courses)
	require.NotNil(t, out[0].AnnualFee)
	assert.InDelta(t, 85000, *out[0].AnnualFee, 0.001)
	assert.Nil(t, out[1].AnnualFee)
	assert.Nil(t, out[1].Cutoff)
	assert.Empty(t, out[1].Facilities)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteCollegeRepository_GetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM colleges WHERE id = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(collegeMockColumns))

	_, err = NewSQLiteCollegeRepository(db).GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteQuestionRepository_ReplaceAllRewritesPositions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	bank := domain.QuestionBank{
		{ID: "q1", Category: domain.CategoryAcademic, Prompt: "?", Type: domain.QuestionSingle, Position: 7},
		{ID: "q2", Category: domain.CategoryAcademic, Prompt: "?", Type: domain.QuestionSingle, Position: 3},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM questions")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO questions")).
		WithArgs("q1", 0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO questions")).
		WithArgs("q2", 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, NewSQLiteQuestionRepository(db).ReplaceAll(context.Background(), bank))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteQuestionRepository_ListDecodesPayload(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	payload := `{"id":"academic_1","category":"academic","prompt":"Marks?","type":"single","options":[{"value":"above_90","label":"90%+","scores":{"analytical":2}}]}`
	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM questions ORDER BY position ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	bank, err := NewSQLiteQuestionRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, bank, 1)
	opt, ok := bank[0].Option("above_90")
	require.True(t, ok)
	assert.InDelta(t, 2, opt.ScoreDeltas["analytical"], 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteCourseRepository_UpsertRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO courses")).
		WithArgs("crs-001", sqlmock.AnyArg()).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = NewSQLiteCourseRepository(db).Upsert(context.Background(), []domain.Course{{ID: "crs-001", Name: "B.Tech"}})
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
