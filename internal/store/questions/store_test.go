package questions

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSetAnswersReplacesInTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM security_answers WHERE user_id = $1`)).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO security_answers (user_id, question_id, answer_hash)`)).
		WithArgs("user-1", 1, "hash-a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO security_answers (user_id, question_id, answer_hash)`)).
		WithArgs("user-1", 3, "hash-b").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := NewStore(db)
	err = s.SetAnswers(context.Background(), "user-1", []Answer{
		{QuestionID: 1, AnswerHash: "hash-a"},
		{QuestionID: 3, AnswerHash: "hash-b"},
	})
	if err != nil {
		t.Fatalf("SetAnswers: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSetAnswersRollsBackOnInsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM security_answers`)).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO security_answers`)).
		WithArgs("user-1", 2, "hash").
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	s := NewStore(db)
	err = s.SetAnswers(context.Background(), "user-1", []Answer{{QuestionID: 2, AnswerHash: "hash"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAnswerHashNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT answer_hash FROM security_answers`)).
		WithArgs("user-1", 4).
		WillReturnRows(sqlmock.NewRows([]string{"answer_hash"}))

	s := NewStore(db)
	_, err = s.AnswerHash(context.Background(), "user-1", 4)
	if !errors.Is(err, ErrNoAnswer) {
		t.Fatalf("want ErrNoAnswer, got %v", err)
	}
}

func TestQuestionIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"question_id"}).AddRow(1).AddRow(5)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT question_id FROM security_answers`)).
		WithArgs("user-1").
		WillReturnRows(rows)

	s := NewStore(db)
	ids, err := s.QuestionIDs(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("QuestionIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 5 {
		t.Fatalf("got %v", ids)
	}
}
