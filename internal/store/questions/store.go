package questions

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Davide1809/password-health-tracker/internal/store/dbx"
)

var ErrNoAnswer = errors.New("questions: no answer on file")

type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{DB: db} }

type Answer struct {
	QuestionID int
	AnswerHash string
}

// SetAnswers replaces the user's full answer set atomically. Callers pass
// already-hashed answers; this store never sees plaintext.
func (s *Store) SetAnswers(ctx context.Context, userID string, answers []Answer) error {
	return dbx.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM security_answers WHERE user_id = $1`, userID); err != nil {
			return err
		}
		for _, a := range answers {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO security_answers (user_id, question_id, answer_hash)
				VALUES ($1, $2, $3)`,
				userID, a.QuestionID, a.AnswerHash); err != nil {
				return err
			}
		}
		return nil
	})
}

// AnswerHash returns the stored hash for one of the user's questions.
func (s *Store) AnswerHash(ctx context.Context, userID string, questionID int) (string, error) {
	var hash string
	err := s.DB.QueryRowContext(ctx, `
		SELECT answer_hash FROM security_answers
		WHERE user_id = $1 AND question_id = $2`,
		userID, questionID).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoAnswer
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}

// QuestionIDs lists the question IDs the user has answers for.
func (s *Store) QuestionIDs(ctx context.Context, userID string) ([]int, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT question_id FROM security_answers
		WHERE user_id = $1 ORDER BY question_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
