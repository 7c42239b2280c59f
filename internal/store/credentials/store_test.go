package credentials_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Davide1809/password-health-tracker/internal/store/credentials"
)

func TestCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO public.credentials (user_id, site_label, site_username, secret_ciphertext, notes)`,
	)).
		WithArgs("owner-1", "GitHub", "alice", "v1:cipher", "work account").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("cred-1"))

	id, err := credentials.Create(context.Background(), db, "owner-1", "GitHub", "alice", "v1:cipher", "work account")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if id != "cred-1" {
		t.Fatalf("want id=cred-1; got %q", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListByOwner_ScopedToOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	t1, _ := time.Parse(time.RFC3339, "2024-05-01T00:00:00Z")

	mock.ExpectQuery(`SELECT id::text, user_id::text, site_label, site_username, secret_ciphertext`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "site_label", "site_username", "secret_ciphertext", "notes", "created_at", "updated_at",
		}).AddRow("cred-1", "owner-1", "GitHub", "alice", "v1:cipher", "", t1, t1))

	list, err := credentials.ListByOwner(context.Background(), db, "owner-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(list) != 1 || list[0].OwnerID != "owner-1" {
		t.Fatalf("unexpected list: %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdate_OwnerMismatchIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	label := "GitLab"
	mock.ExpectExec(`UPDATE public.credentials`).
		WithArgs("GitLab", nil, nil, nil, "cred-1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0)) // owner clause filtered the row out

	err = credentials.Update(context.Background(), db, "intruder", "cred-1",
		credentials.UpdateFields{SiteLabel: &label})
	if !errors.Is(err, credentials.ErrNotFound) {
		t.Fatalf("want ErrNotFound; got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdate_OK(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	secret := "v1:new-cipher"
	mock.ExpectExec(`UPDATE public.credentials`).
		WithArgs(nil, nil, "v1:new-cipher", nil, "cred-1", "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = credentials.Update(context.Background(), db, "owner-1", "cred-1",
		credentials.UpdateFields{SecretCiphertext: &secret})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDelete_OK(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(
		`DELETE FROM public.credentials WHERE id = $1 AND user_id = $2`,
	)).
		WithArgs("cred-1", "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := credentials.Delete(context.Background(), db, "owner-1", "cred-1"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDelete_NotOwnedIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(
		`DELETE FROM public.credentials WHERE id = $1 AND user_id = $2`,
	)).
		WithArgs("cred-1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = credentials.Delete(context.Background(), db, "intruder", "cred-1")
	if !errors.Is(err, credentials.ErrNotFound) {
		t.Fatalf("want ErrNotFound; got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
