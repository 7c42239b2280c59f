package credentials

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Davide1809/password-health-tracker/internal/api/middlewares"
	"github.com/Davide1809/password-health-tracker/internal/security/credcipher"
)

func testCipher(t *testing.T) *credcipher.Cipher {
	t.Helper()
	c, err := credcipher.New(bytes.Repeat([]byte{0x42}, credcipher.KeySize))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(middlewares.WithUserID(req.Context(), "user-1"))
}

func TestCreate_TrimsFreeTextFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO public.credentials (user_id, site_label, site_username, secret_ciphertext, notes)`,
	)).
		WithArgs("user-1", "GitHub", "alice", sqlmock.AnyArg(), "work account").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("cred-1"))

	req := authedRequest(http.MethodPost, "/api/credentials",
		`{"site_label":"  GitHub  ","site_username":"  alice  ","password":"s3cret","notes":"  work account  "}`)
	rec := httptest.NewRecorder()
	Create(db, testCipher(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreate_RejectsOverlongUsername(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	req := authedRequest(http.MethodPost, "/api/credentials",
		`{"site_label":"GitHub","site_username":"`+strings.Repeat("a", 121)+`","password":"s3cret"}`)
	rec := httptest.NewRecorder()
	Create(db, testCipher(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUpdate_TrimsAndBoundsFreeTextFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	const id = "8f9f2b9a-3a1e-4f0c-9a6d-6f2f6f1a2b3c"

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE public.credentials`)).
		WithArgs(nil, "bob", nil, "rotated last week", id, "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := authedRequest(http.MethodPut, "/api/credentials/"+id,
		`{"site_username":"  bob  ","notes":"  rotated last week  "}`)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	Update(db, testCipher(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdate_RejectsOverlongNotes(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	const id = "8f9f2b9a-3a1e-4f0c-9a6d-6f2f6f1a2b3c"

	req := authedRequest(http.MethodPut, "/api/credentials/"+id,
		`{"notes":"`+strings.Repeat("n", 1001)+`"}`)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	Update(db, testCipher(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
