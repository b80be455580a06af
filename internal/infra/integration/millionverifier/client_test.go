package millionverifier

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

func TestVerifySingleOK(t *testing.T) {
	var gotEmail string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail = r.URL.Query().Get("email")
		w.Write([]byte(`{"result": "ok"}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL)

	assert.Equal(t, entity.VerificationOK, c.VerifySingle("  John@Example.com "))
	assert.Equal(t, "john@example.com", gotEmail)
}

func TestVerifySingleUnrecognizedResultIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": "maybe_good"}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL)

	assert.Equal(t, entity.VerificationUnknown, c.VerifySingle("a@b.com"))
}

func TestVerifySingleNon200IsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL)

	assert.Equal(t, entity.VerificationUnknown, c.VerifySingle("a@b.com"))
}

func TestVerifySingleMissingInputIsUnknown(t *testing.T) {
	c := NewClient("", "http://example.invalid")
	assert.Equal(t, entity.VerificationUnknown, c.VerifySingle("a@b.com"))

	c = NewClient("key", "http://example.invalid")
	assert.Equal(t, entity.VerificationUnknown, c.VerifySingle(""))
}
