package testdb

import (
	"net/url"
	"testing"
)

func TestWithSearchPathURL(t *testing.T) {
	got, err := WithSearchPath("postgres://app:pw@localhost:5432/coursewish?sslmode=disable", "test_repo")
	if err != nil {
		t.Fatalf("WithSearchPath() error = %v", err)
	}

	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("result %q is not a url: %v", got, err)
	}
	if u.Query().Get("search_path") != "test_repo" {
		t.Errorf("search_path = %q", u.Query().Get("search_path"))
	}
	if u.Query().Get("sslmode") != "disable" {
		t.Error("existing query parameters were dropped")
	}
}

func TestWithSearchPathKeywordDSN(t *testing.T) {
	got, err := WithSearchPath("host=localhost dbname=coursewish", "test_seed")
	if err != nil {
		t.Fatalf("WithSearchPath() error = %v", err)
	}
	if want := "host=localhost dbname=coursewish search_path=test_seed"; got != want {
		t.Errorf("WithSearchPath() = %q, want %q", got, want)
	}
}
