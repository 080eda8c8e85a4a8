package gsheets

import (
	"errors"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestExtractSpreadsheetID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://docs.google.com/spreadsheets/d/ABC123/edit", "ABC123", false},
		{"https://docs.google.com/spreadsheets/d/1aB_c-9/edit#gid=0", "1aB_c-9", false},
		{"https://docs.google.com/spreadsheets/d/ABC123", "ABC123", false},
		{"https://docs.google.com/document/d/ABC123/edit", "", true},
		{"not a url", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ExtractSpreadsheetID(tc.url)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error, got %q", tc.url, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.url, err)
		}
		if got != tc.want {
			t.Fatalf("%q: want %q got %q", tc.url, tc.want, got)
		}
	}
}

func TestTrimLeadingBlankRows(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{},
		{"", "", ""},
		{"  "},
		{"", "", "EXERCISES"},
		{"", "", "Legs"},
	}
	got := trimLeadingBlankRows(rows)
	if len(got) != 2 {
		t.Fatalf("want 2 rows got %d", len(got))
	}
	if got[0][2] != "EXERCISES" {
		t.Fatalf("first kept row wrong: %v", got[0])
	}
}

func TestTrimLeadingBlankRows_AllBlank(t *testing.T) {
	t.Parallel()

	got := trimLeadingBlankRows([][]string{{}, {"", ""}})
	if len(got) != 0 {
		t.Fatalf("want empty got %v", got)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	if err := classify(&googleapi.Error{Code: 403, Message: "forbidden"}); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("403: want ErrAccessDenied got %v", err)
	}
	if err := classify(&googleapi.Error{Code: 400, Message: "Unable to parse range: 'missing'!A1:Z500"}); !errors.Is(err, ErrTabNotFound) {
		t.Fatalf("bad range: want ErrTabNotFound got %v", err)
	}
	if err := classify(&googleapi.Error{Code: 404, Message: "not found"}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("404: want ErrUnavailable got %v", err)
	}
	if err := classify(&googleapi.Error{Code: 500, Message: "boom"}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("500: want ErrUnavailable got %v", err)
	}
	if err := classify(errors.New("connection reset")); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("network: want ErrUnavailable got %v", err)
	}
}
