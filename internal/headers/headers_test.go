package headers_test

import (
	"net/http"
	"testing"

	"github.com/policyware/cors/internal/headers"
)

func TestIsValid(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"content-type", true},
		{"Content-Type", true},
		{"x-foo-42", true},
		{"", false},
		{"x foo", false},
		{"x-fo\no", false},
		{"résumé", false},
	}
	for _, tc := range cases {
		got := headers.IsValid(tc.name)
		if got != tc.want {
			t.Errorf("IsValid(%q): got %t; want %t", tc.name, got, tc.want)
		}
	}
}

func TestFirst(t *testing.T) {
	hdrs := http.Header{
		headers.Origin: {"https://example.com", "https://attacker.example"},
		headers.ACRH:   {""},
		"Empty":        nil,
	}
	cases := []struct {
		desc      string
		key       string
		want      string
		wantFound bool
	}{
		{
			desc:      "multiple values yield the first",
			key:       headers.Origin,
			want:      "https://example.com",
			wantFound: true,
		}, {
			desc:      "present but empty",
			key:       headers.ACRH,
			want:      "",
			wantFound: true,
		}, {
			desc: "absent",
			key:  headers.ACRM,
		}, {
			desc: "present with no values",
			key:  "Empty",
		},
	}
	for _, tc := range cases {
		f := func(t *testing.T) {
			got, found := headers.First(hdrs, tc.key)
			if got != tc.want || found != tc.wantFound {
				const tmpl = "First(hdrs, %q): got %q, %t; want %q, %t"
				t.Errorf(tmpl, tc.key, got, found, tc.want, tc.wantFound)
			}
		}
		t.Run(tc.desc, f)
	}
}
