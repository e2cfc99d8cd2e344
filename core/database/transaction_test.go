package database

import (
	"errors"
	"testing"

	"github.com/lib/pq"
)

func TestTranslate(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		conflict bool
	}{
		{"nil", nil, false},
		{"serialization", &pq.Error{Code: "40001"}, true},
		{"deadlock", &pq.Error{Code: "40P01"}, true},
		{"lock timeout", &pq.Error{Code: "55P03"}, true},
		{"unique", &pq.Error{Code: "23505"}, true},
		{"syntax", &pq.Error{Code: "42601"}, false},
		{"plain", errors.New("x"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Translate(tc.err)
			if errors.Is(got, ErrConflict) != tc.conflict {
				t.Errorf("Translate(%v) conflict=%v, want %v", tc.err, errors.Is(got, ErrConflict), tc.conflict)
			}
			if tc.err == nil && got != nil {
				t.Errorf("nil must stay nil")
			}
		})
	}
}
