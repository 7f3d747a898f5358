package util_test

import (
	"slices"
	"testing"

	"github.com/policyware/cors/internal/util"
)

func TestSet(t *testing.T) {
	cases := []struct {
		desc     string
		elems    []string
		size     int
		want     []string
		absent   []string
		present  []string
	}{
		{
			desc:   "empty",
			size:   0,
			want:   nil,
			absent: []string{"", "GET"},
		}, {
			desc:    "singleton",
			elems:   []string{"PUT"},
			size:    1,
			want:    []string{"PUT"},
			present: []string{"PUT"},
			absent:  []string{"put", "GET", ""},
		}, {
			desc:    "insertion order preserved",
			elems:   []string{"foo", "bar", "baz"},
			size:    3,
			want:    []string{"foo", "bar", "baz"},
			present: []string{"foo", "bar", "baz"},
			absent:  []string{"qux"},
		}, {
			desc:    "duplicates collapse to first position",
			elems:   []string{"foo", "bar", "foo", "bar", "baz"},
			size:    3,
			want:    []string{"foo", "bar", "baz"},
			present: []string{"foo", "bar", "baz"},
		},
	}
	for _, tc := range cases {
		f := func(t *testing.T) {
			set := util.NewSet(tc.elems...)
			if got := set.Size(); got != tc.size {
				t.Errorf("Size(): got %d; want %d", got, tc.size)
			}
			if got := set.ToSlice(); !slices.Equal(got, tc.want) {
				t.Errorf("ToSlice(): got %q; want %q", got, tc.want)
			}
			for _, e := range tc.present {
				if !set.Contains(e) {
					t.Errorf("Contains(%q): got false; want true", e)
				}
			}
			for _, e := range tc.absent {
				if set.Contains(e) {
					t.Errorf("Contains(%q): got true; want false", e)
				}
			}
		}
		t.Run(tc.desc, f)
	}
}

func TestSetToSliceIsACopy(t *testing.T) {
	set := util.NewSet("foo", "bar")
	s := set.ToSlice()
	s[0] = "mutated"
	if got := set.ToSlice(); !slices.Equal(got, []string{"foo", "bar"}) {
		t.Errorf("ToSlice() after mutation of earlier result: got %q; want %q", got, []string{"foo", "bar"})
	}
}
