package ioring

import "testing"

func TestCoalesceMergesConsecutivePages(t *testing.T) {
	cases := []struct {
		name string
		in   []int
		want []run
	}{
		{"empty", nil, nil},
		{"single", []int{5}, []run{{5, 1}}},
		{"one run", []int{2, 3, 4}, []run{{2, 3}}},
		{"two runs", []int{0, 1, 2, 8, 9, 10, 11}, []run{{0, 3}, {8, 4}}},
		{"all singletons", []int{1, 3, 5}, []run{{1, 1}, {3, 1}, {5, 1}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := coalesce(c.in)
			if len(got) != len(c.want) {
				t.Fatalf("coalesce(%v) = %v, want %v", c.in, got, c.want)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Errorf("run[%d] = %+v, want %+v", i, got[i], c.want[i])
				}
			}
		})
	}
}
