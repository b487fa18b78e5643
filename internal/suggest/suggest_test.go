package suggest

import "testing"

func TestClosest(t *testing.T) {
	t.Parallel()

	candidates := []string{"role", "department", "adminCode"}

	cases := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{name: "rol", want: "role", wantOK: true},
		{name: "Departmnet", want: "department", wantOK: true},
		{name: "admincode", want: "adminCode", wantOK: true},
		{name: "zzzzzz", wantOK: false},
		{name: "", wantOK: false},
	}

	for _, tc := range cases {
		got, ok := Closest(tc.name, candidates)
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("Closest(%q) = %q, %v; want %q, %v", tc.name, got, ok, tc.want, tc.wantOK)
		}
	}
}
