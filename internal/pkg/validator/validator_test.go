package validator

import (
	"strings"
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	valid := []string{"123", "0", "9876543210"}
	invalid := []string{"abc", "123a", "", "-123"}
	for _, s := range valid {
		if !IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsNumeric(s) {
			t.Errorf("IsNumeric(%q) = true, want false", s)
		}
	}
}

func TestIsValidWorkerIdentity(t *testing.T) {
	valid := []string{"Ana", "Luis Pérez", "worker_01", "j.quispe", "Ñahui-2"}
	invalid := []string{"", "   ", "ana:admin", "a/b", strings.Repeat("x", 65)}
	for _, w := range valid {
		if !IsValidWorkerIdentity(w) {
			t.Errorf("IsValidWorkerIdentity(%q) = false, want true", w)
		}
	}
	for _, w := range invalid {
		if IsValidWorkerIdentity(w) {
			t.Errorf("IsValidWorkerIdentity(%q) = true, want false", w)
		}
	}
}

func TestIsInRange(t *testing.T) {
	cases := []struct {
		input string
		want  int
		ok    bool
	}{
		{"1", 1, true},
		{"12", 12, true},
		{"0", 0, false},
		{"13", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
	}
	for _, c := range cases {
		got, ok := IsInRange(c.input, 1, 12)
		if got != c.want || ok != c.ok {
			t.Errorf("IsInRange(%q, 1, 12) = (%d, %v), want (%d, %v)", c.input, got, ok, c.want, c.ok)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	if !IsInSlice("a", slice) {
		t.Errorf("IsInSlice('a') = false, want true")
	}
	if IsInSlice("d", slice) {
		t.Errorf("IsInSlice('d') = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "worker", Message: "invalid"},
		{Field: "kind", Message: "required"},
	}
	got := errs.Error()
	want := "worker: invalid; kind: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "worker", Message: "invalid"},
		{Field: "kind", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"worker": "invalid", "kind": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}
