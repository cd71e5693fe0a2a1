package validation

import "testing"

func TestRequired(t *testing.T) {
	v := Violations{}
	Required("name", "  ", v)
	Required("category", "Sedute", v)
	if v["name"] != "required" {
		t.Fatalf("expected name violation, got %v", v)
	}
	if _, ok := v["category"]; ok {
		t.Fatalf("category should pass")
	}
}

func TestNonNegativePrice(t *testing.T) {
	cases := []struct {
		in   string
		code string
	}{
		{"", "required"},
		{"abc", "not_a_number"},
		{"-1", "must_not_be_negative"},
		{"0", ""},
		{"12.50", ""},
	}
	for _, c := range cases {
		v := Violations{}
		got := NonNegativePrice("price", c.in, v)
		if c.code == "" {
			if !v.Empty() {
				t.Fatalf("%q: unexpected violation %v", c.in, v)
			}
			continue
		}
		if v["price"] != c.code {
			t.Fatalf("%q: expected %s got %v", c.in, c.code, v)
		}
		if got != 0 {
			t.Fatalf("%q: invalid input should return 0", c.in)
		}
	}
}

func TestOptionalFloat(t *testing.T) {
	if OptionalFloat("") != nil {
		t.Fatalf("empty should be nil")
	}
	if OptionalFloat("garbage") != nil {
		t.Fatalf("unparseable should coerce to nil")
	}
	f := OptionalFloat(" 2.5 ")
	if f == nil || *f != 2.5 {
		t.Fatalf("expected 2.5, got %v", f)
	}
}
