package validator

import "testing"

type sampleRequest struct {
	Name string `validate:"required,min=2"`
	Slug string `validate:"required,slug"`
	Kind string `validate:"omitempty,oneof=info success warning error"`
}

func TestValidateStruct_Valid(t *testing.T) {
	errs := ValidateStruct(sampleRequest{Name: "Shirts", Slug: "summer-shirts", Kind: "info"})
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %+v", errs)
	}
}

func TestValidateStruct_ReportsAllViolations(t *testing.T) {
	errs := ValidateStruct(sampleRequest{Name: "x", Slug: "", Kind: "loud"})
	if len(errs) != 3 {
		t.Fatalf("expected 3 violations, got %d: %+v", len(errs), errs)
	}
}

func TestSlugRule(t *testing.T) {
	cases := []struct {
		slug  string
		valid bool
	}{
		{"shirts", true},
		{"summer-shirts", true},
		{"a1-b2-c3", true},
		{"Shirts", false},
		{"summer shirts", false},
		{"-shirts", false},
		{"shirts-", false},
		{"sh--irts", false},
	}

	for _, tc := range cases {
		errs := ValidateStruct(struct {
			Slug string `validate:"slug"`
		}{Slug: tc.slug})
		if got := len(errs) == 0; got != tc.valid {
			t.Fatalf("slug %q: expected valid=%v, got errors %+v", tc.slug, tc.valid, errs)
		}
	}
}
