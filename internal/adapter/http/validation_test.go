package http

import (
	"errors"
	"strings"
	"testing"
)

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidator_ApplyLoan(t *testing.T) {
	v := NewValidator()

	ok := applyLoanReq{
		Amount:         5000000,
		Purpose:        "school fees",
		DurationMonths: 12,
		Guarantor1ID:   strings.Repeat("a", 32),
	}
	if err := v.Validate(&ok); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	bad := applyLoanReq{
		Amount:         0,
		DurationMonths: 7,
		Guarantor1ID:   "NOT_HEX",
		Guarantor2ID:   strings.Repeat("Z", 32),
	}
	errs := ToFieldErrors(v.Validate(&bad))
	cases := []struct{ field, msg string }{
		{"amount", "greater than 0"},
		{"purpose", "is required"},
		{"duration_months", "6, 12, 18 or 24"},
		{"guarantor1_id", "32-char lowercase hex"},
		{"guarantor2_id", "32-char lowercase hex"},
	}
	for _, c := range cases {
		if !containsFieldMsg(errs, c.field, c.msg) {
			t.Errorf("expected %s: %q in %+v", c.field, c.msg, errs)
		}
	}
}

func TestValidator_GuarantorResponse(t *testing.T) {
	v := NewValidator()
	tests := []struct {
		resp string
		ok   bool
	}{
		{"accepted", true},
		{"rejected", true},
		{"pending", false},
		{"", false},
	}
	for _, tt := range tests {
		err := v.Validate(&guarantorResponseReq{Response: tt.resp})
		if (err == nil) != tt.ok {
			t.Errorf("response %q: err = %v", tt.resp, err)
		}
	}
}

func TestValidator_RegisterMember(t *testing.T) {
	v := NewValidator()
	errs := ToFieldErrors(v.Validate(&registerMemberReq{Email: "not-an-email", OpeningBalance: -1}))
	if !containsFieldMsg(errs, "name", "is required") ||
		!containsFieldMsg(errs, "email", "valid email") ||
		!containsFieldMsg(errs, "opening_balance", "greater than or equal to 0") {
		t.Fatalf("unexpected errors: %+v", errs)
	}
}

func TestToFieldErrors_NonValidationError(t *testing.T) {
	errs := ToFieldErrors(errors.New("boom"))
	if len(errs) != 1 || errs[0].Field != "_" || errs[0].Message != "boom" {
		t.Fatalf("unexpected: %+v", errs)
	}
}
