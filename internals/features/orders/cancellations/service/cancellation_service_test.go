package service

import (
	"testing"

	"kargoku_backend/internals/constants"
)

func TestCanApproveCancellation_DefaultPolicy(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{constants.RoleOwner, true},
		{constants.RoleAdmin, true},
		{constants.RoleFinance, false},
		{constants.RoleUser, false},
		{"", false},
		{"superadmin", false},
	}
	for _, tc := range cases {
		if got := CanApproveCancellation(tc.role); got != tc.want {
			t.Errorf("CanApproveCancellation(%q) = %v, mau %v", tc.role, got, tc.want)
		}
	}
}

func TestApprovalPolicy_Injectable(t *testing.T) {
	orig := CanApproveCancellation
	defer func() { CanApproveCancellation = orig }()

	CanApproveCancellation = func(role string) bool { return role == "ops_lead" }

	if !CanApproveCancellation("ops_lead") {
		t.Fatal("policy pengganti tidak kepakai")
	}
	if CanApproveCancellation(constants.RoleAdmin) {
		t.Fatal("policy default masih aktif setelah diganti")
	}
}
