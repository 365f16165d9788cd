package service

import (
	"testing"

	model "kargoku_backend/internals/features/finance/invoices/model"
	"kargoku_backend/internals/shared/apperr"
)

func TestGuardInvoiceAction(t *testing.T) {
	cases := []struct {
		current string
		action  string
		ok      bool
	}{
		// generate
		{model.InvoiceStatusDraft, ActionGenerate, true},
		{model.InvoiceStatusRevertedToDraft, ActionGenerate, true},
		{model.InvoiceStatusGenerated, ActionGenerate, false},
		{model.InvoiceStatusSubmitted, ActionGenerate, false},
		{model.InvoiceStatusPaid, ActionGenerate, false},

		// submit
		{model.InvoiceStatusGenerated, ActionSubmit, true},
		{model.InvoiceStatusDraft, ActionSubmit, false},
		{model.InvoiceStatusSubmitted, ActionSubmit, false},
		{model.InvoiceStatusUnpaid, ActionSubmit, false},

		// revert_to_draft
		{model.InvoiceStatusSubmitted, ActionRevertToDraft, true},
		{model.InvoiceStatusGenerated, ActionRevertToDraft, false},
		{model.InvoiceStatusDraft, ActionRevertToDraft, false},
		{model.InvoiceStatusPaid, ActionRevertToDraft, false},

		// update_unpaid
		{model.InvoiceStatusGenerated, ActionUpdateUnpaid, true},
		{model.InvoiceStatusSubmitted, ActionUpdateUnpaid, true},
		{model.InvoiceStatusUnpaid, ActionUpdateUnpaid, true},
		{model.InvoiceStatusDraft, ActionUpdateUnpaid, false},
		{model.InvoiceStatusPaid, ActionUpdateUnpaid, false},
	}
	for _, tc := range cases {
		err := GuardInvoiceAction(tc.current, tc.action)
		if tc.ok && err != nil {
			t.Errorf("Guard(%s, %s): harusnya boleh, dapat %v", tc.current, tc.action, err)
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("Guard(%s, %s): harusnya ditolak", tc.current, tc.action)
			} else if !apperr.IsKind(err, apperr.Conflict) {
				t.Errorf("Guard(%s, %s): kind = %v, mau Conflict", tc.current, tc.action, err)
			}
		}
	}
}

func TestGuardInvoiceAction_UnknownAction(t *testing.T) {
	err := GuardInvoiceAction(model.InvoiceStatusDraft, "archive")
	if err == nil {
		t.Fatal("aksi tak dikenal harus ditolak")
	}
	if !apperr.IsKind(err, apperr.Invalid) {
		t.Fatalf("kind = %v, mau Invalid", err)
	}
}

func TestCancellationTarget(t *testing.T) {
	cases := []struct {
		current       string
		hadSettlement bool
		wantTarget    string
		wantChange    bool
	}{
		// belum ada uang masuk → mundur ke draft
		{model.InvoiceStatusGenerated, false, model.InvoiceStatusDraft, true},
		{model.InvoiceStatusSubmitted, false, model.InvoiceStatusDraft, true},

		// sempat ada settlement → unpaid, jejak finansial tidak dihapus
		{model.InvoiceStatusGenerated, true, model.InvoiceStatusUnpaid, true},
		{model.InvoiceStatusSubmitted, true, model.InvoiceStatusUnpaid, true},

		// status lain tidak disentuh rollback
		{model.InvoiceStatusDraft, false, "", false},
		{model.InvoiceStatusRevertedToDraft, false, "", false},
		{model.InvoiceStatusPaid, true, "", false},
		{model.InvoiceStatusUnpaid, true, "", false},
	}
	for _, tc := range cases {
		target, changed := cancellationTarget(tc.current, tc.hadSettlement)
		if target != tc.wantTarget || changed != tc.wantChange {
			t.Errorf("cancellationTarget(%s, settled=%v) = (%q,%v), mau (%q,%v)",
				tc.current, tc.hadSettlement, target, changed, tc.wantTarget, tc.wantChange)
		}
	}
}
