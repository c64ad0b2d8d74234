package featreq

import (
	"testing"
	"time"
)

var auditTS = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func TestAuditHeader(t *testing.T) {
	got := auditHeader(auditTS, "alice")
	want := "2026-03-14T09:26:53, alice:"
	if got != want {
		t.Errorf("auditHeader() = %q, want %q", got, want)
	}
}

func TestChangeLine(t *testing.T) {
	got := changeLine("title", "Add export button")
	want := `[Changed title to "Add export button"]`
	if got != want {
		t.Errorf("changeLine() = %q, want %q", got, want)
	}
}

func TestAppendAuditBlock(t *testing.T) {
	desc := "Original description."
	got := appendAuditBlock(desc, auditTS, "bob",
		changeLine("product area", "Billing"),
		changeLine("title", "New title"),
	)
	want := "Original description.\n\n" +
		"2026-03-14T09:26:53, bob:\n" +
		"[Changed product area to \"Billing\"]\n" +
		"[Changed title to \"New title\"]"
	if got != want {
		t.Errorf("appendAuditBlock() = %q, want %q", got, want)
	}
}

func TestAppendAuditBlock_FreeText(t *testing.T) {
	got := appendAuditBlock("Desc.", auditTS, "carol", "Customer called again about this.")
	want := "Desc.\n\n2026-03-14T09:26:53, carol:\nCustomer called again about this."
	if got != want {
		t.Errorf("appendAuditBlock() = %q, want %q", got, want)
	}
}
