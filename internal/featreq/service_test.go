package featreq

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"featreq/internal/models"
	"featreq/internal/testutil"
)

func TestCreateRequest_Validation(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	svc := New(database)
	ctx := context.Background()

	tests := []struct {
		name    string
		params  CreateRequestParams
		wantErr error
	}{
		{
			name:    "missing user",
			params:  CreateRequestParams{Title: "Export to CSV", Desc: "Need exports"},
			wantErr: ErrMissingField,
		},
		{
			name:    "missing title",
			params:  CreateRequestParams{User: "alice", Desc: "Need exports"},
			wantErr: ErrMissingField,
		},
		{
			name:    "missing description",
			params:  CreateRequestParams{User: "alice", Title: "Export to CSV"},
			wantErr: ErrMissingField,
		},
		{
			name:    "unknown product area",
			params:  CreateRequestParams{User: "alice", Title: "Export to CSV", Desc: "Need exports", ProdArea: "Gardening"},
			wantErr: ErrInvalidProductArea,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateRequest(ctx, tt.params)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateRequest() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Validation failures must not leave rows behind
	reqs, err := svc.ListRequests(ctx)
	if err != nil {
		t.Fatalf("ListRequests() error = %v", err)
	}
	if len(reqs) != 0 {
		t.Errorf("len(reqs) after failed creates = %d, want 0", len(reqs))
	}
}

func TestCreateRequest_SuppliedID(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	svc := New(database)
	ctx := context.Background()

	id := uuid.New()
	fr, err := svc.CreateRequest(ctx, CreateRequestParams{
		User:     "alice",
		Title:    "Export to CSV",
		Desc:     "Need exports",
		ProdArea: "Billing",
		ID:       id.String(),
	})
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}
	if fr.ID != id {
		t.Errorf("ID = %s, want %s", fr.ID, id)
	}
	if fr.ProdArea != models.AreaBilling {
		t.Errorf("ProdArea = %q, want %q", fr.ProdArea, models.AreaBilling)
	}
	if !fr.DateCr.Equal(fr.DateUp) {
		t.Errorf("DateCr = %v, DateUp = %v, want equal on create", fr.DateCr, fr.DateUp)
	}

	// Same id again is a conflict
	_, err = svc.CreateRequest(ctx, CreateRequestParams{
		User: "alice", Title: "Dup", Desc: "Dup", ProdArea: "Billing", ID: id,
	})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("CreateRequest() with duplicate id error = %v, want ErrConflict", err)
	}

	// An id that does not validate is ignored, not rejected
	fr2, err := svc.CreateRequest(ctx, CreateRequestParams{
		User: "alice", Title: "Fresh", Desc: "Fresh", ProdArea: "Billing", ID: "not-a-uuid",
	})
	if err != nil {
		t.Fatalf("CreateRequest() with malformed id error = %v", err)
	}
	if fr2.ID == uuid.Nil {
		t.Error("ID not generated for malformed supplied id")
	}
}

func TestUpdateRequest_NoArgsIsNoOp(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	svc := New(database)
	ctx := context.Background()

	fr, err := svc.CreateRequest(ctx, CreateRequestParams{
		User: "alice", Title: "Export to CSV", Desc: "Need exports", ProdArea: "Policies",
	})
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}

	// No fields at all: returns current state without requiring a user
	// and without touching the audit fields.
	got, err := svc.UpdateRequest(ctx, fr.ID, "", UpdateRequestParams{})
	if err != nil {
		t.Fatalf("UpdateRequest() error = %v", err)
	}
	if got.Desc != fr.Desc || !got.DateUp.Equal(fr.DateUp) || got.UserUp != fr.UserUp {
		t.Errorf("no-op update changed record: %+v", got)
	}
}

func TestUpdateRequest_AuditTrail(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	svc := New(database)
	ctx := context.Background()

	fr, err := svc.CreateRequest(ctx, CreateRequestParams{
		User: "alice", Title: "Old title", Desc: "Base description", ProdArea: "Policies",
	})
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}

	got, err := svc.UpdateRequest(ctx, fr.ID, "bob", UpdateRequestParams{
		NewTitle:    "New title",
		NewRefURL:   "https://tracker.example/42",
		NewProdArea: "Claims",
		DescAppend:  "Customer pinged us again.",
	})
	if err != nil {
		t.Fatalf("UpdateRequest() error = %v", err)
	}

	if got.Title != "New title" || got.RefURL != "https://tracker.example/42" || got.ProdArea != models.AreaClaims {
		t.Errorf("updated fields = (%q, %q, %q)", got.Title, got.RefURL, got.ProdArea)
	}
	if got.UserUp != "bob" {
		t.Errorf("UserUp = %q, want %q", got.UserUp, "bob")
	}

	// Change lines land in a fixed order, free text under its own header
	wantLines := []string{
		`[Changed product area to "Claims"]`,
		`[Changed reference URL to "https://tracker.example/42"]`,
		`[Changed title to "New title"]`,
		"Customer pinged us again.",
	}
	prev := 0
	for _, line := range wantLines {
		idx := strings.Index(got.Desc[prev:], line)
		if idx < 0 {
			t.Fatalf("description missing %q in order, got:\n%s", line, got.Desc)
		}
		prev += idx + len(line)
	}
	if !strings.HasPrefix(got.Desc, "Base description") {
		t.Errorf("description lost its original text:\n%s", got.Desc)
	}

	// A user is required as soon as anything changes
	if _, err := svc.UpdateRequest(ctx, fr.ID, "", UpdateRequestParams{NewTitle: "Another"}); !errors.Is(err, ErrMissingField) {
		t.Errorf("UpdateRequest() without user error = %v, want ErrMissingField", err)
	}
}

func TestAttach_DisplacementScenario(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	svc := New(database)
	ctx := context.Background()

	acme, err := svc.CreateClient(ctx, "Acme Corp", "", "", nil)
	if err != nil {
		t.Fatalf("CreateClient() error = %v", err)
	}
	first, err := svc.CreateRequest(ctx, CreateRequestParams{User: "alice", Title: "First", Desc: "d", ProdArea: "Policies"})
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}
	second, err := svc.CreateRequest(ctx, CreateRequestParams{User: "alice", Title: "Second", Desc: "d", ProdArea: "Policies"})
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}

	// String refs resolve the same as typed ones
	if _, err := svc.Attach(ctx, "alice", acme.ID.String(), first.ID.String(), 1, nil); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if _, err := svc.Attach(ctx, "alice", acme, second, 1, nil); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	entries, err := svc.ListOpenForClient(ctx, acme)
	if err != nil {
		t.Fatalf("ListOpenForClient() error = %v", err)
	}
	got := map[uuid.UUID]int16{}
	for _, e := range entries {
		if e.Priority != nil {
			got[e.ReqID] = *e.Priority
		}
	}
	if got[second.ID] != 1 || got[first.ID] != 2 {
		t.Errorf("priorities = %v, want second:1 first:2", got)
	}
}

func TestAttach_PriorityBounds(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	svc := New(database)
	ctx := context.Background()

	acme, err := svc.CreateClient(ctx, "Acme Corp", "", "", nil)
	if err != nil {
		t.Fatalf("CreateClient() error = %v", err)
	}
	fr, err := svc.CreateRequest(ctx, CreateRequestParams{User: "alice", Title: "T", Desc: "d", ProdArea: "Policies"})
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}

	if _, err := svc.Attach(ctx, "alice", acme, fr, models.PrioritySentinel, nil); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("Attach() at sentinel error = %v, want ErrInvalidPriority", err)
	}
	if _, err := svc.Attach(ctx, "alice", acme, fr, -1, nil); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("Attach() at -1 error = %v, want ErrInvalidPriority", err)
	}

	// Zero means unranked
	entry, err := svc.Attach(ctx, "alice", acme, fr, 0, nil)
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if entry.Priority != nil {
		t.Errorf("Priority = %d, want null for 0", *entry.Priority)
	}
}

func TestAttach_TargetDate(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	svc := New(database)
	ctx := context.Background()

	acme, err := svc.CreateClient(ctx, "Acme Corp", "", "", nil)
	if err != nil {
		t.Fatalf("CreateClient() error = %v", err)
	}
	fr, err := svc.CreateRequest(ctx, CreateRequestParams{User: "alice", Title: "T", Desc: "d", ProdArea: "Policies"})
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}

	if _, err := svc.Attach(ctx, "alice", acme, fr, 0, "2000-01-01"); !errors.Is(err, ErrInvalidTargetDate) {
		t.Errorf("Attach() with past date error = %v, want ErrInvalidTargetDate", err)
	}
	if _, err := svc.Attach(ctx, "alice", acme, fr, 0, 42); !errors.Is(err, ErrInvalidType) {
		t.Errorf("Attach() with int date error = %v, want ErrInvalidType", err)
	}

	entry, err := svc.Attach(ctx, "alice", acme, fr, 0, "2099-06-01")
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	want := time.Date(2099, 6, 1, 0, 0, 0, 0, time.UTC)
	if entry.DateTgt == nil || !entry.DateTgt.Equal(want) {
		t.Errorf("DateTgt = %v, want %v", entry.DateTgt, want)
	}
}

func TestClose_Scenario(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	svc := New(database)
	ctx := context.Background()

	acme, err := svc.CreateClient(ctx, "Acme Corp", "", "", nil)
	if err != nil {
		t.Fatalf("CreateClient() error = %v", err)
	}
	fr, err := svc.CreateRequest(ctx, CreateRequestParams{User: "alice", Title: "T", Desc: "d", ProdArea: "Policies"})
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}
	if _, err := svc.Attach(ctx, "alice", acme, fr, 5, nil); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	if _, err := svc.Close(ctx, "boss", fr, "OnHold", "Won't fix", acme); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Close() with bad status error = %v, want ErrInvalidStatus", err)
	}
	if _, err := svc.Close(ctx, "boss", fr, "Rejected", "", acme); !errors.Is(err, ErrInvalidReason) {
		t.Errorf("Close() without reason error = %v, want ErrInvalidReason", err)
	}
	if _, err := svc.Close(ctx, "", fr, "Rejected", "Won't fix", acme); !errors.Is(err, ErrMissingField) {
		t.Errorf("Close() without user error = %v, want ErrMissingField", err)
	}

	n, err := svc.Close(ctx, "boss", fr, "Rejected", "Won't fix", acme)
	if err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("Close() = %d, want 1", n)
	}

	closed, err := svc.ListClosedForClient(ctx, acme)
	if err != nil {
		t.Fatalf("ListClosedForClient() error = %v", err)
	}
	if len(closed) != 1 {
		t.Fatalf("len(closed) = %d, want 1", len(closed))
	}
	got := closed[0]
	if got.Status != models.StatusRejected {
		t.Errorf("Status = %q, want %q", got.Status, models.StatusRejected)
	}
	if got.Reason != "Won't fix" {
		t.Errorf("Reason = %q, want %q", got.Reason, "Won't fix")
	}
	if got.Priority == nil || *got.Priority != 5 {
		t.Errorf("archived Priority = %v, want 5", got.Priority)
	}

	if n, err := svc.CountOpenForClient(ctx, acme); err != nil || n != 0 {
		t.Errorf("CountOpenForClient() = (%d, %v), want (0, nil)", n, err)
	}

	// Closing again finds nothing
	if _, err := svc.Close(ctx, "boss", fr, "Rejected", "Won't fix", acme); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Close() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateClient_TriStateContacts(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	svc := New(database)
	ctx := context.Background()

	cl, err := svc.CreateClient(ctx, "Acme Corp", "Jo Smith", "jo@acme.example", nil)
	if err != nil {
		t.Fatalf("CreateClient() error = %v", err)
	}

	// Unset fields are left alone
	got, err := svc.UpdateClient(ctx, cl, "Acme Holdings", models.Unset[string](), models.Unset[string]())
	if err != nil {
		t.Fatalf("UpdateClient() error = %v", err)
	}
	if got.Name != "Acme Holdings" || got.ConName != "Jo Smith" || got.ConMail != "jo@acme.example" {
		t.Errorf("after rename: %+v", got)
	}

	// Null clears, Some replaces
	got, err = svc.UpdateClient(ctx, cl, "", models.Null[string](), models.Some("ops@acme.example"))
	if err != nil {
		t.Fatalf("UpdateClient() error = %v", err)
	}
	if got.ConName != "" {
		t.Errorf("ConName = %q, want cleared", got.ConName)
	}
	if got.ConMail != "ops@acme.example" {
		t.Errorf("ConMail = %q, want replaced", got.ConMail)
	}
	if got.Name != "Acme Holdings" {
		t.Errorf("Name = %q, want unchanged", got.Name)
	}
}

func TestUpdatePriorityOrDate_ByKey(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	svc := New(database)
	ctx := context.Background()

	acme, err := svc.CreateClient(ctx, "Acme Corp", "", "", nil)
	if err != nil {
		t.Fatalf("CreateClient() error = %v", err)
	}
	fr, err := svc.CreateRequest(ctx, CreateRequestParams{User: "alice", Title: "T", Desc: "d", ProdArea: "Policies"})
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}
	if _, err := svc.Attach(ctx, "alice", acme, fr, 3, nil); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	key := OpenReqKey{ReqID: fr.ID, ClientID: acme.ID}

	updated, err := svc.UpdatePriorityOrDate(ctx, key, models.Some(1), models.Unset[any]())
	if err != nil {
		t.Fatalf("UpdatePriorityOrDate() error = %v", err)
	}
	if updated.Priority == nil || *updated.Priority != 1 {
		t.Errorf("Priority = %v, want 1", updated.Priority)
	}

	// Zero clears the rank, same as Null
	updated, err = svc.UpdatePriorityOrDate(ctx, key, models.Some(0), models.Unset[any]())
	if err != nil {
		t.Fatalf("UpdatePriorityOrDate() error = %v", err)
	}
	if updated.Priority != nil {
		t.Errorf("Priority = %d, want null for 0", *updated.Priority)
	}

	if _, err := svc.UpdatePriorityOrDate(ctx, key, models.Some(models.PrioritySentinel), models.Unset[any]()); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("UpdatePriorityOrDate() at sentinel error = %v, want ErrInvalidPriority", err)
	}
}

func TestShiftPriorities_ServiceGuards(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	svc := New(database)
	ctx := context.Background()

	acme, err := svc.CreateClient(ctx, "Acme Corp", "", "", nil)
	if err != nil {
		t.Fatalf("CreateClient() error = %v", err)
	}

	// Non-positive rank is a no-op, not an error
	shifted, err := svc.ShiftPriorities(ctx, acme, 0)
	if err != nil {
		t.Fatalf("ShiftPriorities(0) error = %v", err)
	}
	if shifted {
		t.Error("ShiftPriorities(0) = true, want false")
	}

	if _, err := svc.ShiftPriorities(ctx, acme, models.PrioritySentinel+1); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("ShiftPriorities(too large) error = %v, want ErrInvalidPriority", err)
	}
}

func TestOpenNewRequest(t *testing.T) {
	database, cleanup := testutil.TestDB(t)
	defer cleanup()
	svc := New(database)
	ctx := context.Background()

	acme, err := svc.CreateClient(ctx, "Acme Corp", "", "", nil)
	if err != nil {
		t.Fatalf("CreateClient() error = %v", err)
	}

	fr, entry, err := svc.OpenNewRequest(ctx, acme, 1, nil, CreateRequestParams{
		User: "alice", Title: "Bundled", Desc: "Create and attach", ProdArea: "Reports",
	})
	if err != nil {
		t.Fatalf("OpenNewRequest() error = %v", err)
	}
	if entry.ReqID != fr.ID || entry.ClientID != acme.ID {
		t.Errorf("entry refs = (%s, %s), want (%s, %s)", entry.ReqID, entry.ClientID, fr.ID, acme.ID)
	}
	if entry.Priority == nil || *entry.Priority != 1 {
		t.Errorf("Priority = %v, want 1", entry.Priority)
	}
}
