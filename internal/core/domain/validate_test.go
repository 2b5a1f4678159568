package domain

import (
	"errors"
	"testing"
)

func validRequest(c Category) *RawRequest {
	return &RawRequest{
		Category:        c,
		RequesterName:   "Amina",
		PhoneNumber:     "0550123456",
		Location:        Location{Wilaya: "Alger", Country: "France"},
		NeedDescription: "Insulin pens",
	}
}

func TestRawRequest_Validate(t *testing.T) {
	negative := -5.0

	testCases := []struct {
		name   string
		mutate func(r *RawRequest)
		field  string // empty = valid
	}{
		{name: "valid local medicine", mutate: func(r *RawRequest) {}},
		{name: "missing phone", mutate: func(r *RawRequest) { r.PhoneNumber = "" }, field: "phoneNumber"},
		{name: "phone without digits", mutate: func(r *RawRequest) { r.PhoneNumber = "call me" }, field: "phoneNumber"},
		{name: "missing name", mutate: func(r *RawRequest) { r.RequesterName = "" }, field: "requesterName"},
		{name: "unknown category", mutate: func(r *RawRequest) { r.Category = "cash" }, field: "category"},
		{name: "local medicine needs wilaya", mutate: func(r *RawRequest) { r.Location.Wilaya = "" }, field: "wilaya"},
		{name: "foreign medicine needs country", mutate: func(r *RawRequest) {
			r.Category = CategoryForeignMedicine
			r.Location.Country = ""
		}, field: "country"},
		{name: "foreign medicine does not need wilaya", mutate: func(r *RawRequest) {
			r.Category = CategoryForeignMedicine
			r.Location.Wilaya = ""
		}},
		{name: "transport volunteer needs no description", mutate: func(r *RawRequest) {
			r.Category = CategoryTransportVolunteer
			r.NeedDescription = ""
		}},
		{name: "material donation needs description", mutate: func(r *RawRequest) {
			r.Category = CategoryMaterialDonation
			r.NeedDescription = ""
		}, field: "needDescription"},
		{name: "negative amount", mutate: func(r *RawRequest) { r.ApproximateAmount = &negative }, field: "approximateAmount"},
		{name: "bad urgency", mutate: func(r *RawRequest) { r.UrgencyDeclared = "asap" }, field: "urgencyDeclared"},
		{name: "empty attachment", mutate: func(r *RawRequest) { r.Attachments = []AttachmentRef{" "} }, field: "attachments"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := validRequest(CategoryLocalMedicine)
			tc.mutate(r)
			r.Normalize()

			err := r.Validate()
			if tc.field == "" {
				if err != nil {
					t.Fatalf("expected valid request, got %v", err)
				}
				return
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if vErr.Field != tc.field {
				t.Errorf("field mismatch: got %s, want %s", vErr.Field, tc.field)
			}
		})
	}
}

func TestRawRequest_NormalizeDefaults(t *testing.T) {
	r := &RawRequest{PhoneNumber: "  0550 12 34 56 "}
	r.Normalize()

	if r.UrgencyDeclared != UrgencyNormal {
		t.Errorf("urgency default: got %s", r.UrgencyDeclared)
	}
	if r.FinancialCapability != FinancialNone {
		t.Errorf("financial default: got %s", r.FinancialCapability)
	}
	if r.PhoneNumber != "0550 12 34 56" {
		t.Errorf("phone not trimmed: %q", r.PhoneNumber)
	}
}

func TestCatalogFilter_Matches(t *testing.T) {
	p := &PublicProjection{
		Category:   CategoryLocalMedicine,
		Title:      "Insulin needed in Algiers",
		Summary:    "Two boxes",
		Wilaya:     "Alger",
		Area:       "Bab Ezzouar",
		IsUrgent:   false,
		Visibility: VisibilityPublished,
	}

	if !(CatalogFilter{}).Matches(p) {
		t.Error("empty filter should match a published projection")
	}
	if !(CatalogFilter{TextQuery: "INSULIN"}).Matches(p) {
		t.Error("text query should be case-insensitive")
	}
	if !(CatalogFilter{Region: "bab ezzouar"}).Matches(p) {
		t.Error("region should match area")
	}
	if (CatalogFilter{UrgentOnly: true}).Matches(p) {
		t.Error("urgent-only should exclude non-urgent")
	}
	if (CatalogFilter{Category: CategoryBloodDonor}).Matches(p) {
		t.Error("category filter should exclude other categories")
	}

	p.Visibility = VisibilityUnpublished
	if (CatalogFilter{}).Matches(p) {
		t.Error("unpublished projection must never match")
	}
}
