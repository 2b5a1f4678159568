package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category is the kind of aid a request is about. It never changes after submission.
type Category string

const (
	CategoryLocalMedicine      Category = "local-medicine"
	CategoryForeignMedicine    Category = "foreign-medicine"
	CategoryBloodDonor         Category = "blood-donor"
	CategoryTransportVolunteer Category = "transport-volunteer"
	CategoryMaterialDonation   Category = "material-donation"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryLocalMedicine,
	CategoryForeignMedicine,
	CategoryBloodDonor,
	CategoryTransportVolunteer,
	CategoryMaterialDonation,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// IsHelpRequest is true for categories where someone asks for help,
// as opposed to volunteer or donor sign-ups.
func (c Category) IsHelpRequest() bool {
	switch c {
	case CategoryLocalMedicine, CategoryForeignMedicine, CategoryBloodDonor:
		return true
	}
	return false
}

// FinancialCapability is what the requester declares they can pay.
type FinancialCapability string

const (
	FinancialFull         FinancialCapability = "full"
	FinancialPartial      FinancialCapability = "partial"
	FinancialNone         FinancialCapability = "none"
	FinancialDeliveryOnly FinancialCapability = "delivery-only"
)

func (f FinancialCapability) Valid() bool {
	switch f {
	case FinancialFull, FinancialPartial, FinancialNone, FinancialDeliveryOnly:
		return true
	}
	return false
}

// Urgency is the urgency declared by the requester. Admins set public
// urgency separately on the projection.
type Urgency string

const (
	UrgencyNormal    Urgency = "normal"
	UrgencyImportant Urgency = "important"
	UrgencyUrgent    Urgency = "urgent"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyNormal, UrgencyImportant, UrgencyUrgent:
		return true
	}
	return false
}

// AttachmentRef is an opaque reference (usually a URL) to an uploaded file.
// The core never opens the file.
type AttachmentRef string

// SecondaryContacts are optional extra ways to reach the requester.
type SecondaryContacts struct {
	WhatsApp string
	Telegram string
}

// Values returns the non-empty contact handles.
func (c SecondaryContacts) Values() []string {
	var out []string
	if c.WhatsApp != "" {
		out = append(out, c.WhatsApp)
	}
	if c.Telegram != "" {
		out = append(out, c.Telegram)
	}
	return out
}

// Location is where the need is, as declared by the requester.
type Location struct {
	Wilaya  string
	City    string
	Country string // foreign-medicine only
}

// RawRequest is the private, authoritative record of a submission.
type RawRequest struct {
	ID                  uuid.UUID
	Category            Category
	RequesterName       string // Private
	PhoneNumber         string // Private
	SecondaryContacts   SecondaryContacts
	Location            Location
	NeedDescription     string
	FinancialCapability FinancialCapability
	ApproximateAmount   *float64 // Nullable, never public
	UrgencyDeclared     Urgency
	VitalEmergency      bool
	Attachments         []AttachmentRef
	Status              Status
	AdminNotes          string // Internal, shown back to the requester as feedback
	RejectionReason     string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Version             int64 // Optimistic concurrency token
}

// HasAttachment reports whether ref was attached to the request.
func (r *RawRequest) HasAttachment(ref AttachmentRef) bool {
	for _, a := range r.Attachments {
		if a == ref {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so stores can hand out records without sharing slices.
func (r *RawRequest) Clone() *RawRequest {
	if r == nil {
		return nil
	}
	c := *r
	if r.ApproximateAmount != nil {
		amount := *r.ApproximateAmount
		c.ApproximateAmount = &amount
	}
	if r.Attachments != nil {
		c.Attachments = append([]AttachmentRef(nil), r.Attachments...)
	}
	return &c
}

// RequestSummary is the PII-free line admins see in review queues and alerts.
type RequestSummary struct {
	ID              uuid.UUID
	Category        Category
	Status          Status
	Wilaya          string
	Country         string
	UrgencyDeclared Urgency
	VitalEmergency  bool
	CreatedAt       time.Time
}

// Summary projects the request to its PII-free queue entry.
func (r *RawRequest) Summary() RequestSummary {
	return RequestSummary{
		ID:              r.ID,
		Category:        r.Category,
		Status:          r.Status,
		Wilaya:          r.Location.Wilaya,
		Country:         r.Location.Country,
		UrgencyDeclared: r.UrgencyDeclared,
		VitalEmergency:  r.VitalEmergency,
		CreatedAt:       r.CreatedAt,
	}
}
