package services

import (
	"AidDesk/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

// RequesterView is what a requester sees of their own submission.
type RequesterView struct {
	ID                  uuid.UUID
	Category            domain.Category
	Status              domain.Status
	RequesterName       string
	PhoneNumber         string
	SecondaryContacts   domain.SecondaryContacts
	Location            domain.Location
	NeedDescription     string
	FinancialCapability domain.FinancialCapability
	ApproximateAmount   *float64
	UrgencyDeclared     domain.Urgency
	VitalEmergency      bool
	Attachments         []domain.AttachmentRef
	RejectionReason     string
	Feedback            string // Admin notes, shown back to the requester
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func newRequesterView(r *domain.RawRequest) RequesterView {
	return RequesterView{
		ID:                  r.ID,
		Category:            r.Category,
		Status:              r.Status,
		RequesterName:       r.RequesterName,
		PhoneNumber:         r.PhoneNumber,
		SecondaryContacts:   r.SecondaryContacts,
		Location:            r.Location,
		NeedDescription:     r.NeedDescription,
		FinancialCapability: r.FinancialCapability,
		ApproximateAmount:   r.ApproximateAmount,
		UrgencyDeclared:     r.UrgencyDeclared,
		VitalEmergency:      r.VitalEmergency,
		Attachments:         r.Attachments,
		RejectionReason:     r.RejectionReason,
		Feedback:            r.AdminNotes,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

// PublicView is the catalog entry. It is built from a projection only.
type PublicView struct {
	ID          uuid.UUID
	Category    domain.Category
	PostedOn    time.Time
	Title       string
	Summary     string
	Description string
	Wilaya      string
	Area        string
	Gallery     []domain.GalleryEntry
	IsUrgent    bool
}

func newPublicView(p *domain.PublicProjection) PublicView {
	return PublicView{
		ID:          p.SourceID,
		Category:    p.Category,
		PostedOn:    p.PostedOn,
		Title:       p.Title,
		Summary:     p.Summary,
		Description: p.Description,
		Wilaya:      p.Wilaya,
		Area:        p.Area,
		Gallery:     p.Gallery,
		IsUrgent:    p.IsUrgent,
	}
}
