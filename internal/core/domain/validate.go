package domain

import "strings"

// requiredFields lists, per category, which optional fields become mandatory.
var requiredFields = map[Category]struct {
	wilaya, country, description bool
}{
	CategoryLocalMedicine:      {wilaya: true, description: true},
	CategoryForeignMedicine:    {country: true, description: true},
	CategoryBloodDonor:         {wilaya: true, description: true},
	CategoryTransportVolunteer: {wilaya: true},
	CategoryMaterialDonation:   {description: true},
}

// Normalize fills enum defaults and trims free-text fields in place.
func (r *RawRequest) Normalize() {
	r.RequesterName = strings.TrimSpace(r.RequesterName)
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	r.SecondaryContacts.WhatsApp = strings.TrimSpace(r.SecondaryContacts.WhatsApp)
	r.SecondaryContacts.Telegram = strings.TrimSpace(r.SecondaryContacts.Telegram)
	r.Location.Wilaya = strings.TrimSpace(r.Location.Wilaya)
	r.Location.City = strings.TrimSpace(r.Location.City)
	r.Location.Country = strings.TrimSpace(r.Location.Country)
	r.NeedDescription = strings.TrimSpace(r.NeedDescription)

	if r.UrgencyDeclared == "" {
		r.UrgencyDeclared = UrgencyNormal
	}
	if r.FinancialCapability == "" {
		r.FinancialCapability = FinancialNone
	}
}

// Validate checks the submission invariants. It returns the first
// *ValidationError found.
func (r *RawRequest) Validate() error {
	if !r.Category.Valid() {
		return NewValidationError("category", "unknown category")
	}
	if r.PhoneNumber == "" {
		return NewValidationError("phoneNumber", "required")
	}
	if !strings.ContainsAny(r.PhoneNumber, "0123456789") {
		return NewValidationError("phoneNumber", "must contain digits")
	}
	if r.RequesterName == "" {
		return NewValidationError("requesterName", "required")
	}

	req := requiredFields[r.Category]
	if req.wilaya && r.Location.Wilaya == "" {
		return NewValidationError("wilaya", "required for "+string(r.Category))
	}
	if req.country && r.Location.Country == "" {
		return NewValidationError("country", "required for "+string(r.Category))
	}
	if req.description && r.NeedDescription == "" {
		return NewValidationError("needDescription", "required for "+string(r.Category))
	}

	if !r.UrgencyDeclared.Valid() {
		return NewValidationError("urgencyDeclared", "unknown urgency")
	}
	if !r.FinancialCapability.Valid() {
		return NewValidationError("financialCapability", "unknown value")
	}
	if r.ApproximateAmount != nil && *r.ApproximateAmount < 0 {
		return NewValidationError("approximateAmount", "must not be negative")
	}
	for _, a := range r.Attachments {
		if strings.TrimSpace(string(a)) == "" {
			return NewValidationError("attachments", "empty reference")
		}
	}
	return nil
}
