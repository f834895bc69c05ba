package models

// Lead is a prospective customer.
type Lead struct {
	ID          uint    `gorm:"primaryKey"         json:"id"`
	LeadName    *string `gorm:"size:255;not null"  json:"lead_name"`
	LeadPhone   *string `gorm:"size:50"            json:"lead_phone"`
	LeadEmail   *string `gorm:"size:255"           json:"lead_email"`
	LeadAddress *string `gorm:"type:text"          json:"lead_address"`
	LeadNotes   *string `gorm:"type:text"          json:"lead_notes"`
}

func (Lead) TableName() string { return "leads" }

func (l Lead) SearchText() string {
	return join(l.LeadName, l.LeadPhone, l.LeadEmail, l.LeadAddress, l.LeadNotes)
}
