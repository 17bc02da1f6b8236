package models

import (
	"time"

	"gorm.io/gorm"
)

// ServiceRequest is a repair ticket raised from the contact form.
type ServiceRequest struct {
	ID            string    `gorm:"primaryKey;size:26" json:"id"`
	UserID        string    `gorm:"size:26;index" json:"user,omitempty"` // Empty when raised anonymously
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	DeviceType    string    `json:"deviceType"`
	MobileBrand   string    `json:"mobileBrand"`
	MobileModel   string    `json:"mobileModel"`
	IssueType     string    `json:"issueType"`
	Message       string    `gorm:"type:text" json:"message"`
	PreferredDate string    `json:"preferredDate"`
	PreferredTime string    `json:"preferredTime"`
	Status        Status    `gorm:"size:20;default:Placed;index" json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (s *ServiceRequest) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = NewID()
	}
	return nil
}

// AfterFind rewrites legacy status values on load.
func (s *ServiceRequest) AfterFind(tx *gorm.DB) error {
	s.Status = NormalizeStatus(string(s.Status))
	return nil
}

func (s ServiceRequest) ShortRef() string {
	return ShortRef(s.ID)
}
