package models

import (
	"time"
)

// Contact represents a person associated with exactly one account
type Contact struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	AccountID string    `bson:"account_id" json:"account_id"`
	Name      string    `bson:"name" json:"name"`
	RoleTitle string    `bson:"role_title,omitempty" json:"role_title,omitempty"`
	Department string   `bson:"department,omitempty" json:"department,omitempty"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Seniority string    `bson:"seniority,omitempty" json:"seniority,omitempty"`
	Status    Status    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ContactInput is the create/replace payload for a contact
type ContactInput struct {
	AccountID  string `json:"account_id"`
	Name       string `json:"name"`
	RoleTitle  string `json:"role_title,omitempty"`
	Department string `json:"department,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Seniority  string `json:"seniority,omitempty"`
	Status     Status `json:"status,omitempty"`
}

// Validate checks required fields and enum membership, applying the NEW
// default when status is absent.
func (in *ContactInput) Validate() error {
	if in.AccountID == "" {
		return missingField("account_id")
	}
	if in.Name == "" {
		return missingField("name")
	}
	if in.Status == "" {
		in.Status = StatusNew
	}
	if !in.Status.Valid() {
		return invalidEnum("status", string(in.Status))
	}
	return nil
}

// Apply overwrites every input-shaped field of the contact
func (in *ContactInput) Apply(c *Contact) {
	c.AccountID = in.AccountID
	c.Name = in.Name
	c.RoleTitle = in.RoleTitle
	c.Department = in.Department
	c.Email = in.Email
	c.Phone = in.Phone
	c.Seniority = in.Seniority
	c.Status = in.Status
}
