package models

import (
	"time"

	"childguard/backend/internal/fieldcrypto"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Case is a submitted incident report tracked through its handling
// lifecycle. Identity-bearing fields (Description, ChildName, AbuserName)
// are encrypted at rest through the fieldcrypto hooks below; everything
// else is stored in clear.
type Case struct {
	ID    string `gorm:"primaryKey" json:"id"`
	Title string `json:"title,omitempty"`

	// Confidential content
	Description string `gorm:"not null" json:"description"`
	ChildName   string `json:"childName,omitempty"`
	AbuserName  string `json:"abuserName,omitempty"`

	IsAnonymous bool   `gorm:"default:false" json:"isAnonymous"`
	CreatedByID string `gorm:"type:uuid;not null;index" json:"createdBy"`
	UnitID      string `gorm:"type:uuid;index" json:"unitId"`
	Program     string `json:"program,omitempty"`

	IncidentType IncidentType `gorm:"type:text" json:"incidentType"`
	UrgencyLevel UrgencyLevel `gorm:"type:text;default:'MOYEN'" json:"urgencyLevel"`

	// Lifecycle
	Status CaseStatus `gorm:"type:text;default:'PENDING';index" json:"status"`

	Classification Classification `gorm:"type:text" json:"classification,omitempty"`
	ClassifiedByID string         `gorm:"type:uuid" json:"classifiedBy,omitempty"`
	ClassifiedAt   *time.Time     `json:"classifiedAt,omitempty"`

	AssignedToID string     `gorm:"type:uuid;index" json:"assignedTo,omitempty"`
	AssignedAt   *time.Time `json:"assignedAt,omitempty"`

	EscalationStatus EscalationStatus `gorm:"type:text;default:'NONE'" json:"escalationStatus"`
	EscalatedTo      EscalationTarget `gorm:"type:text" json:"escalatedTo,omitempty"`
	EscalatedByID    string           `gorm:"type:uuid" json:"escalatedBy,omitempty"`
	EscalatedAt      *time.Time       `json:"escalatedAt,omitempty"`

	// Safeguard ownership taken by a level-2 actor
	SauvegardedAt *time.Time `json:"sauvegardedAt,omitempty"`
	DeadlineAt    *time.Time `json:"deadlineAt,omitempty"`

	ClosedByID    string     `gorm:"type:uuid" json:"closedBy,omitempty"`
	ClosedAt      *time.Time `json:"closedAt,omitempty"`
	ClosureReason string     `json:"closureReason,omitempty"`

	IsArchived   bool       `gorm:"default:false;index" json:"isArchived"`
	ArchivedByID string     `gorm:"type:uuid" json:"archivedBy,omitempty"`
	ArchivedAt   *time.Time `json:"archivedAt,omitempty"`

	// Heuristic suspicion scoring at creation time
	SuspicionScore int      `gorm:"default:0" json:"suspicionScore"`
	AIFlags        []AIFlag `gorm:"foreignKey:CaseID" json:"aiFlags,omitempty"`

	Attachments []Attachment `gorm:"foreignKey:CaseID" json:"attachments,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AIFlag is one automated observation attached to a case at creation.
type AIFlag struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	CaseID     string    `gorm:"type:uuid;not null;index" json:"-"`
	Flag       string    `gorm:"not null" json:"flag"`
	Confidence int       `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// Attachment is file metadata supplied by the upload collaborator. The core
// stores the metadata array only and never inspects file content.
type Attachment struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	CaseID       string    `gorm:"type:uuid;not null;index" json:"-"`
	StoredName   string    `gorm:"not null" json:"storedName"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	Path         string    `json:"path"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// BeforeCreate generates a new UUID for the case if the ID is not set.
func (c *Case) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// BeforeSave encrypts the confidential fields so they never reach the
// database in clear.
func (c *Case) BeforeSave(tx *gorm.DB) (err error) {
	c.Description = fieldcrypto.Encrypt(c.Description)
	c.ChildName = fieldcrypto.Encrypt(c.ChildName)
	c.AbuserName = fieldcrypto.Encrypt(c.AbuserName)
	return
}

// AfterSave restores the in-memory values to plaintext so callers keep
// working with what they wrote.
func (c *Case) AfterSave(tx *gorm.DB) (err error) {
	c.decryptFields()
	return
}

// AfterFind decrypts the confidential fields on every read path.
func (c *Case) AfterFind(tx *gorm.DB) (err error) {
	c.decryptFields()
	return
}

func (c *Case) decryptFields() {
	c.Description = fieldcrypto.Decrypt(c.Description)
	c.ChildName = fieldcrypto.Decrypt(c.ChildName)
	c.AbuserName = fieldcrypto.Decrypt(c.AbuserName)
}

// Validate checks the cross-field invariants that must hold after any
// mutation, whether it came from a dedicated operation or a free patch.
func (c *Case) Validate() error {
	if c.Status != "" && !c.Status.Valid() {
		return errInvalidEnum("status", string(c.Status))
	}
	if c.UrgencyLevel != "" && !c.UrgencyLevel.Valid() {
		return errInvalidEnum("urgencyLevel", string(c.UrgencyLevel))
	}
	if c.IncidentType != "" && !c.IncidentType.Valid() {
		return errInvalidEnum("incidentType", string(c.IncidentType))
	}
	if c.Classification != "" && !c.Classification.Valid() {
		return errInvalidEnum("classification", string(c.Classification))
	}
	if c.EscalationStatus != "" && !c.EscalationStatus.Valid() {
		return errInvalidEnum("escalationStatus", string(c.EscalationStatus))
	}
	if c.EscalatedTo != "" && !c.EscalatedTo.Valid() {
		return errInvalidEnum("escalatedTo", string(c.EscalatedTo))
	}
	if c.IsArchived && c.Status != StatusClosed {
		return errInvariant("isArchived requires status CLOSED")
	}
	if c.Classification != "" && c.Status == StatusPending {
		return errInvariant("classification requires status beyond PENDING")
	}
	if c.EscalatedTo != "" && c.EscalationStatus != EscalationEscalated {
		return errInvariant("escalatedTo requires escalationStatus ESCALATED")
	}
	return nil
}
