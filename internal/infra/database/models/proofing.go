package models

import (
	"time"
)

type Gallery struct {
	ID             string     `json:"id" gorm:"primaryKey;type:text"`
	Name           string     `json:"name" gorm:"type:text;not null"`
	SchoolID       string     `json:"schoolID" gorm:"type:text;index"`
	SchoolName     string     `json:"schoolName" gorm:"type:text"`
	OrganizationID string     `json:"organizationID" gorm:"type:text;index;not null"`
	PasswordHash   *string    `json:"-" gorm:"type:text"`
	Deadline       *time.Time `json:"deadline,omitempty" gorm:"type:timestamp with time zone"`
	IsArchived     bool       `json:"isArchived" gorm:"type:boolean;not null;default:false"`
	TotalImages    int        `json:"totalImages" gorm:"type:integer;not null;default:0"`
	ApprovedCount  int        `json:"approvedCount" gorm:"type:integer;not null;default:0"`
	DeniedCount    int        `json:"deniedCount" gorm:"type:integer;not null;default:0"`
	Status         string     `json:"status" gorm:"type:text;not null;default:'pending'"`
	CDate          time.Time  `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

func (Gallery) TableName() string { return "proof_galleries" }

type Proof struct {
	ID             string     `json:"id" gorm:"primaryKey;type:text"`
	GalleryID      string     `json:"galleryID" gorm:"type:text;not null;index:idx_proofs_gallery_order,priority:1"`
	Gallery        Gallery    `json:"-" gorm:"foreignKey:GalleryID;constraint:OnDelete:CASCADE;"`
	Filename       string     `json:"filename" gorm:"type:text;not null"`
	ImageURL       string     `json:"imageUrl" gorm:"type:text;not null"`
	ImageRef       string     `json:"-" gorm:"type:text;not null"`
	ThumbnailURL   string     `json:"thumbnailUrl" gorm:"type:text"`
	ThumbnailRef   string     `json:"-" gorm:"type:text"`
	DisplayOrder   int        `json:"order" gorm:"type:integer;not null;default:0;index:idx_proofs_gallery_order,priority:2"`
	Status         string     `json:"status" gorm:"type:text;not null;default:'pending'"`
	DenialNotes    *string    `json:"denialNotes,omitempty" gorm:"type:text"`
	CurrentVersion int        `json:"currentVersion" gorm:"type:integer;not null;default:1"`
	VersionCount   int        `json:"versionCount" gorm:"type:integer;not null;default:0"`
	HasVersions    bool       `json:"hasVersions" gorm:"type:boolean;not null;default:false"`
	LastRevisionID *string    `json:"lastRevisionID,omitempty" gorm:"type:text"`
	ReviewedBy     *string    `json:"reviewedBy,omitempty" gorm:"type:text"`
	ReviewedAt     *time.Time `json:"reviewedAt,omitempty" gorm:"type:timestamp with time zone"`
	CDate          time.Time  `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

func (Proof) TableName() string { return "proofs" }

type Revision struct {
	ID               string    `json:"id" gorm:"primaryKey;type:text"`
	ProofID          string    `json:"proofID" gorm:"type:text;index;not null"`
	Proof            Proof     `json:"-" gorm:"foreignKey:ProofID;constraint:OnDelete:CASCADE;"`
	GalleryID        string    `json:"galleryID" gorm:"type:text;index;not null"`
	OriginalImageURL string    `json:"originalImageUrl" gorm:"type:text;not null"`
	NewImageURL      string    `json:"newImageUrl" gorm:"type:text;not null"`
	NewImageRef      string    `json:"-" gorm:"type:text;not null"`
	NewThumbnailRef  string    `json:"-" gorm:"type:text;not null;default:''"`
	VersionNumber    int       `json:"versionNumber" gorm:"type:integer;not null"`
	PreviousVersion  int       `json:"previousVersion" gorm:"type:integer;not null"`
	DenialNotes      *string   `json:"denialNotes,omitempty" gorm:"type:text"`
	StudioNotes      string    `json:"studioNotes,omitempty" gorm:"type:text"`
	ReplacedBy       string    `json:"replacedBy" gorm:"type:text"`
	ReplacedAt       time.Time `json:"replacedAt" gorm:"type:timestamp with time zone;not null"`
	IsLatest         bool      `json:"isLatest" gorm:"type:boolean;not null;default:false;index"`
}

func (Revision) TableName() string { return "proof_revisions" }

type Activity struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	GalleryID string    `json:"galleryID" gorm:"type:text;index;not null"`
	Action    string    `json:"action" gorm:"type:text;not null"`
	ProofID   *string   `json:"proofID,omitempty" gorm:"type:text"`
	UserEmail string    `json:"userEmail" gorm:"type:text"`
	CDate     time.Time `json:"cdate" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}

func (Activity) TableName() string { return "proof_activities" }
