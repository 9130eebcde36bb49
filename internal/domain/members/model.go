package members

import (
	"time"

	"gorm.io/datatypes"

	"tour-backoffice/internal/domain/users"
)

// Document is the metadata of a file already placed in object storage.
type Document struct {
	OriginalName string `json:"originalName" binding:"required,max=255"`
	URL          string `json:"url" binding:"required,url,max=2048"`
	Mimetype     string `json:"mimetype" binding:"required,max=127"`
	Size         int64  `json:"size" binding:"gte=0"`
}

type Member struct {
	ID       string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name     string `gorm:"not null;index" json:"name"`
	MobileNo string `gorm:"column:mobile_no;index" json:"mobileNo"`
	Address  string `json:"address"`

	Documents datatypes.JSONSlice[Document] `gorm:"type:jsonb;not null;default:'[]'" json:"documents"`
	Extra     datatypes.JSONMap             `gorm:"type:jsonb;not null;default:'{}'" json:"extra"`

	// Login account of the member, when one exists.
	UserID *string     `gorm:"type:uuid;index" json:"userId,omitempty"`
	User   *users.User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	CreatedByID string      `gorm:"type:uuid;not null;index" json:"createdById"`
	CreatedBy   *users.User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT;" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
