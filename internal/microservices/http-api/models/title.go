package models

import "time"

type Title struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name" gorm:"size:256;not null;index"`
	Year        int    `json:"year" gorm:"not null;index"`
	Description string `json:"description" gorm:"type:text"`
	CategoryID  *int64 `json:"-" gorm:"index"`

	// Rating is the mean review score, maintained only by the review
	// repositories inside the transaction that changed the review set.
	// "<-:false" keeps Create/Save from ever writing it.
	Rating *float64 `json:"rating" gorm:"type:double precision;<-:false"`

	CreatedAt time.Time `json:"-" gorm:"autoCreateTime"`

	// associations
	Category *Category `json:"category" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
	Genres   []Genre   `json:"genre" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE;"`
}

func (Title) TableName() string {
	return "titles"
}
