package models

import "time"

// SubjectColours is the palette a new subject's colour is drawn from.
var SubjectColours = []string{"#c17b2e", "#2e7bc1", "#6b4fc8", "#2ec17b", "#c12e5a", "#c18b2e"}

// Subject groups lectures and carries a display colour.
type Subject struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"not null;index" json:"user_id"`
	Name      string    `gorm:"not null;size:200" json:"name"`
	Colour    string    `gorm:"size:16;default:'#c17b2e'" json:"colour"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Subject) TableName() string { return "subjects" }
