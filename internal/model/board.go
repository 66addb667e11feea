package model

import "time"

// Board is a kanban board. Deleting it deletes its tasks.
type Board struct {
	Idx       uint      `gorm:"column:idx;primaryKey" json:"idx"`
	Name      string    `json:"name"`
	UserIdx   uint      `gorm:"index" json:"userIdx"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Tasks     []Task    `gorm:"foreignKey:BoardIdx;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

func (Board) TableName() string { return "boards" }
