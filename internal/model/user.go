package model

import "time"

// User owns boards. Password holds the bcrypt hash and never leaves the server.
type User struct {
	Idx       uint      `gorm:"column:idx;primaryKey" json:"idx"`
	Nickname  string    `gorm:"uniqueIndex" json:"nickname"`
	Email     string    `gorm:"uniqueIndex" json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Boards    []Board   `gorm:"foreignKey:UserIdx" json:"-"`
}

func (User) TableName() string { return "users" }
