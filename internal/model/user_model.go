package model

import "time"

type User struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Username    string    `gorm:"type:varchar(255);not null"`
	UsernameKey string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	Items       []Item    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}
