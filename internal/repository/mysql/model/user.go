package model

import (
	"time"

	"github.com/inkpress/inkpress/domain"
)

type User struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Name        string    `gorm:"type:varchar(50)"`
	Username    string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	Email       string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password    string    `gorm:"type:varchar(100);not null"`
	Bio         string    `gorm:"type:varchar(160)"`
	AvatarImage string    `gorm:"type:varchar(255)"`
	UpdatedAt   time.Time `gorm:"type:datetime"`
	CreatedAt   time.Time `gorm:"type:datetime"`
}

func (User) TableName() string {
	return "user"
}

func (m *User) ToDomain() domain.User {
	return domain.User{
		ID:          m.ID,
		Name:        m.Name,
		Username:    m.Username,
		Email:       m.Email,
		Password:    m.Password,
		Bio:         m.Bio,
		AvatarImage: m.AvatarImage,
		UpdatedAt:   m.UpdatedAt,
		CreatedAt:   m.CreatedAt,
	}
}

func NewUserFromDomain(u *domain.User) *User {
	return &User{
		ID:          u.ID,
		Name:        u.Name,
		Username:    u.Username,
		Email:       u.Email,
		Password:    u.Password,
		Bio:         u.Bio,
		AvatarImage: u.AvatarImage,
		UpdatedAt:   u.UpdatedAt,
		CreatedAt:   u.CreatedAt,
	}
}
