package models

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleUser       = "user"
	RoleSuperAdmin = "superAdmin"
)

type User struct {
	Id       string `json:"id" gorm:"primaryKey;size:36"`
	Username string `json:"username" gorm:"unique;not null"`
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique;not null"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password []byte `json:"-" gorm:"not null"`
	Role     string `json:"role" gorm:"not null;default:'user'"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if user.Id == "" {
		user.Id = uuid.NewString()
	}
	return
}

func (user *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	user.Password = hashedPassword
	return nil
}

func (user *User) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword(user.Password, []byte(password))
}
