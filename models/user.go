package models

import (
	"golang.org/x/crypto/bcrypt"
)

// User is an account that can sign in. Admins may edit everything; other users may only edit
// the projects they manage.
type User struct {
	ID       uint      `json:"id" gorm:"primaryKey;not null"`
	Email    string    `json:"email" gorm:"size:128;not null;uniqueIndex:idx_user_email"`
	Pwd      string    `json:"-" gorm:"size:256;not null"`
	Name     string    `json:"name" gorm:"size:32;not null"`
	IsAdmin  bool      `json:"is_admin" gorm:"not null;default:false"`
	Projects []Project `json:"projects,omitempty" gorm:"many2many:project_managers;"`
}

func (User) Caption() string { return "User" }

func (u User) String() string { return u.Name }

func (u *User) PrimaryKey() uint { return u.ID }

// SetPassword stores a salted bcrypt hash of pwd.
func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Pwd = string(hash)
	return nil
}

// CheckPassword reports whether pwd matches the stored hash.
func (u *User) CheckPassword(pwd string) bool {
	if u == nil || u.Pwd == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Pwd), []byte(pwd)) == nil
}
