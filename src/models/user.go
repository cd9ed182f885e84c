package models

import (
	"time"
)

type User struct {
	ID int `db:"id"`

	Email    string `db:"email"`
	Password string `db:"password"`

	Name     string `db:"name"`
	Username string `db:"username"`
	Bio      string `db:"bio"`

	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`

	AvatarS3Key *string `db:"avatar_s3_key"`
}

func (u *User) BestName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
