package response

import "github.com/inkpress/inkpress/domain"

type User struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	Bio         string `json:"bio,omitempty"`
	AvatarImage string `json:"avatar_image,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func NewUserFromDomain(u *domain.User) User {
	return User{
		ID:          u.ID,
		Name:        u.Name,
		Username:    u.Username,
		Email:       u.Email,
		Bio:         u.Bio,
		AvatarImage: u.AvatarImage,
		CreatedAt:   u.CreatedAt.Format(timeLayout),
	}
}

type Token struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
