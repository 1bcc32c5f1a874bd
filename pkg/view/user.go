package view

import (
	"glamup.com/app/internal/modules/auth"
)

type User struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Role      string   `json:"role"`
	AvatarURL string   `json:"avatarUrl,omitempty"`
	Gender    string   `json:"gender,omitempty"`
	City      string   `json:"city,omitempty"`
	Age       int      `json:"age"`
	Budget    int      `json:"budget"`
	Interests []string `json:"interests"`
	CreatedAt string   `json:"createdAt"`
}

func UserOf(u auth.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		AvatarURL: u.AvatarURL,
		Gender:    u.Gender,
		City:      u.City,
		Age:       u.Age,
		Budget:    u.Budget,
		Interests: nonNil(u.InterestList()),
		CreatedAt: u.CreatedAt.UTC().Format(timeLayout),
	}
}

// Session is returned by register and login.
type Session struct {
	User      User   `json:"user"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

func SessionOf(r auth.Result) Session {
	return Session{User: UserOf(r.User), Token: r.Token, ExpiresAt: r.ExpiresAt.UTC().Format(timeLayout)}
}

type RegisterOptions struct {
	Genders   []string `json:"genders"`
	Cities    []string `json:"cities"`
	Interests []string `json:"interests"`
	MinAge    int      `json:"minAge"`
	MaxAge    int      `json:"maxAge"`
	MinBudget int      `json:"minBudget"`
	MaxBudget int      `json:"maxBudget"`
	Steps     int      `json:"steps"`
}

func RegisterOptionsOf() RegisterOptions {
	return RegisterOptions{
		Genders:   auth.Genders,
		Cities:    auth.Cities,
		Interests: auth.Interests,
		MinAge:    auth.MinAge,
		MaxAge:    auth.MaxAge,
		MinBudget: auth.MinBudget,
		MaxBudget: auth.MaxBudget,
		Steps:     auth.LastStep,
	}
}
