package response_models

import "time"

type LoginResponse struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Nickname  string    `json:"nickname"`
	Email     string    `json:"email"`
	BirthYear *int      `json:"birthYear,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type PublicUserResponse struct {
	Nickname  string    `json:"nickname"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
