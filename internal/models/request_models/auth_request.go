package request_models

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Nickname  string `json:"nickname" binding:"required,min=2,max=20"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=10"`
	BirthYear *int   `json:"birthYear,omitempty" binding:"omitempty,min=1900,max=2100"`
}

type UpdateUserRequest struct {
	Nickname *string `json:"nickname,omitempty" binding:"omitempty,min=2,max=20"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=6"`
}

type KakaoCallbackRequest struct {
	Code string `form:"code" binding:"required"`
}
