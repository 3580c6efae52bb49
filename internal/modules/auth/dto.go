package auth

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type VerifyPlateRequest struct {
	Plate string `json:"plate" binding:"required"`
}

type LoginResponse struct {
	Token string            `json:"token"`
	User  map[string]string `json:"user,omitempty"`
	Admin map[string]string `json:"admin,omitempty"`
}

type VerifyPlateResponse struct {
	Registered bool `json:"registered"`
}
