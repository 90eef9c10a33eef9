package user

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,max=25"`
	LastName  string `json:"lastName" validate:"required,max=25"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"idToken"`
}

// AuthResponse is what the auth endpoints hand back: the public profile
// plus a freshly minted bearer token.
type AuthResponse struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar,omitempty"`
	Token     string `json:"token"`
}
