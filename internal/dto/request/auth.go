package request

// LoginRequest is the OAuth2 password-grant form of POST /auth/token.
// Shape checks on username are deliberately absent: any mismatch is
// reported as invalid credentials.
type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}
