package entity

// SessionUser is the user snapshot kept in the HTTP session.
type SessionUser struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Scope           string `json:"scope"`
	IsEmailVerified bool   `json:"is_email_verified"`
	IsAdminUser     bool   `json:"is_admin_user"`
}

func SessionUserFrom(u *User) SessionUser {
	return SessionUser{
		ID:              u.ID().String(),
		Username:        u.Username().Value(),
		Email:           u.Email().Value(),
		Scope:           u.Scope().Value(),
		IsEmailVerified: u.IsEmailVerified(),
		IsAdminUser:     u.IsAdminUser(),
	}
}
