package models

// Credentials carries the user-supplied login input.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`

	// Remember controls whether the session survives a restart: when true the
	// token and profile are written to the credential store on success.
	Remember bool `json:"-"`
}

// RegisterData carries the registration form input. Role is not part of the
// input: new accounts always start as RoleUser.
type RegisterData struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// AuthState is the client-side session snapshot. Exactly one AuthState exists
// per session context; it starts loading, resolves to authenticated or
// anonymous during initialization, and is reset to anonymous on logout.
//
// Invariant: IsAuthenticated is true iff both User and Token are set.
type AuthState struct {
	User            *User  `json:"user"`
	Token           string `json:"token"`
	IsAuthenticated bool   `json:"is_authenticated"`
	IsLoading       bool   `json:"is_loading"`
}

// AnonymousState returns the resolved unauthenticated state.
func AnonymousState() AuthState {
	return AuthState{}
}

// AuthenticatedState returns a resolved state for the given user and token.
func AuthenticatedState(user User, token string) AuthState {
	return AuthState{
		User:            &user,
		Token:           token,
		IsAuthenticated: true,
	}
}
