package domain

// Storage keys for the session record. Both are written together on login
// and removed together on logout.
const (
	TokenKey = "auth_token"
	UserKey  = "user_data"
)

// Scope identifies one browser's storage. Client is a long-lived device id;
// BrowserSession changes every time the browser is restarted, which is what
// makes the session-scoped area forget its contents.
type Scope struct {
	Client         string
	BrowserSession string
}

// Valid reports whether the scope can address storage at all.
func (s Scope) Valid() bool {
	return s.Client != "" && s.BrowserSession != ""
}

// AuthState is the observable state of an AuthContext.
type AuthState struct {
	User      *User
	IsLoading bool
}

// IsAuthenticated is derived: a user is present.
func (s AuthState) IsAuthenticated() bool {
	return s.User != nil
}

// RestoreOutcome describes what initialisation found in storage.
type RestoreOutcome string

const (
	RestoreAnonymous RestoreOutcome = "anonymous"
	RestoreRestored  RestoreOutcome = "restored"
	RestoreCorrupted RestoreOutcome = "corrupted"
)
