package domain

// DecisionKind is the result of evaluating a guard.
type DecisionKind string

const (
	// DecisionPending means auth is still initialising. Guards never redirect
	// in this state.
	DecisionPending  DecisionKind = "pending"
	DecisionAllow    DecisionKind = "allow"
	DecisionRedirect DecisionKind = "redirect"
)

// Decision is what a guard tells the router to do with a requested view.
type Decision struct {
	Kind     DecisionKind `json:"decision"`
	Location string       `json:"location,omitempty"`
	NotFound bool         `json:"not_found,omitempty"`
}

func Allow() Decision                 { return Decision{Kind: DecisionAllow} }
func Pending() Decision               { return Decision{Kind: DecisionPending} }
func RedirectTo(path string) Decision { return Decision{Kind: DecisionRedirect, Location: path} }

// RequireAuth lets any authenticated user through once initialisation is done.
func RequireAuth(state AuthState) Decision {
	if state.IsLoading {
		return Pending()
	}
	if state.User == nil {
		return RedirectTo(PathLogin)
	}
	return Allow()
}

// RequireRole behaves like RequireAuth and additionally checks the role.
// Admin passes every role gate.
func RequireRole(state AuthState, allowed ...Role) Decision {
	d := RequireAuth(state)
	if d.Kind != DecisionAllow {
		return d
	}
	if RoleAllowed(state.User.Role, allowed) {
		return Allow()
	}
	return RedirectTo(PathUnauthorized)
}

// RoleAllowed reports whether role may enter a view gated by allowed.
func RoleAllowed(role Role, allowed []Role) bool {
	if role == RoleAdmin {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// Landing is where a user lands after signing in or visiting the home page.
func Landing(role Role) string {
	switch role {
	case RoleBuilder:
		return PathBuilderDashboard
	case RoleSubcontractor:
		return PathSubcontractor
	case RoleAdmin:
		return PathAdminDashboard
	default:
		return PathHome
	}
}

// Home decides what the public home page does: anonymous visitors see it,
// signed in users are sent to their landing view.
func Home(state AuthState) Decision {
	if state.IsLoading {
		return Pending()
	}
	if state.User == nil {
		return Allow()
	}
	return RedirectTo(Landing(state.User.Role))
}
