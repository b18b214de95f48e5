package domain

import "strings"

// View paths known to the SPA.
const (
	PathHome                 = "/"
	PathLogin                = "/login"
	PathSignup               = "/signup"
	PathUnauthorized         = "/unauthorized"
	PathRoleSelection        = "/role-selection"
	PathUpload               = "/upload"
	PathBuilder              = "/builder"
	PathBuilderDashboard     = "/builder-dashboard"
	PathBuilderSearch        = "/builder-search"
	PathRFQ                  = "/rfq"
	PathSubcontractor        = "/subcontractor"
	PathProcessing           = "/processing"
	PathSubcontractorResults = "/subcontractor-results"
	PathAdminDashboard       = "/admin-dashboard"
)

// Access describes how a route is gated.
type Access int

const (
	AccessPublic Access = iota
	AccessAuthenticated
	AccessRoles
)

// Route is one entry of the URL-to-view table.
type Route struct {
	Path   string
	View   string
	Access Access
	Roles  []Role
}

// Routes is the application's route table. Order does not matter; paths are
// matched exactly after normalisation.
var Routes = []Route{
	{Path: PathHome, View: "Homepage", Access: AccessPublic},
	{Path: PathLogin, View: "Login", Access: AccessPublic},
	{Path: PathSignup, View: "Signup", Access: AccessPublic},
	{Path: PathUnauthorized, View: "Unauthorized", Access: AccessPublic},
	{Path: PathRoleSelection, View: "RoleSelection", Access: AccessAuthenticated},
	{Path: PathUpload, View: "Uploads", Access: AccessRoles, Roles: []Role{RoleBuilder}},
	{Path: PathBuilder, View: "Builder", Access: AccessRoles, Roles: []Role{RoleBuilder}},
	{Path: PathBuilderDashboard, View: "BuilderDashboard", Access: AccessRoles, Roles: []Role{RoleBuilder}},
	{Path: PathBuilderSearch, View: "BuilderSearchSubs", Access: AccessRoles, Roles: []Role{RoleBuilder}},
	{Path: PathRFQ, View: "RequestForQuote", Access: AccessRoles, Roles: []Role{RoleBuilder}},
	{Path: PathSubcontractor, View: "Subcontractor", Access: AccessRoles, Roles: []Role{RoleSubcontractor}},
	{Path: PathProcessing, View: "Processing", Access: AccessRoles, Roles: []Role{RoleSubcontractor}},
	{Path: PathSubcontractorResults, View: "SubcontractorResults", Access: AccessRoles, Roles: []Role{RoleSubcontractor}},
	{Path: PathAdminDashboard, View: "AdminDashboard", Access: AccessRoles, Roles: []Role{RoleAdmin}},
}

// Lookup finds the route for path, ignoring a trailing slash and query.
func Lookup(path string) (Route, bool) {
	p := normalizePath(path)
	for _, r := range Routes {
		if r.Path == p {
			return r, true
		}
	}
	return Route{}, false
}

// Resolve applies the guard of the route registered for requestedPath.
// Unknown paths resolve to the not-found view.
func Resolve(state AuthState, requestedPath string) Decision {
	r, ok := Lookup(requestedPath)
	if !ok {
		return Decision{Kind: DecisionAllow, NotFound: true}
	}
	switch r.Access {
	case AccessAuthenticated:
		return RequireAuth(state)
	case AccessRoles:
		return RequireRole(state, r.Roles...)
	default:
		if r.Path == PathHome {
			return Home(state)
		}
		return Allow()
	}
}

func normalizePath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return PathHome
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = PathHome
		}
	}
	return path
}
