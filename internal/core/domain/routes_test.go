package domain

import "testing"

func TestLookup_Normalises(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/builder-dashboard", PathBuilderDashboard},
		{"/builder-dashboard/", PathBuilderDashboard},
		{"builder-dashboard", PathBuilderDashboard},
		{"/upload?step=2", PathUpload},
		{"/rfq#top", PathRFQ},
		{"", PathHome},
		{"/", PathHome},
	}
	for _, tt := range tests {
		r, ok := Lookup(tt.in)
		if !ok || r.Path != tt.want {
			t.Errorf("Lookup(%q) = %q, %v; want %q", tt.in, r.Path, ok, tt.want)
		}
	}
	if _, ok := Lookup("/nope"); ok {
		t.Error("unknown path must not resolve")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		state AuthState
		path  string
		want  Decision
	}{
		{"public login", AuthState{}, PathLogin, Allow()},
		{"public home anonymous", AuthState{}, PathHome, Allow()},
		{"home sends builder to dashboard", AuthState{User: builder}, PathHome, RedirectTo(PathBuilderDashboard)},
		{"role selection needs auth", AuthState{}, PathRoleSelection, RedirectTo(PathLogin)},
		{"role selection any role", AuthState{User: subcontractor}, PathRoleSelection, Allow()},
		{"builder view for builder", AuthState{User: builder}, PathUpload, Allow()},
		{"builder view for subcontractor", AuthState{User: subcontractor}, PathRFQ, RedirectTo(PathUnauthorized)},
		{"subcontractor view for admin", AuthState{User: admin}, PathSubcontractorResults, Allow()},
		{"admin view for builder", AuthState{User: builder}, PathAdminDashboard, RedirectTo(PathUnauthorized)},
		{"guarded view while loading", AuthState{IsLoading: true}, PathBuilderDashboard, Pending()},
		{"unknown path", AuthState{}, "/missing", Decision{Kind: DecisionAllow, NotFound: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.state, tt.path); got != tt.want {
				t.Fatalf("Resolve(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}

func TestRoutes_UniquePaths(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range Routes {
		if seen[r.Path] {
			t.Fatalf("duplicate route %q", r.Path)
		}
		seen[r.Path] = true
		if r.Access == AccessRoles && len(r.Roles) == 0 {
			t.Fatalf("route %q is role-gated without roles", r.Path)
		}
	}
}
