package models

import "testing"

func TestUser_IsAdmin(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		expected bool
	}{
		{"admin user", RoleAdmin, true},
		{"operator", RoleOperator, false},
		{"viewer", RoleViewer, false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Role: tt.role}
			if got := user.IsAdmin(); got != tt.expected {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUser_CanLaunch(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		expected bool
	}{
		{"admin user", RoleAdmin, true},
		{"operator", RoleOperator, true},
		{"viewer", RoleViewer, false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Role: tt.role}
			if got := user.CanLaunch(); got != tt.expected {
				t.Errorf("CanLaunch() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUser_HasRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		want     []string
		expected bool
	}{
		{"exact match", RoleOperator, []string{RoleOperator}, true},
		{"one of many", RoleViewer, []string{RoleOperator, RoleViewer}, true},
		{"admin holds all", RoleAdmin, []string{RoleOperator}, true},
		{"no match", RoleViewer, []string{RoleOperator}, false},
		{"no roles requested", RoleViewer, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Role: tt.role}
			if got := user.HasRole(tt.want...); got != tt.expected {
				t.Errorf("HasRole(%v) = %v, want %v", tt.want, got, tt.expected)
			}
		})
	}
}
