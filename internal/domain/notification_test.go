package domain

import "testing"

func TestAnnouncement_VisibleTo(t *testing.T) {
	tests := []struct {
		name     string
		audience Audience
		active   bool
		role     Role
		want     bool
	}{
		{"all visible to customer", AudienceAll, true, RoleCustomer, true},
		{"all visible to agent", AudienceAll, true, RoleAgent, true},
		{"all visible to admin", AudienceAll, true, RoleAdmin, true},
		{"customers only for customer", AudienceCustomers, true, RoleCustomer, true},
		{"customers hidden from agent", AudienceCustomers, true, RoleAgent, false},
		{"agents only for agent", AudienceAgents, true, RoleAgent, true},
		{"agents hidden from customer", AudienceAgents, true, RoleCustomer, false},
		{"admins only for admin", AudienceAdmins, true, RoleAdmin, true},
		{"admins hidden from agent", AudienceAdmins, true, RoleAgent, false},
		{"inactive hidden from everyone", AudienceAll, false, RoleAdmin, false},
		{"unknown audience hidden", Audience("vip"), true, RoleAdmin, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := Announcement{TargetAudience: tc.audience, Active: tc.active}
			if got := a.VisibleTo(tc.role); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
