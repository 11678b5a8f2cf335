package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestAuthorizer(t *testing.T) {
	authz, err := NewAuthorizer()
	require.NoError(t, err)

	cases := []struct {
		role     domain.Role
		resource string
		action   string
		want     bool
	}{
		{domain.RoleUser, ResourceTicket, ActionCreate, true},
		{domain.RoleUser, ResourceTicket, ActionReadOwn, true},
		{domain.RoleUser, ResourceTicket, ActionReadAll, false},
		{domain.RoleUser, ResourceTicket, ActionUpdate, false},
		{domain.RoleUser, ResourceNotification, ActionReadAll, false},
		{domain.RoleUser, ResourceUser, ActionManage, false},
		{domain.RoleAdmin, ResourceTicket, ActionReadAll, true},
		{domain.RoleAdmin, ResourceTicket, ActionCreate, true},
		{domain.RoleAdmin, ResourceComment, ActionCreate, true},
		{domain.RoleAdmin, ResourceNotification, ActionUpdate, true},
		{domain.RoleAdmin, ResourceUser, ActionManage, true},
		{domain.Role("GUEST"), ResourceTicket, ActionCreate, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.role)+"/"+tc.resource+"/"+tc.action, func(t *testing.T) {
			assert.Equal(t, tc.want, authz.Can(tc.role, tc.resource, tc.action))
		})
	}

	assert.False(t, authz.Allows(nil, ResourceTicket, ActionCreate))
}
