package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// Resources guarded by the Authorizer.
const (
	ResourceTicket       = "ticket"
	ResourceComment      = "comment"
	ResourceNotification = "notification"
	ResourceUser         = "user"
)

// Actions checked against resources.
const (
	ActionReadAll = "read_all"
	ActionReadOwn = "read_own"
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionManage  = "manage"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

var defaultPolicies = [][]string{
	{string(domain.RoleUser), ResourceTicket, ActionCreate},
	{string(domain.RoleUser), ResourceTicket, ActionReadOwn},
	{string(domain.RoleUser), ResourceComment, ActionReadOwn},
	{string(domain.RoleUser), ResourceComment, ActionCreate},

	{string(domain.RoleAdmin), ResourceTicket, ActionReadAll},
	{string(domain.RoleAdmin), ResourceTicket, ActionUpdate},
	{string(domain.RoleAdmin), ResourceComment, ActionReadAll},
	{string(domain.RoleAdmin), ResourceNotification, ActionReadAll},
	{string(domain.RoleAdmin), ResourceNotification, ActionUpdate},
	{string(domain.RoleAdmin), ResourceUser, ActionManage},
}

// Authorizer answers role/resource/action questions from an in-memory casbin policy.
type Authorizer struct {
	enforcer *casbin.Enforcer
}

// NewAuthorizer loads the built-in RBAC policy. ADMIN inherits every USER grant.
func NewAuthorizer() (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rbac model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if _, err := enforcer.AddPolicies(defaultPolicies); err != nil {
		return nil, fmt.Errorf("failed to load policies: %w", err)
	}
	if _, err := enforcer.AddGroupingPolicy(string(domain.RoleAdmin), string(domain.RoleUser)); err != nil {
		return nil, fmt.Errorf("failed to load role hierarchy: %w", err)
	}
	return &Authorizer{enforcer: enforcer}, nil
}

// MustAuthorizer panics if the built-in policy fails to load.
func MustAuthorizer() *Authorizer {
	a, err := NewAuthorizer()
	if err != nil {
		panic(err)
	}
	return a
}

// Can reports whether role may perform action on resource. Enforcement errors deny.
func (a *Authorizer) Can(role domain.Role, resource, action string) bool {
	allowed, err := a.enforcer.Enforce(string(role), resource, action)
	return err == nil && allowed
}

// Allows is Can for an account; a nil account is never allowed.
func (a *Authorizer) Allows(account *domain.Account, resource, action string) bool {
	if account == nil {
		return false
	}
	return a.Can(account.Role, resource, action)
}
