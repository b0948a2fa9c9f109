package domain

import (
	"testing"
	"time"

	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftProduct() *Product {
	return NewProduct(&ProductInput{Name: "Bear", Price: dec("100"), Images: []string{"a.jpg"}}, uuid.New())
}

func TestApproveByAdmin(t *testing.T) {
	p := draftProduct()
	admin := NewActor(uuid.New(), RoleAdmin)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, p.Approve(admin, at))

	assert.Equal(t, StatusLive, p.Status)
	require.NotNil(t, p.ApprovedBy)
	require.NotNil(t, p.ApprovedAt)
	assert.Equal(t, admin.UserID, *p.ApprovedBy)
	assert.True(t, at.Equal(*p.ApprovedAt))
}

func TestApproveRejectedForNonAdmins(t *testing.T) {
	for _, role := range []Role{RoleCustomer, RoleStaff} {
		t.Run(string(role), func(t *testing.T) {
			p := draftProduct()
			err := p.Approve(NewActor(uuid.New(), role), time.Now())

			assert.ErrorIs(t, err, e.ErrForbidden)
			assert.Equal(t, StatusDraft, p.Status)
			assert.Nil(t, p.ApprovedBy)
			assert.Nil(t, p.ApprovedAt)
		})
	}
}

func TestApproveOnlyFromDraft(t *testing.T) {
	p := draftProduct()
	admin := NewActor(uuid.New(), RoleAdmin)
	require.NoError(t, p.Approve(admin, time.Now()))

	assert.ErrorIs(t, p.Approve(admin, time.Now()), e.ErrInvalidTransition)
}

func TestToggleStock(t *testing.T) {
	p := draftProduct()
	assert.ErrorIs(t, p.ToggleStock(), e.ErrInvalidTransition, "draft cannot be toggled")

	require.NoError(t, p.Approve(NewActor(uuid.New(), RoleAdmin), time.Now()))
	approvedBy, approvedAt := *p.ApprovedBy, *p.ApprovedAt

	require.NoError(t, p.ToggleStock())
	assert.Equal(t, StatusOutOfStock, p.Status)

	require.NoError(t, p.ToggleStock())
	assert.Equal(t, StatusLive, p.Status)

	assert.Equal(t, approvedBy, *p.ApprovedBy)
	assert.Equal(t, approvedAt, *p.ApprovedAt)
}

func TestNextStatusNeverReturnsToDraft(t *testing.T) {
	actions := []Action{ActionApprove, ActionToggleStock, ActionEdit}
	for _, from := range []ProductStatus{StatusLive, StatusOutOfStock} {
		for _, action := range actions {
			next, err := NextStatus(from, action)
			if err == nil {
				assert.NotEqual(t, StatusDraft, next, "%s via %s", from, action)
			}
		}
	}
}

func TestPolicyAuthorize(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		role   Role
		action Action
		ok     bool
	}{
		{RoleAdmin, ActionCreate, true},
		{RoleStaff, ActionCreate, true},
		{RoleCustomer, ActionCreate, false},
		{RoleStaff, ActionEdit, true},
		{RoleCustomer, ActionEdit, false},
		{RoleAdmin, ActionApprove, true},
		{RoleStaff, ActionApprove, false},
		{RoleAdmin, ActionToggleStock, true},
		{RoleStaff, ActionToggleStock, true},
		{RoleCustomer, ActionToggleStock, false},
		{RoleAdmin, ActionDelete, true},
		{RoleStaff, ActionDelete, false},
		{RoleCustomer, ActionDelete, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.action), func(t *testing.T) {
			err := policy.Authorize(tt.role, tt.action)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, e.ErrForbidden)
			}
		})
	}
}

func TestPolicyConfigurableDelete(t *testing.T) {
	policy := Policy{StockToggleRoles: Roles{RoleAdmin}, DeleteRoles: Roles{RoleAdmin, RoleStaff}}

	assert.NoError(t, policy.Authorize(RoleStaff, ActionDelete))
	assert.ErrorIs(t, policy.Authorize(RoleStaff, ActionToggleStock), e.ErrForbidden)
	assert.ErrorIs(t, policy.Authorize(RoleStaff, ActionApprove), e.ErrForbidden, "approval is admin-only regardless of policy")
}
