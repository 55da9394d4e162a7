package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keypanel/key_panel_app/internal/core/domain"
)

func TestRoleRanksAreTotallyOrdered(t *testing.T) {
	assert.Greater(t, domain.RoleOwner.Rank(), domain.RoleAdmin.Rank())
	assert.Greater(t, domain.RoleAdmin.Rank(), domain.RoleMaster.Rank())
	assert.Greater(t, domain.RoleMaster.Rank(), domain.RoleSeller.Rank())
	assert.Greater(t, domain.RoleSeller.Rank(), domain.Role("intruder").Rank())
}

func TestCanManage(t *testing.T) {
	roles := []domain.Role{domain.RoleOwner, domain.RoleAdmin, domain.RoleMaster, domain.RoleSeller}

	for i, actor := range roles {
		for j, target := range roles {
			want := i < j // roles is in descending rank order
			assert.Equal(t, want, actor.CanManage(target), "%s managing %s", actor, target)
		}
	}

	// Unknown roles are managed by everyone and manage no one.
	assert.True(t, domain.RoleSeller.CanManage(domain.Role("intruder")))
	assert.False(t, domain.Role("intruder").CanManage(domain.RoleSeller))
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"owner", "admin", "master", "seller"} {
		role, err := domain.ParseRole(s)
		require.NoError(t, err)
		assert.True(t, role.IsValid())
	}

	for _, s := range []string{"", "Owner", "root", "superadmin"} {
		_, err := domain.ParseRole(s)
		assert.Error(t, err, "expected %q to be rejected", s)
	}
}

func TestCreatableRoles(t *testing.T) {
	assert.Equal(t, []domain.Role{domain.RoleAdmin, domain.RoleMaster, domain.RoleSeller}, domain.RoleOwner.CreatableRoles())
	assert.Equal(t, []domain.Role{domain.RoleMaster, domain.RoleSeller}, domain.RoleAdmin.CreatableRoles())
	assert.Equal(t, []domain.Role{domain.RoleSeller}, domain.RoleMaster.CreatableRoles())
	assert.Empty(t, domain.RoleSeller.CreatableRoles())
}

func TestKeyTypeValidity(t *testing.T) {
	weekly, err := domain.DefaultPriceTable.Cost(domain.KeyTypeWeekly)
	require.NoError(t, err)
	assert.Equal(t, int64(700), weekly)

	monthly, err := domain.DefaultPriceTable.Cost(domain.KeyTypeMonthly)
	require.NoError(t, err)
	assert.Equal(t, int64(1600), monthly)

	_, err = domain.DefaultPriceTable.Cost(domain.KeyType("lifetime"))
	assert.Error(t, err)

	assert.Equal(t, 7*24.0, domain.KeyTypeWeekly.Validity().Hours())
	assert.Equal(t, 30*24.0, domain.KeyTypeMonthly.Validity().Hours())
}
