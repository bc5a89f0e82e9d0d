package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTenant(t *testing.T) {
	tenant, err := NewTenant("OAKWOOD-CARE", "Oakwood Care Group", TenantPlanPilot)
	require.NoError(t, err)
	assert.Equal(t, "OAKWOOD-CARE", tenant.Code)
	assert.Equal(t, TenantStatusActive, tenant.Status)
	assert.Equal(t, TenantPlanPilot, tenant.Plan)
	assert.True(t, tenant.IsActive())
}

func TestNewTenant_InvalidCode(t *testing.T) {
	cases := []string{"", "A", "-LEADING", "TRAILING-", "lower-case", "HAS SPACE"}
	for _, code := range cases {
		_, err := NewTenant(code, "Name", TenantPlanStandard)
		assert.Error(t, err, "code %q should be rejected", code)
	}
}

func TestTenant_SuspendAndActivate(t *testing.T) {
	tenant, err := NewTenant("MEADOW-VIEW", "Meadow View Ltd", TenantPlanStandard)
	require.NoError(t, err)

	require.NoError(t, tenant.Suspend())
	assert.Equal(t, TenantStatusSuspended, tenant.Status)
	assert.False(t, tenant.IsActive())

	// suspending twice is rejected
	assert.Error(t, tenant.Suspend())

	require.NoError(t, tenant.Activate())
	assert.True(t, tenant.IsActive())
}

func TestTenant_CloseIsTerminal(t *testing.T) {
	tenant, err := NewTenant("ELM-LODGE", "Elm Lodge", TenantPlanEnterprise)
	require.NoError(t, err)

	tenant.Close()
	assert.Equal(t, TenantStatusClosed, tenant.Status)
	assert.Error(t, tenant.Activate())
	assert.Error(t, tenant.Suspend())
}
