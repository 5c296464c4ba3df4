package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroContextIsNotMultiTenant(t *testing.T) {
	var req Request
	assert.False(t, req.IsMultiTenant())
}

func TestCanChecksPermission(t *testing.T) {
	ctx := New("t1", "c1", IsolationStandard, Permissions{Create: true})
	assert.True(t, ctx.Can("create"))
	assert.False(t, ctx.Can("delete"))
	assert.False(t, ctx.Can("bogus"))
}

func TestQuotaEnforcement(t *testing.T) {
	max := 2
	ctx := New("t1", "c1", IsolationStandard, Permissions{MaxUsers: &max})

	assert.True(t, ctx.WithinUserQuota(0))
	assert.True(t, ctx.WithinUserQuota(1))
	assert.False(t, ctx.WithinUserQuota(2))
}

func TestUnboundedQuotaByDefault(t *testing.T) {
	ctx := New("t1", "c1", IsolationStandard, AllowAll())
	assert.True(t, ctx.WithinUserQuota(1_000_000))
}
