package rbac_test

import (
	"testing"

	"go-leave/internal/domain"
	"go-leave/internal/rbac"

	"github.com/stretchr/testify/assert"
)

func TestEnforce(t *testing.T) {
	svc, err := rbac.NewService()
	assert.NoError(t, err)

	cases := []struct {
		name     string
		role     string
		resource string
		action   string
		allowed  bool
	}{
		{"employee creates leave", "employee", "leave", "create", true},
		{"employee submits leave", "employee", "leave", "submit", true},
		{"employee cancels leave", "employee", "leave", "cancel", true},
		{"employee cannot approve", "employee", "leave", "approve", false},
		{"employee cannot reject", "employee", "leave", "reject", false},
		{"employee cannot read audit", "employee", "audit", "read", false},

		{"manager approves leave", "manager", "leave", "approve", true},
		{"manager rejects leave", "manager", "leave", "reject", true},
		{"manager creates own leave", "manager", "leave", "create", true},
		{"manager cannot read audit", "manager", "audit", "read", false},

		{"hr approves leave", "hr", "leave", "approve", true},
		{"hr rejects leave", "hr", "leave", "reject", true},
		{"hr reads audit", "hr", "audit", "read", true},

		{"unknown role denied", "intern", "leave", "read", false},
		{"unknown resource denied", "hr", "payroll", "read", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := svc.Enforce(domain.EnforceRequest{
				Role:     tc.role,
				Resource: tc.resource,
				Action:   tc.action,
			})
			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}
