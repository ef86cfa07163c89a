package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"

	"go-leave/internal/domain"
)

// Model RBAC: subject adalah role (employee/manager/hr), bukan user.
// Ownership / team / self-approval dicek terpisah di internal/leave/access.go.
const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// Matriks permission statis. Role bersifat tetap, jadi policy di-seed
// sekali saat startup dan tidak pernah dimuat ulang dari database.
var defaultPolicies = [][3]string{
	{"employee", "leave", "create"},
	{"employee", "leave", "read"},
	{"employee", "leave", "update"},
	{"employee", "leave", "delete"},
	{"employee", "leave", "submit"},
	{"employee", "leave", "cancel"},
	{"employee", "user", "read"},

	{"manager", "leave", "create"},
	{"manager", "leave", "read"},
	{"manager", "leave", "update"},
	{"manager", "leave", "delete"},
	{"manager", "leave", "submit"},
	{"manager", "leave", "cancel"},
	{"manager", "leave", "approve"},
	{"manager", "leave", "reject"},
	{"manager", "user", "read"},

	{"hr", "leave", "create"},
	{"hr", "leave", "read"},
	{"hr", "leave", "update"},
	{"hr", "leave", "delete"},
	{"hr", "leave", "submit"},
	{"hr", "leave", "cancel"},
	{"hr", "leave", "approve"},
	{"hr", "leave", "reject"},
	{"hr", "user", "read"},
	{"hr", "audit", "read"},
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
}

func NewService() (Service, error) {
	m, err := casbinmodel.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range defaultPolicies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	return &service{enforcer: enforcer}, nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.enforcer.Enforce(req.Role, req.Resource, req.Action)
}
