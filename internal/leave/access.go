package leave

import (
	"go-leave/internal/user"

	"github.com/google/uuid"
	leaveerrors "go-leave/internal/leave/errors"
)

// Kontrol akses murni: fungsi dari (role, action, ownership, status saat ini)
// tanpa menyentuh storage. Dipisah dari tabel workflow supaya bisa diuji sendiri.

// authorizeTransition mengecek apakah aktor boleh menjalankan rule yang
// sudah valid secara state machine. Urutan pengecekan:
//  1. transisi milik pemohon: harus owner
//  2. self-approval selalu ditolak, apapun role aktor
//  3. role harus termasuk ApproverRoles
//  4. manager hanya boleh untuk bawahan langsungnya
func authorizeTransition(rule transitionRule, actorID uuid.UUID, actorRole string, owner *EmployeeRef) error {
	if rule.OwnerOnly {
		if owner == nil || actorID != owner.ID {
			return leaveerrors.ErrNotOwner
		}
		return nil
	}

	if owner != nil && actorID == owner.ID {
		return leaveerrors.ErrSelfApproval
	}

	roleAllowed := false
	for _, role := range rule.ApproverRoles {
		if actorRole == role {
			roleAllowed = true
			break
		}
	}
	if !roleAllowed {
		return leaveerrors.ErrRoleNotAllowed
	}

	if actorRole == user.RoleManager {
		if owner == nil || owner.ManagerID == nil || *owner.ManagerID != actorID {
			return leaveerrors.ErrNotTeamManager
		}
	}

	return nil
}

// CanView: employee lihat miliknya sendiri, manager lihat milik tim
// (bawahan langsung) plus miliknya, HR lihat semua.
func CanView(actorID uuid.UUID, actorRole string, owner *EmployeeRef) bool {
	if actorRole == user.RoleHR {
		return true
	}
	if owner == nil {
		return false
	}
	if actorID == owner.ID {
		return true
	}
	if actorRole == user.RoleManager && owner.ManagerID != nil && *owner.ManagerID == actorID {
		return true
	}
	return false
}

// ListScope membatasi query list sesuai visibilitas role.
type ListScope struct {
	All         bool
	EmployeeIDs []string
}

func scopeFor(actorID string, actorRole string, teamIDs []string) ListScope {
	switch actorRole {
	case user.RoleHR:
		return ListScope{All: true}
	case user.RoleManager:
		return ListScope{EmployeeIDs: append([]string{actorID}, teamIDs...)}
	default:
		return ListScope{EmployeeIDs: []string{actorID}}
	}
}
