package services

import "github.com/yukikurage/field-attendance-api/internal/models"

// Principal is the authenticated caller with its role profile resolved.
// It is either an AdminPrincipal or a WorkerPrincipal.
type Principal interface {
	UserID() uint64
	Role() models.UserRole
	isPrincipal()
}

// AdminPrincipal is an authenticated admin.
type AdminPrincipal struct {
	User    *models.User
	Profile *models.AdminProfile
}

func (p AdminPrincipal) UserID() uint64        { return p.User.ID }
func (p AdminPrincipal) Role() models.UserRole { return models.RoleAdmin }
func (AdminPrincipal) isPrincipal()            {}

// AdminID returns the admin profile ID used as assignedBy.
func (p AdminPrincipal) AdminID() uint64 { return p.Profile.ID }

// WorkerPrincipal is an authenticated worker.
type WorkerPrincipal struct {
	User    *models.User
	Profile *models.WorkerProfile
}

func (p WorkerPrincipal) UserID() uint64        { return p.User.ID }
func (p WorkerPrincipal) Role() models.UserRole { return models.RoleWorker }
func (WorkerPrincipal) isPrincipal()            {}

// WorkerID returns the worker profile ID that assignments and attendance reference.
func (p WorkerPrincipal) WorkerID() uint64 { return p.Profile.ID }
