package services

import (
	"github.com/Vidhyalakshmi16/svm-mobiles/apperr"
	"github.com/Vidhyalakshmi16/svm-mobiles/auth"
	"github.com/Vidhyalakshmi16/svm-mobiles/models"
)

// Authorize decides whether actor may move a resource owned by ownerID from
// current to target. It applies to orders and service requests alike:
// admins may set any status; everyone else may only cancel their own
// resource while it is still Placed.
func Authorize(actor auth.Identity, ownerID string, current, target models.Status, resource string) error {
	if actor.IsAdmin() {
		return nil
	}
	if target != models.StatusCancelled {
		return apperr.Forbidden("Not allowed")
	}
	if ownerID == "" || ownerID != actor.UserID {
		return apperr.Forbidden("Not your " + resource)
	}
	if current != models.StatusPlaced {
		return apperr.Validation(capitalize(resource) + " cannot be cancelled now")
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
