package policy

import (
	"errors"
	"strings"

	"github.com/gofrs/uuid"

	"task-tracker/backend/internal/models"
)

// ErrInvalidDone marks a done query value outside {true, false}.
var ErrInvalidDone = errors.New(`done must be "true" or "false"`)

// TaskFilter carries the caller-supplied list narrowing.
type TaskFilter struct {
	Done  *bool
	Owner *uuid.UUID
	Board bool // rendering order: undone first, each group by creation time
}

// Scope is the owner visibility a caller is entitled to when listing tasks.
type Scope struct {
	All   bool       // superuser: every owner, unless narrowed
	Owner *uuid.UUID // exact-owner narrowing; always set for non-superusers
}

// TaskScope pins non-superusers to their own tasks and discards any
// requested owner filter so the parameter cannot widen their view.
// Superusers see everything, optionally narrowed to one owner.
func TaskScope(caller *models.User, requestedOwner *uuid.UUID) Scope {
	if caller.IsSuperuser {
		return Scope{All: true, Owner: requestedOwner}
	}
	own := caller.ID
	return Scope{Owner: &own}
}

// ParseDone parses the done query parameter. Only the two boolean words are
// accepted, case-insensitively; anything else is an input error rather than
// a silently empty or full listing.
func ParseDone(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, ErrInvalidDone
}
