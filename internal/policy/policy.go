// Package policy holds the pure authorization decisions for User and Task
// resources. Every decision is a function of the caller and a target
// snapshot; nothing here touches the database or the request context.
package policy

import (
	"errors"

	"task-tracker/backend/internal/models"
)

type Action string

const (
	ActionRetrieve       Action = "retrieve"
	ActionUpdate         Action = "update"  // partial update (PATCH)
	ActionReplace        Action = "replace" // full update (PUT)
	ActionDestroy        Action = "destroy"
	ActionList           Action = "list"
	ActionListAll        Action = "list_all"
	ActionCreate         Action = "create"
	ActionChangePassword Action = "change_password"
)

var (
	ErrNotAuthenticated = errors.New("authentication required")
	ErrForbidden        = errors.New("permission denied")
	ErrMethodNotAllowed = errors.New(`method "PUT" not allowed`)
)

func isSelf(caller, target *models.User) bool {
	return target != nil && caller.ID == target.ID
}

func selfOrSuperuser(caller, target *models.User) bool {
	return isSelf(caller, target) || caller.IsSuperuser
}

func isStaff(caller, _ *models.User) bool {
	return caller.IsStaff
}

func isOwner(caller *models.User, target *models.Task) bool {
	return target != nil && caller.ID == target.OwnerID
}

type userRule struct {
	allowAnonymous bool
	deny           error // unconditional denial, e.g. the PUT ban
	check          func(caller, target *models.User) bool
}

type taskRule struct {
	check func(caller *models.User, target *models.Task) bool
}

// userRules is the full, auditable policy table for User targets. Anything
// not listed is denied.
var userRules = map[Action]userRule{
	ActionCreate:         {allowAnonymous: true},
	ActionReplace:        {allowAnonymous: true, deny: ErrMethodNotAllowed},
	ActionList:           {check: isStaff},
	ActionRetrieve:       {check: selfOrSuperuser},
	ActionUpdate:         {check: selfOrSuperuser},
	ActionDestroy:        {check: selfOrSuperuser},
	ActionChangePassword: {check: isSelf},
}

// taskRules: single-object Task actions are owner-only. Superusers get no
// override here; the only superuser privilege on tasks is the list_all scope.
var taskRules = map[Action]taskRule{
	ActionCreate:   {check: func(*models.User, *models.Task) bool { return true }},
	ActionList:     {check: func(*models.User, *models.Task) bool { return true }},
	ActionListAll:  {check: func(c *models.User, _ *models.Task) bool { return c.IsSuperuser }},
	ActionRetrieve: {check: isOwner},
	ActionUpdate:   {check: isOwner},
	ActionReplace:  {check: isOwner},
	ActionDestroy:  {check: isOwner},
}

// AuthorizeUser decides whether caller may perform action on target. A nil
// caller is anonymous; target may be nil for collection actions.
func AuthorizeUser(caller *models.User, action Action, target *models.User) error {
	rule, ok := userRules[action]
	if !ok {
		return ErrForbidden
	}
	if rule.deny != nil {
		return rule.deny
	}
	if rule.allowAnonymous {
		return nil
	}
	if caller == nil {
		return ErrNotAuthenticated
	}
	if rule.check != nil && rule.check(caller, target) {
		return nil
	}
	return ErrForbidden
}

// AuthorizeTask decides whether caller may perform action on target. Every
// Task action requires an authenticated caller.
func AuthorizeTask(caller *models.User, action Action, target *models.Task) error {
	rule, ok := taskRules[action]
	if !ok {
		return ErrForbidden
	}
	if caller == nil {
		return ErrNotAuthenticated
	}
	if rule.check(caller, target) {
		return nil
	}
	return ErrForbidden
}
