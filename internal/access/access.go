// Package access is the authorization decision layer. Handlers call
// Authorize for every operation instead of attaching permission logic per
// endpoint, so the whole policy is visible in one table.
package access

import (
	"yatube/internal/models"
)

// Actor identifies the requesting user. A nil *Actor means the request is
// anonymous.
type Actor struct {
	ID       uint
	Username string
}

// Action is the operation being attempted on a resource.
type Action int

const (
	ActionList Action = iota
	ActionRetrieve
	ActionCreate
	ActionUpdate
	ActionPartialUpdate
	ActionDelete
)

// Resource is the kind of entity the action targets.
type Resource int

const (
	ResourcePost Resource = iota
	ResourceComment
	ResourceGroup
	ResourceFollow
)

func (a Action) read() bool {
	return a == ActionList || a == ActionRetrieve
}

func (a Action) mutatesExisting() bool {
	return a == ActionUpdate || a == ActionPartialUpdate || a == ActionDelete
}

// Authorize decides whether actor may perform action on resource. For
// actions that mutate an existing post or comment, owner is the author's
// user ID; callers must confirm the target exists before calling, so a
// denied non-owner sees 403 rather than 404.
//
// Policy:
//   - post/group reads are open to anonymous actors
//   - comment reads require authentication (deliberately narrower than posts)
//   - follow list/create require authentication
//   - creates require authentication
//   - update/partial-update/delete additionally require ownership
func Authorize(actor *Actor, action Action, resource Resource, owner uint) error {
	if action.read() && (resource == ResourcePost || resource == ResourceGroup) {
		return nil
	}

	if actor == nil {
		return models.NewUnauthenticatedError()
	}

	if action.mutatesExisting() && (resource == ResourcePost || resource == ResourceComment) {
		if actor.ID != owner {
			return models.NewForbiddenError(
				"You do not have permission to perform this action.")
		}
	}

	return nil
}
