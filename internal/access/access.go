// Package access decides whether a user may view or change a project and its
// tasks. Decisions are pure: callers load the records, access only reads them.
package access

import (
	"github.com/google/uuid"

	"taskboard/internal/errors"
	"taskboard/internal/model"
)

// Membership is the creator plus the collaborator set of one project.
type Membership struct {
	CreatorID     uuid.UUID
	collaborators map[uuid.UUID]struct{}
}

// NewMembership builds a membership from a creator and collaborator ids.
func NewMembership(creatorID uuid.UUID, collaboratorIDs ...uuid.UUID) Membership {
	m := Membership{
		CreatorID:     creatorID,
		collaborators: make(map[uuid.UUID]struct{}, len(collaboratorIDs)),
	}
	for _, id := range collaboratorIDs {
		m.collaborators[id] = struct{}{}
	}
	return m
}

// MembershipOf reads the membership of a project whose collaborators are loaded.
func MembershipOf(p *model.Project) Membership {
	return NewMembership(p.CreatorID, p.CollaboratorIDs()...)
}

// IsCreator reports whether userID owns the project.
func (m Membership) IsCreator(userID uuid.UUID) bool {
	return userID != uuid.Nil && userID == m.CreatorID
}

// IsCollaborator reports whether userID is in the collaborator set.
func (m Membership) IsCollaborator(userID uuid.UUID) bool {
	_, ok := m.collaborators[userID]
	return ok
}

// Len returns the number of collaborators.
func (m Membership) Len() int {
	return len(m.collaborators)
}

// Admit checks that candidate may join the collaborator set.
func (m Membership) Admit(candidate uuid.UUID) error {
	if candidate == m.CreatorID {
		return errors.ErrInvalidCollaborator
	}
	if m.IsCollaborator(candidate) {
		return errors.ErrDuplicateCollaborator
	}
	return nil
}

// CanModify is true only for the project creator.
func CanModify(userID uuid.UUID, p *model.Project) bool {
	if p == nil {
		return false
	}
	return MembershipOf(p).IsCreator(userID)
}

// CanView is true for the creator and every collaborator.
func CanView(userID uuid.UUID, p *model.Project) bool {
	if p == nil {
		return false
	}
	m := MembershipOf(p)
	return m.IsCreator(userID) || m.IsCollaborator(userID)
}

// CanToggleTask applies the view rule to the task's parent project.
func CanToggleTask(userID uuid.UUID, t *model.Task) bool {
	if t == nil {
		return false
	}
	return CanView(userID, t.Project)
}

// RequireView returns ErrProjectNotFound for a missing project and
// ErrForbidden when the user may not view it.
func RequireView(userID uuid.UUID, p *model.Project) error {
	if p == nil {
		return errors.ErrProjectNotFound
	}
	if !CanView(userID, p) {
		return errors.ErrForbidden
	}
	return nil
}

// RequireModify is RequireView for creator-only operations.
func RequireModify(userID uuid.UUID, p *model.Project) error {
	if p == nil {
		return errors.ErrProjectNotFound
	}
	if !CanModify(userID, p) {
		return errors.ErrForbidden
	}
	return nil
}

// RequireToggle checks the task and its parent project exist before
// applying CanToggleTask.
func RequireToggle(userID uuid.UUID, t *model.Task) error {
	if t == nil {
		return errors.ErrTaskNotFound
	}
	if t.Project == nil {
		return errors.ErrProjectNotFound
	}
	if !CanToggleTask(userID, t) {
		return errors.ErrForbidden
	}
	return nil
}
