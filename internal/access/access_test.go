package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"taskboard/internal/errors"
	"taskboard/internal/model"
)

func projectWith(creator uuid.UUID, collaborators ...uuid.UUID) *model.Project {
	p := &model.Project{ID: uuid.New(), CreatorID: creator}
	for _, id := range collaborators {
		p.Collaborators = append(p.Collaborators, model.ProjectCollaborator{ProjectID: p.ID, UserID: id})
	}
	return p
}

func TestCanViewAndModify(t *testing.T) {
	creator, collaborator, stranger := uuid.New(), uuid.New(), uuid.New()
	p := projectWith(creator, collaborator)

	tests := []struct {
		name      string
		user      uuid.UUID
		canView   bool
		canModify bool
	}{
		{"creator", creator, true, true},
		{"collaborator", collaborator, true, false},
		{"stranger", stranger, false, false},
		{"nil user", uuid.Nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.canView, CanView(tt.user, p))
			assert.Equal(t, tt.canModify, CanModify(tt.user, p))
		})
	}
}

func TestCanToggleTask(t *testing.T) {
	creator, collaborator, stranger := uuid.New(), uuid.New(), uuid.New()
	p := projectWith(creator, collaborator)
	task := &model.Task{ID: uuid.New(), ProjectID: p.ID, Project: p}

	assert.True(t, CanToggleTask(creator, task))
	assert.True(t, CanToggleTask(collaborator, task))
	assert.False(t, CanToggleTask(stranger, task))
	assert.False(t, CanToggleTask(creator, &model.Task{ID: uuid.New()}))
}

func TestRequireDistinguishesNotFoundFromForbidden(t *testing.T) {
	creator, stranger := uuid.New(), uuid.New()
	p := projectWith(creator)

	assert.ErrorIs(t, RequireView(stranger, nil), errors.ErrProjectNotFound)
	assert.ErrorIs(t, RequireView(stranger, p), errors.ErrForbidden)
	assert.NoError(t, RequireView(creator, p))

	assert.ErrorIs(t, RequireModify(creator, nil), errors.ErrProjectNotFound)
	assert.ErrorIs(t, RequireModify(stranger, p), errors.ErrForbidden)

	assert.ErrorIs(t, RequireToggle(creator, nil), errors.ErrTaskNotFound)
	assert.ErrorIs(t, RequireToggle(creator, &model.Task{ID: uuid.New()}), errors.ErrProjectNotFound)
	assert.ErrorIs(t, RequireToggle(stranger, &model.Task{Project: p}), errors.ErrForbidden)
}

func TestMembershipAdmit(t *testing.T) {
	creator, member, candidate := uuid.New(), uuid.New(), uuid.New()
	m := NewMembership(creator, member)

	assert.ErrorIs(t, m.Admit(creator), errors.ErrInvalidCollaborator)
	assert.ErrorIs(t, m.Admit(member), errors.ErrDuplicateCollaborator)
	assert.NoError(t, m.Admit(candidate))
	assert.Equal(t, 1, m.Len())
}
