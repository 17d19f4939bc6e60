package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/testutil"
)

func newProject(t *testing.T, repo ProjectRepository, creator *model.User, name string) *model.Project {
	t.Helper()
	p := &model.Project{
		Name:         name,
		Description:  "description",
		Client:       "ACME",
		DeliveryDate: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		CreatorID:    creator.ID,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func newTask(t *testing.T, repo TaskRepository, project *model.Project, name string) *model.Task {
	t.Helper()
	task := &model.Task{
		Name:         name,
		Description:  "description",
		Priority:     model.TaskPriorityMedium,
		DeliveryDate: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		ProjectID:    project.ID,
	}
	require.NoError(t, repo.CreateInProject(context.Background(), task))
	return task
}

func TestTaskRepository_CreateInProjectAppendsInOrder(t *testing.T) {
	gormDB := testutil.NewTestDB(t)
	ctx := context.Background()
	projects := NewProjectRepository(gormDB)
	tasks := NewTaskRepository(gormDB)

	creator := testutil.CreateUser(t, gormDB, "Ana", "ana@example.com")
	project := newProject(t, projects, creator, "Site Redesign")

	first := newTask(t, tasks, project, "Draft copy")
	second := newTask(t, tasks, project, "Pick palette")

	detail, err := projects.FindDetail(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID}, detail.TaskIDs())
	require.NotNil(t, detail.TaskRefs[0].Task)
	assert.Equal(t, "Draft copy", detail.TaskRefs[0].Task.Name)
}

func TestTaskRepository_DeleteFromProjectRemovesBoth(t *testing.T) {
	gormDB := testutil.NewTestDB(t)
	ctx := context.Background()
	projects := NewProjectRepository(gormDB)
	tasks := NewTaskRepository(gormDB)

	creator := testutil.CreateUser(t, gormDB, "Ana", "ana@example.com")
	project := newProject(t, projects, creator, "Site Redesign")
	keep := newTask(t, tasks, project, "Keep")
	drop := newTask(t, tasks, project, "Drop")

	require.NoError(t, tasks.DeleteFromProject(ctx, drop))

	_, err := tasks.FindByID(ctx, drop.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	detail, err := projects.FindDetail(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{keep.ID}, detail.TaskIDs())

	// A second delete finds nothing and leaves the sequence untouched.
	assert.ErrorIs(t, tasks.DeleteFromProject(ctx, drop), gorm.ErrRecordNotFound)
	detail, err = projects.FindDetail(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{keep.ID}, detail.TaskIDs())
}

func TestTaskRepository_WithTransactionRollsBack(t *testing.T) {
	gormDB := testutil.NewTestDB(t)
	ctx := context.Background()
	projects := NewProjectRepository(gormDB)
	tasks := NewTaskRepository(gormDB)

	creator := testutil.CreateUser(t, gormDB, "Ana", "ana@example.com")
	project := newProject(t, projects, creator, "Site Redesign")
	task := newTask(t, tasks, project, "Draft copy")

	err := tasks.WithTransaction(ctx, func(ctx context.Context, tx TaskRepository) error {
		locked, err := tx.FindByIDForUpdate(ctx, task.ID)
		if err != nil {
			return err
		}
		locked.State = true
		if err := tx.Update(ctx, locked); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	reloaded, err := tasks.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.State)
	require.NotNil(t, reloaded.Project)
	assert.Equal(t, project.ID, reloaded.Project.ID)
}

func TestProjectRepository_Collaborators(t *testing.T) {
	gormDB := testutil.NewTestDB(t)
	ctx := context.Background()
	projects := NewProjectRepository(gormDB)

	creator := testutil.CreateUser(t, gormDB, "Ana", "ana@example.com")
	bob := testutil.CreateUser(t, gormDB, "Bob", "bob@example.com")
	carol := testutil.CreateUser(t, gormDB, "Carol", "carol@example.com")
	project := newProject(t, projects, creator, "Site Redesign")

	require.NoError(t, projects.AddCollaborator(ctx, project.ID, bob.ID))
	assert.ErrorIs(t, projects.AddCollaborator(ctx, project.ID, bob.ID), apperrors.ErrDuplicateCollaborator)

	loaded, err := projects.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{bob.ID}, loaded.CollaboratorIDs())

	// Removing someone who is not a collaborator succeeds and changes nothing.
	require.NoError(t, projects.RemoveCollaborator(ctx, project.ID, carol.ID))
	loaded, err = projects.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{bob.ID}, loaded.CollaboratorIDs())

	require.NoError(t, projects.RemoveCollaborator(ctx, project.ID, bob.ID))
	loaded, err = projects.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Collaborators)
}

func TestProjectRepository_ListForUser(t *testing.T) {
	gormDB := testutil.NewTestDB(t)
	ctx := context.Background()
	projects := NewProjectRepository(gormDB)

	ana := testutil.CreateUser(t, gormDB, "Ana", "ana@example.com")
	bob := testutil.CreateUser(t, gormDB, "Bob", "bob@example.com")
	carol := testutil.CreateUser(t, gormDB, "Carol", "carol@example.com")

	owned := newProject(t, projects, ana, "Owned by Ana")
	shared := newProject(t, projects, bob, "Shared with Ana")
	newProject(t, projects, carol, "Private to Carol")
	require.NoError(t, projects.AddCollaborator(ctx, shared.ID, ana.ID))

	list, err := projects.ListForUser(ctx, ana.ID)
	require.NoError(t, err)

	ids := make([]uuid.UUID, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{owned.ID, shared.ID}, ids)
}

func TestProjectRepository_DeleteCascades(t *testing.T) {
	gormDB := testutil.NewTestDB(t)
	ctx := context.Background()
	projects := NewProjectRepository(gormDB)
	tasks := NewTaskRepository(gormDB)

	ana := testutil.CreateUser(t, gormDB, "Ana", "ana@example.com")
	bob := testutil.CreateUser(t, gormDB, "Bob", "bob@example.com")
	project := newProject(t, projects, ana, "Site Redesign")
	task := newTask(t, tasks, project, "Draft copy")
	require.NoError(t, projects.AddCollaborator(ctx, project.ID, bob.ID))

	require.NoError(t, projects.Delete(ctx, project.ID))

	_, err := projects.FindByID(ctx, project.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = tasks.FindByID(ctx, task.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var refs, members int64
	require.NoError(t, gormDB.Model(&model.ProjectTask{}).Where("project_id = ?", project.ID).Count(&refs).Error)
	require.NoError(t, gormDB.Model(&model.ProjectCollaborator{}).Where("project_id = ?", project.ID).Count(&members).Error)
	assert.Zero(t, refs)
	assert.Zero(t, members)

	assert.ErrorIs(t, projects.Delete(ctx, project.ID), gorm.ErrRecordNotFound)
}

func TestUserRepository_TokensAreSingleUse(t *testing.T) {
	gormDB := testutil.NewTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(gormDB)

	token := "abc123"
	user := &model.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Token: &token}
	require.NoError(t, users.Create(ctx, user))

	found, err := users.FindByToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	require.NoError(t, users.ConfirmByToken(ctx, token))
	assert.ErrorIs(t, users.ConfirmByToken(ctx, token), gorm.ErrRecordNotFound)

	confirmed, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, confirmed.Confirmed)
	assert.Nil(t, confirmed.Token)

	reset := "reset456"
	confirmed.Token = &reset
	require.NoError(t, users.Update(ctx, confirmed))
	require.NoError(t, users.ResetPasswordByToken(ctx, reset, "new-hash"))
	assert.ErrorIs(t, users.ResetPasswordByToken(ctx, reset, "other"), gorm.ErrRecordNotFound)

	updated, err := users.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new-hash", updated.PasswordHash)

	_, err = users.FindByToken(ctx, "")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
