// Package seed fills a database with a small demo scenario: a creator, a
// collaborator, one shared project and one task.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// Options controls the demo data.
type Options struct {
	Password string
}

// Result reports what the seed created or reused.
type Result struct {
	Creator      *model.User
	Collaborator *model.User
	Project      *model.Project
	Task         *model.Task
	UsersCreated int
}

// Demo seeds the demo scenario. Users that already exist are updated to be
// confirmed with the given password; the project and task are always new.
func Demo(ctx context.Context, gormDB *gorm.DB, opts Options) (*Result, error) {
	if opts.Password == "" {
		opts.Password = "password123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userRepo := repository.NewUserRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	res := &Result{}
	res.Creator, err = upsertUser(ctx, userRepo, "Alice", "alice@taskboard.local", string(hash), res)
	if err != nil {
		return nil, err
	}
	res.Collaborator, err = upsertUser(ctx, userRepo, "Bob", "bob@taskboard.local", string(hash), res)
	if err != nil {
		return nil, err
	}

	res.Project = &model.Project{
		Name:         "Site Redesign",
		Description:  "New marketing site for the spring launch",
		Client:       "Acme",
		DeliveryDate: time.Now().AddDate(0, 2, 0),
		CreatorID:    res.Creator.ID,
	}
	if err := projectRepo.Create(ctx, res.Project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	if err := projectRepo.AddCollaborator(ctx, res.Project.ID, res.Collaborator.ID); err != nil {
		return nil, fmt.Errorf("add collaborator: %w", err)
	}

	res.Task = &model.Task{
		Name:         "Draft copy",
		Description:  "Homepage and pricing page copy",
		Priority:     model.TaskPriorityHigh,
		DeliveryDate: time.Now().AddDate(0, 1, 0),
		ProjectID:    res.Project.ID,
	}
	if err := taskRepo.CreateInProject(ctx, res.Task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return res, nil
}

func upsertUser(ctx context.Context, repo repository.UserRepository, name, email, hash string, res *Result) (*model.User, error) {
	existing, err := repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find user %s: %w", email, err)
	}

	if existing != nil {
		existing.Name = name
		existing.PasswordHash = hash
		existing.Confirmed = true
		existing.Token = nil
		if err := repo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("update user %s: %w", email, err)
		}
		return existing, nil
	}

	user := &model.User{Name: name, Email: email, PasswordHash: hash, Confirmed: true}
	if err := repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user %s: %w", email, err)
	}
	res.UsersCreated++
	return user, nil
}
