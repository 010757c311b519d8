// Package services contains server-side business logic. UserService owns
// User records (the Identity Store); SessionService issues login sessions.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userapp/internal/common"
	"github.com/dmitrijs2005/userapp/internal/cryptox"
	"github.com/dmitrijs2005/userapp/internal/lockx"
	"github.com/dmitrijs2005/userapp/internal/server/models"
	"github.com/dmitrijs2005/userapp/internal/server/repositories/repomanager"
)

// UserInput carries every client-settable field of a User. The transport is
// responsible for rejecting requests that omit any of them.
type UserInput struct {
	Email     string
	FirstName string
	LastName  string
	UserName  string
	Password  string
	IsAdmin   bool
}

// UserService provides create/read/update/delete by username.
//
// In relaxed mode (the default) create and update are a lookup followed by
// an unguarded write, so two concurrent creates of one username can both
// succeed. Strict mode holds a per-username lock across the sequence and
// also refuses renames onto a taken username.
type UserService struct {
	repomanager repomanager.RepositoryManager
	hasher      cryptox.Hasher
	locker      lockx.Locker
	strict      bool
}

// NewUserService constructs a UserService. A nil hasher stores plaintext; a
// nil locker never blocks.
func NewUserService(m repomanager.RepositoryManager, hasher cryptox.Hasher, locker lockx.Locker, strict bool) *UserService {
	if hasher == nil {
		hasher = cryptox.PlainHasher{}
	}
	if locker == nil {
		locker = lockx.Noop{}
	}
	return &UserService{repomanager: m, hasher: hasher, locker: locker, strict: strict}
}

// ListUsers returns every user in ascending id order.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	list, err := s.repomanager.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return list, nil
}

// GetUser returns the user with exactly this username.
func (s *UserService) GetUser(ctx context.Context, userName string) (*models.User, error) {
	user, err := s.repomanager.Users().GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	return user, nil
}

// CreateUser inserts a new user unless the username is already taken, in
// which case it returns common.ErrorConflict and stores nothing.
func (s *UserService) CreateUser(ctx context.Context, in UserInput) (*models.User, error) {
	unlock, err := lockx.LockAll(ctx, s.locker, userLockKey(in.UserName))
	if err != nil {
		return nil, fmt.Errorf("error locking username: %w", err)
	}
	defer unlock()

	if err := s.ensureFree(ctx, in.UserName); err != nil {
		return nil, err
	}

	password, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		UserName:  in.UserName,
		Password:  password,
		IsAdmin:   in.IsAdmin,
	}

	created, err := s.repomanager.Users().Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return created, nil
}

// UpdateUser overwrites every field of the user found by userName,
// including the username itself. Id and creation time are kept.
func (s *UserService) UpdateUser(ctx context.Context, userName string, in UserInput) (*models.User, error) {
	unlock, err := lockx.LockAll(ctx, s.locker, userLockKey(userName), userLockKey(in.UserName))
	if err != nil {
		return nil, fmt.Errorf("error locking username: %w", err)
	}
	defer unlock()

	current, err := s.GetUser(ctx, userName)
	if err != nil {
		return nil, err
	}

	if s.strict && in.UserName != userName {
		if err := s.ensureFree(ctx, in.UserName); err != nil {
			return nil, err
		}
	}

	password, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:        current.ID,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		UserName:  in.UserName,
		Password:  password,
		IsAdmin:   in.IsAdmin,
		CreatedAt: current.CreatedAt,
	}

	updated, err := s.repomanager.Users().Update(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return updated, nil
}

// DeleteUser removes the user found by userName and returns the record as
// it was just before removal. Sessions of that user are left in place.
func (s *UserService) DeleteUser(ctx context.Context, userName string) (*models.User, error) {
	unlock, err := lockx.LockAll(ctx, s.locker, userLockKey(userName))
	if err != nil {
		return nil, fmt.Errorf("error locking username: %w", err)
	}
	defer unlock()

	user, err := s.GetUser(ctx, userName)
	if err != nil {
		return nil, err
	}

	if err := s.repomanager.Users().Delete(ctx, user.ID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error deleting user: %w", err)
	}
	return user, nil
}

func (s *UserService) ensureFree(ctx context.Context, userName string) error {
	_, err := s.repomanager.Users().GetUserByLogin(ctx, userName)
	switch {
	case err == nil:
		return common.ErrorConflict
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		return fmt.Errorf("error fetching user: %w", err)
	}
}

func userLockKey(userName string) string {
	return "user:" + userName
}
