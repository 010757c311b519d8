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

// SessionService verifies credentials and issues one live session per
// username. Issued apikeys are never checked by anything in this service.
type SessionService struct {
	repomanager repomanager.RepositoryManager
	hasher      cryptox.Hasher
	locker      lockx.Locker
	strict      bool
	newAPIKey   func() (string, error)
}

// NewSessionService constructs a SessionService. hasher must match the one
// given to the UserService that stored the passwords.
func NewSessionService(m repomanager.RepositoryManager, hasher cryptox.Hasher, locker lockx.Locker, strict bool) *SessionService {
	if hasher == nil {
		hasher = cryptox.PlainHasher{}
	}
	if locker == nil {
		locker = lockx.Noop{}
	}
	return &SessionService{
		repomanager: m,
		hasher:      hasher,
		locker:      locker,
		strict:      strict,
		newAPIKey: func() (string, error) {
			return common.MakeRandHexString(common.APIKeySize)
		},
	}
}

// Login checks userName and password and replaces any existing session of
// that user with a fresh one carrying a new random apikey.
//
// Errors: common.ErrorNotFound when no such user exists,
// common.ErrorUnauthorized on a password mismatch. Neither touches sessions.
func (s *SessionService) Login(ctx context.Context, userName, password string) (*models.Session, error) {
	unlock, err := lockx.LockAll(ctx, s.locker, userLockKey(userName))
	if err != nil {
		return nil, fmt.Errorf("error locking username: %w", err)
	}
	defer unlock()

	user, err := s.repomanager.Users().GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	if user.UserName != userName || !s.hasher.Verify(user.Password, password) {
		return nil, common.ErrorUnauthorized
	}

	apiKey, err := s.newAPIKey()
	if err != nil {
		return nil, fmt.Errorf("error generating apikey: %w", err)
	}

	var session *models.Session
	issue := func(ctx context.Context, r repomanager.Repositories) error {
		repo := r.Sessions()

		existing, err := repo.FindByUserName(ctx, user.UserName)
		switch {
		case err == nil:
			if err := repo.Delete(ctx, existing.ID); err != nil {
				return fmt.Errorf("error revoking session: %w", err)
			}
		case !errors.Is(err, common.ErrorNotFound):
			return fmt.Errorf("error searching session: %w", err)
		}

		session, err = repo.Create(ctx, &models.Session{UserName: user.UserName, APIKey: apiKey})
		if err != nil {
			return fmt.Errorf("error creating session: %w", err)
		}
		return nil
	}

	if s.strict {
		err = s.repomanager.WithTx(ctx, issue)
	} else {
		err = issue(ctx, s.repomanager)
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// ListSessions returns every session in ascending id order.
func (s *SessionService) ListSessions(ctx context.Context) ([]*models.Session, error) {
	list, err := s.repomanager.Sessions().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	return list, nil
}
