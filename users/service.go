package users

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kbukum/userservice/clients"
	"github.com/kbukum/userservice/clients/userdata"
	apperrors "github.com/kbukum/userservice/errors"
	"github.com/kbukum/userservice/logger"
	"github.com/kbukum/userservice/notification"
)

// Store is the user data service as seen by this package.
type Store interface {
	Register(ctx context.Context, reg userdata.Registration) (userdata.User, error)
	List(ctx context.Context, page, size int) (userdata.Page, error)
	GetUserByID(ctx context.Context, id int64) (userdata.User, error)
	Update(ctx context.Context, id int64, u userdata.Update) (userdata.User, error)
	Delete(ctx context.Context, id int64) error
	VerifyAccount(ctx context.Context, id int64) (userdata.AccountStatusResult, error)
}

// Hasher hashes passwords before they leave the service.
type Hasher interface {
	Hash(password string) (string, error)
}

// Notifier announces account events.
type Notifier interface {
	UserRegistered(ctx context.Context, c notification.Contact)
	UserVerified(ctx context.Context, c notification.Contact)
}

var notFound = clients.StatusMap{http.StatusNotFound: apperrors.UserNotFound}

// Service implements the user operations.
type Service struct {
	store    Store
	hasher   Hasher
	notifier Notifier
	log      *logger.Logger
}

// NewService creates a Service.
func NewService(store Store, hasher Hasher, notifier Notifier, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		hasher:   hasher,
		notifier: notifier,
		log:      log.WithComponent("users"),
	}
}

func contactOf(u userdata.User) notification.Contact {
	return notification.Contact{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

// Register creates an account with a hashed password and emits
// USER_REGISTERED carrying the activation link.
func (s *Service) Register(ctx context.Context, req Registration) (userdata.User, error) {
	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return userdata.User{}, apperrors.Internal(fmt.Errorf("hash password: %w", err))
	}

	user, err := s.store.Register(ctx, userdata.Registration{
		Email:    req.Email,
		Password: hashed,
		Name:     req.Name,
		Phone:    req.Phone,
	})
	if err != nil {
		return userdata.User{}, clients.Translate(clients.ServiceUserData, err, clients.StatusMap{
			http.StatusConflict: apperrors.DuplicateEmail,
		})
	}

	s.log.WithContext(ctx).Info("User registered", logger.Fields(logger.FieldUserID, user.ID))
	s.notifier.UserRegistered(ctx, contactOf(user))
	return user, nil
}

// List returns one page of users.
func (s *Service) List(ctx context.Context, page, size int) (userdata.Page, error) {
	p, err := s.store.List(ctx, page, size)
	if err != nil {
		return userdata.Page{}, clients.Translate(clients.ServiceUserData, err, nil)
	}
	return p, nil
}

// Get returns a single user.
func (s *Service) Get(ctx context.Context, id int64) (userdata.User, error) {
	u, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return userdata.User{}, clients.Translate(clients.ServiceUserData, err, notFound)
	}
	return u, nil
}

// Update replaces the profile of a verified account.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (userdata.User, error) {
	mapping := clients.StatusMap{
		http.StatusNotFound:      apperrors.UserNotFound,
		http.StatusNotAcceptable: apperrors.AccountNotVerified,
		http.StatusConflict:      apperrors.DuplicateEmail,
	}

	current, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return userdata.User{}, clients.Translate(clients.ServiceUserData, err, mapping)
	}
	if current.AccountStatus != userdata.StatusVerified {
		s.log.WithContext(ctx).Warn("Update rejected, account not verified", logger.Fields(
			logger.FieldUserID, id,
			"account_status", string(current.AccountStatus),
		))
		return userdata.User{}, apperrors.AccountNotVerified()
	}

	updated, err := s.store.Update(ctx, id, userdata.Update{Email: req.Email, Name: req.Name, Phone: req.Phone})
	if err != nil {
		return userdata.User{}, clients.Translate(clients.ServiceUserData, err, mapping)
	}
	s.log.WithContext(ctx).Info("User updated", logger.Fields(logger.FieldUserID, id))
	return updated, nil
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return clients.Translate(clients.ServiceUserData, err, notFound)
	}
	s.log.WithContext(ctx).Info("User deleted", logger.Fields(logger.FieldUserID, id))
	return nil
}

// VerifyAccount activates a pending account and emits USER_VERIFIED.
// Verified and deleted accounts cannot be verified again.
func (s *Service) VerifyAccount(ctx context.Context, id int64) (userdata.AccountStatusResult, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return userdata.AccountStatusResult{}, clients.Translate(clients.ServiceUserData, err, notFound)
	}
	switch user.AccountStatus {
	case userdata.StatusVerified:
		return userdata.AccountStatusResult{}, apperrors.InvalidUserStatus("User account is already verified")
	case userdata.StatusDeleted:
		return userdata.AccountStatusResult{}, apperrors.InvalidUserStatus("User account has been deleted")
	}

	res, err := s.store.VerifyAccount(ctx, id)
	if err != nil {
		return userdata.AccountStatusResult{}, clients.Translate(clients.ServiceUserData, err, notFound)
	}
	s.log.WithContext(ctx).Info("User verified", logger.Fields(logger.FieldUserID, id))
	s.notifier.UserVerified(ctx, contactOf(user))
	return res, nil
}
