package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	repo "github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/pkg/validation"
)

// Messages returned to API clients for the service's sentinel errors.
const (
	MsgConflict           = "User account already exists"
	MsgNotFound           = "User not exists."
	MsgInvalidCredentials = "Invalid Credentials"
)

var (
	ErrConflict           = errors.New("account already exists")
	ErrNotFound           = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError names the first required field that was missing.
type ValidationError = validation.FieldError

const (
	defaultSearchSize = 10
	maxSearchSize     = 100
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

type TokenIssuer interface {
	Issue(userID, email string) (string, time.Time, error)
}

// AccountIndex is the search side of the directory. Writes to it are best-effort.
type AccountIndex interface {
	Index(ctx context.Context, a *entity.Account) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]map[string]any, error)
}

type Service struct {
	Repo     repo.AccountRepository
	Hasher   PasswordHasher
	Tokens   TokenIssuer
	Logger   *logrus.Logger
	Index    AccountIndex // optional
	Notifier Notifier     // optional
}

func NewService(r repo.AccountRepository, hasher PasswordHasher, tokens TokenIssuer, logger *logrus.Logger) *Service {
	return &Service{Repo: r, Hasher: hasher, Tokens: tokens, Logger: logger}
}

// PublicAccount is the account view returned by registration.
type PublicAccount struct {
	ID       string  `json:"id"`
	FullName *string `json:"fullname"`
	Email    string  `json:"email"`
	Mobile   string  `json:"mobile"`
}

// LoginResult is the account view returned by login, carrying the new bearer token.
type LoginResult struct {
	PublicAccount
	Role  string `json:"role"`
	Token string `json:"token"`
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Mobile   string
}

func toPublic(a *entity.Account) PublicAccount {
	return PublicAccount{ID: a.ID, FullName: a.FullName, Email: a.Email, Mobile: a.Mobile}
}

// NormalizeEmail trims and lowercases an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isAccountID(id string) bool {
	return validation.First(validation.Rule{Field: "id", Value: id, Tag: "uuid"}) == nil
}

func (s *Service) warn(err error, id, msg string) {
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("account_id", id).Warn(msg)
	}
}

// Register creates an account and issues its first token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*PublicAccount, error) {
	email := NormalizeEmail(in.Email)
	if verr := validation.First(
		validation.Required("email", email, "Email is required."),
		validation.Required("password", in.Password, "Password is required."),
		validation.Required("fullName", in.FullName, "Name is required."),
		validation.Required("mobile", in.Mobile, "Mobile is required."),
	); verr != nil {
		return nil, verr
	}

	existing, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	name := in.FullName
	a := &entity.Account{
		FullName:     &name,
		Email:        email,
		PasswordHash: hash,
		Mobile:       in.Mobile,
		Role:         entity.DefaultRole,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrConflict
		}
		return nil, err
	}

	// An account that cannot be issued a token is removed again.
	token, _, err := s.Tokens.Issue(a.ID, a.Email)
	if err != nil {
		if derr := s.Repo.Delete(ctx, a.ID); derr != nil {
			s.warn(derr, a.ID, "rollback of unregistered account failed")
		}
		return nil, err
	}
	if err := s.Repo.SetToken(ctx, a.ID, token); err != nil {
		s.warn(err, a.ID, "persist register token failed")
	} else {
		a.Token = &token
	}

	s.indexAccount(ctx, a)
	if s.Notifier != nil {
		if err := s.Notifier.Welcome(ctx, a); err != nil {
			s.warn(err, a.ID, "enqueue welcome email failed")
		}
	}

	out := toPublic(a)
	return &out, nil
}

// Login checks credentials and issues a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = NormalizeEmail(email)
	if verr := validation.First(
		validation.Required("email", email, "Email is required."),
		validation.Required("password", password, "Password is required."),
	); verr != nil {
		return nil, verr
	}

	a, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	if !s.Hasher.Verify(password, a.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, _, err := s.Tokens.Issue(a.ID, a.Email)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetToken(ctx, a.ID, token); err != nil {
		return nil, err
	}
	return &LoginResult{PublicAccount: toPublic(a), Role: a.Role, Token: token}, nil
}

// List returns raw accounts, optionally narrowed to one id.
func (s *Service) List(ctx context.Context, id *string) ([]entity.Account, error) {
	accounts, err := s.Repo.List(ctx, entity.ListFilter{ID: id})
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []entity.Account{}
	}
	return accounts, nil
}

// Update applies a profile patch. Empty fields in the patch are ignored.
func (s *Service) Update(ctx context.Context, id string, patch entity.AccountPatch) (*entity.Account, error) {
	if !isAccountID(id) {
		return nil, ErrNotFound
	}
	current, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}

	patch = compactPatch(patch)
	if patch.IsEmpty() {
		return current, nil
	}
	if patch.Email != nil {
		email := NormalizeEmail(*patch.Email)
		patch.Email = &email
		if email != current.Email {
			other, err := s.Repo.FindByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != id {
				return nil, ErrConflict
			}
		}
	}

	updated, err := s.Repo.Update(ctx, id, patch)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return nil, ErrNotFound
	case errors.Is(err, repo.ErrDuplicateEmail):
		return nil, ErrConflict
	case err != nil:
		return nil, err
	}

	s.indexAccount(ctx, updated)
	if s.Notifier != nil {
		if changes := diff(current, updated); len(changes) > 0 {
			if err := s.Notifier.ProfileUpdated(ctx, updated, changes); err != nil {
				s.warn(err, id, "enqueue profile update email failed")
			}
		}
	}
	return updated, nil
}

// Delete removes an account permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	if !isAccountID(id) {
		return ErrNotFound
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			s.warn(err, id, "remove from search index failed")
		}
	}
	return nil
}

// Search queries the account index. Without an index it returns no hits.
func (s *Service) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.Index == nil || strings.TrimSpace(q) == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 {
		size = defaultSearchSize
	}
	if size > maxSearchSize {
		size = maxSearchSize
	}
	hits, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, err
	}
	if hits == nil {
		hits = []map[string]any{}
	}
	return hits, nil
}

func (s *Service) indexAccount(ctx context.Context, a *entity.Account) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, a); err != nil {
		s.warn(err, a.ID, "index account failed")
	}
}

func compactPatch(p entity.AccountPatch) entity.AccountPatch {
	blank := func(v *string) *string {
		if v == nil || strings.TrimSpace(*v) == "" {
			return nil
		}
		return v
	}
	return entity.AccountPatch{FullName: blank(p.FullName), Email: blank(p.Email), Mobile: blank(p.Mobile)}
}

func diff(before, after *entity.Account) map[string]string {
	changes := map[string]string{}
	if deref(before.FullName) != deref(after.FullName) {
		changes["Name"] = deref(after.FullName)
	}
	if before.Email != after.Email {
		changes["Email"] = after.Email
	}
	if before.Mobile != after.Mobile {
		changes["Mobile"] = after.Mobile
	}
	return changes
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
