// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carterperez-dev/bookit/internal/auth"
	"github.com/carterperez-dev/bookit/internal/core"
	"github.com/carterperez-dev/bookit/internal/query"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("parse user id: %w", core.ErrNotFound)
	}
	return oid, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, oid)
}

func (s *Service) ListUsers(
	ctx context.Context,
	features *query.Features,
) ([]User, error) {
	return s.repo.List(ctx, features)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	id string,
	req UpdateMeRequest,
) (*User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = collapseSpaces(*req.Name)
	}
	if req.Email != nil {
		set["email"] = strings.ToLower(*req.Email)
	}
	if req.Photo != nil {
		set["photo"] = *req.Photo
	}

	if len(set) == 0 {
		return s.repo.GetByID(ctx, oid)
	}

	return s.repo.Update(ctx, oid, set)
}

func (s *Service) DeleteMe(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, oid)
}

func (s *Service) AdminUpdateUser(
	ctx context.Context,
	id string,
	req AdminUpdateUserRequest,
) (*User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = collapseSpaces(*req.Name)
	}
	if req.Email != nil {
		set["email"] = strings.ToLower(*req.Email)
	}
	if req.Photo != nil {
		set["photo"] = *req.Photo
	}
	if req.Role != nil {
		if !ValidRole(*req.Role) {
			return nil, fmt.Errorf("update user: invalid role %q: %w",
				*req.Role, core.ErrInvalidInput)
		}
		set["role"] = *req.Role
	}
	if req.Active != nil {
		set["active"] = *req.Active
	}

	if len(set) == 0 {
		return s.repo.GetByID(ctx, oid)
	}

	return s.repo.Update(ctx, oid, set)
}

// AdminDeleteUser is a hard delete, unlike the self-service
// deactivation.
func (s *Service) AdminDeleteUser(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, oid)
}

/* auth.UserProvider implementation */

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	return toUserInfo(u), nil
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	return toUserInfo(u), nil
}

func (s *Service) Create(
	ctx context.Context,
	name, email, passwordHash string,
) (*auth.UserInfo, error) {
	u := &User{
		Name:         collapseSpaces(name),
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Role:         RoleUser,
		Active:       true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return toUserInfo(u), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
	changedAt time.Time,
) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, oid, passwordHash, changedAt)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:                u.ID.Hex(),
		Name:              u.Name,
		Email:             u.Email,
		Photo:             u.Photo,
		Role:              u.Role,
		PasswordHash:      u.PasswordHash,
		PasswordChangedAt: u.PasswordChangedAt,
		CreatedAt:         u.CreatedAt,
	}
}

// collapseSpaces normalizes runs of spaces in display names.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var _ auth.UserProvider = (*Service)(nil)
