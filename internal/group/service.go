package group

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fkhayef/splitledger/internal/split"
)

// Common errors
var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("user is already a member of this group")
	ErrNotAuthorized       = errors.New("not authorized to perform this action")
	ErrInvalidGroup        = errors.New("invalid group")
)

// Store is the persistence contract of the group service.
// Lookups return nil, nil when nothing matches.
type Store interface {
	CreateWithOwner(ctx context.Context, g *Group, owner *GroupMember) (*Group, error)
	GetByID(ctx context.Context, id int64) (*Group, error)
	ListByUserID(ctx context.Context, userID int64) ([]*Group, error)
	AddMember(ctx context.Context, m *GroupMember) (*GroupMember, error)
	GetMember(ctx context.Context, groupID, userID int64) (*GroupMember, error)
	GetMembers(ctx context.Context, groupID int64) ([]*GroupMember, error)
	UpdateMemberStatus(ctx context.Context, groupID, userID int64, status MemberStatus) (*GroupMember, error)
	RemoveMember(ctx context.Context, groupID, userID int64) error
}

// Service handles group and membership business logic.
// It also serves as the member directory for splits.
type Service struct {
	repo   Store
	logger *slog.Logger
}

// NewService creates a new group service
func NewService(repo Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Create creates a new group with the creator as its joined admin
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateGroupRequest) (*Group, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 100 {
		return nil, fmt.Errorf("%w: name must be 1 to 100 characters", ErrInvalidGroup)
	}

	owner := &GroupMember{
		UserID:      creatorID,
		DisplayName: displayName(req.DisplayName, creatorID),
		Status:      MemberStatusJoined,
		Role:        MemberRoleAdmin,
	}

	group, err := s.repo.CreateWithOwner(ctx, &Group{Name: name, Description: req.Description, CreatedBy: creatorID}, owner)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "group created", "group_id", group.ID, "created_by", creatorID)
	return group, nil
}

// GetByID retrieves a group by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Group, error) {
	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// GetByIDWithMembers retrieves a group with all its members
func (s *Service) GetByIDWithMembers(ctx context.Context, id int64) (*Group, []*GroupMember, error) {
	group, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return group, members, nil
}

// ListByUserID retrieves all groups for a user
func (s *Service) ListByUserID(ctx context.Context, userID int64) ([]*Group, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// AddMember invites a user to a group. Only admins may invite.
func (s *Service) AddMember(ctx context.Context, actorID, groupID int64, req *AddMemberRequest) (*GroupMember, error) {
	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: invalid user id", ErrInvalidGroup)
	}
	if err := s.requireAdmin(ctx, actorID, groupID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetMember(ctx, groupID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMemberAlreadyExists
	}

	role := req.Role
	if role != MemberRoleAdmin {
		role = MemberRoleMember
	}

	return s.repo.AddMember(ctx, &GroupMember{
		GroupID:     groupID,
		UserID:      req.UserID,
		DisplayName: displayName(req.DisplayName, req.UserID),
		Status:      MemberStatusInvited,
		Role:        role,
	})
}

// GetMembers retrieves all members of a group
func (s *Service) GetMembers(ctx context.Context, groupID int64) ([]*GroupMember, error) {
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.repo.GetMembers(ctx, groupID)
}

// RemoveMember removes a user from a group.
// Admins may remove anyone; members may only remove themselves.
func (s *Service) RemoveMember(ctx context.Context, actorID, groupID, userID int64) error {
	if actorID != userID {
		if err := s.requireAdmin(ctx, actorID, groupID); err != nil {
			return err
		}
	}

	if err := s.repo.RemoveMember(ctx, groupID, userID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "group member removed", "group_id", groupID, "user_id", userID, "actor_id", actorID)
	return nil
}

// AcceptInvitation allows a user to accept their group invitation
func (s *Service) AcceptInvitation(ctx context.Context, groupID, userID int64) (*GroupMember, error) {
	member, err := s.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	if member.Status != MemberStatusInvited {
		return member, nil // Already joined
	}

	return s.repo.UpdateMemberStatus(ctx, groupID, userID, MemberStatusJoined)
}

// IsMember reports whether the user has joined the group
func (s *Service) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	member, err := s.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		return false, err
	}
	return member != nil && member.Status == MemberStatusJoined, nil
}

// GetGroupMembers lists the joined members of a group for split templates and balances
func (s *Service) GetGroupMembers(ctx context.Context, groupID int64) ([]split.Member, error) {
	members, err := s.repo.GetMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	out := make([]split.Member, 0, len(members))
	for _, m := range members {
		if m.Status != MemberStatusJoined {
			continue
		}
		out = append(out, split.Member{UserID: m.UserID, DisplayName: m.DisplayName})
	}
	return out, nil
}

func (s *Service) requireAdmin(ctx context.Context, actorID, groupID int64) error {
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return err
	}

	actor, err := s.repo.GetMember(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	if actor == nil || actor.Status != MemberStatusJoined || actor.Role != MemberRoleAdmin {
		return ErrNotAuthorized
	}
	return nil
}

func displayName(name string, userID int64) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return fmt.Sprintf("User %d", userID)
}
