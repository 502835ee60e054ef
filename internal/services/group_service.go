package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"splitbook/internal/amqp"
	"splitbook/internal/audit"
	"splitbook/internal/core"
	"splitbook/internal/settle"
)

const groupCodeLength = 8

// GroupService manages shared groups: creation, join-by-code, member
// invitations and the simplified debt plan.
type GroupService struct {
	store    Store
	members  MemberResolver
	engine   *settle.Engine
	audit    *audit.Recorder
	notifier Notifier
	evictor  SnapshotEvictor
}

func NewGroupService(store Store, members MemberResolver, engine *settle.Engine, rec *audit.Recorder, notifier Notifier, evictor SnapshotEvictor) *GroupService {
	return &GroupService{
		store:    store,
		members:  members,
		engine:   engine,
		audit:    rec,
		notifier: notifier,
		evictor:  evictor,
	}
}

// CreateGroup starts a new group with the caller as its first member and
// returns the join code.
func (s *GroupService) CreateGroup(ctx context.Context, callerID int64) (string, error) {
	profile, err := s.store.GetProfile(ctx, callerID)
	if err != nil {
		return "", err
	}
	if profile.GroupID != "" {
		return "", fmt.Errorf("already in group %s: %w", profile.GroupID, core.ErrAlreadyInGroup)
	}

	code := newGroupCode()
	profile.GroupID = code
	if err := s.store.UpdateProfile(ctx, profile); err != nil {
		return "", fmt.Errorf("create group: %w", err)
	}

	s.evictor.Evict([]int64{profile.ID})
	s.audit.Record(ctx, "GROUP_CREATED",
		fmt.Sprintf("%s created group %s", profile.FullName, code),
		profile)
	slog.InfoContext(ctx, "Group created", "group_id", code, "profile_id", profile.ID)
	return code, nil
}

// JoinGroup adds the caller to an existing group by its code. Every
// member of the joined group gets their dashboard snapshot evicted,
// since the roster change alters all of their views.
func (s *GroupService) JoinGroup(ctx context.Context, callerID int64, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return fmt.Errorf("empty group code: %w", core.ErrNotFound)
	}

	existing, err := s.store.ListProfilesByGroup(ctx, code)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return fmt.Errorf("group %s: %w", code, core.ErrNotFound)
	}

	profile, err := s.store.GetProfile(ctx, callerID)
	if err != nil {
		return err
	}
	if profile.GroupID != "" {
		return fmt.Errorf("already in group %s: %w", profile.GroupID, core.ErrAlreadyInGroup)
	}

	profile.GroupID = code
	if err := s.store.UpdateProfile(ctx, profile); err != nil {
		return fmt.Errorf("join group: %w", err)
	}

	ids := make([]int64, 0, len(existing)+1)
	for _, m := range existing {
		ids = append(ids, m.ID)
	}
	ids = append(ids, profile.ID)
	s.evictor.Evict(ids)

	s.audit.Record(ctx, "MEMBER_JOINED",
		fmt.Sprintf("%s joined the group", profile.FullName),
		profile)
	slog.InfoContext(ctx, "Member joined group", "group_id", code, "profile_id", profile.ID)
	return nil
}

// InviteMember mails the caller's group code to the given address. The
// invitation is the whole point of the call, so unlike the other
// notifications a publish failure is returned to the caller.
func (s *GroupService) InviteMember(ctx context.Context, callerID int64, email string) error {
	profile, err := s.store.GetProfile(ctx, callerID)
	if err != nil {
		return err
	}
	if profile.GroupID == "" {
		return fmt.Errorf("caller has no group: %w", core.ErrNotFound)
	}
	if s.notifier == nil {
		return fmt.Errorf("notifications unavailable, cannot send invite")
	}

	invite := amqp.NewGroupInvite(email, profile.FullName, profile.GroupID)
	if err := s.notifier.Publish(ctx, invite); err != nil {
		return fmt.Errorf("publish invite: %w", err)
	}

	s.audit.Record(ctx, "MEMBER_INVITED",
		fmt.Sprintf("%s invited %s to the group", profile.FullName, email),
		profile)
	return nil
}

// Members returns the caller's effective member set.
func (s *GroupService) Members(ctx context.Context, callerID int64) ([]core.Profile, error) {
	return s.members.Roster(ctx, callerID)
}

// GroupDebts returns the simplified payment plan for the caller's group.
func (s *GroupService) GroupDebts(ctx context.Context, callerID int64) ([]core.SettlementInstruction, error) {
	return s.engine.SimplifyGroupDebts(ctx, callerID)
}

// Activity returns the most recent audit entries for the caller's group.
// Groupless members have no shared log and get an empty list.
func (s *GroupService) Activity(ctx context.Context, callerID int64, limit int) ([]core.ActivityEntry, error) {
	profile, err := s.store.GetProfile(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if profile.GroupID == "" {
		return []core.ActivityEntry{}, nil
	}
	return s.store.ListActivityByGroup(ctx, profile.GroupID, limit)
}

func newGroupCode() string {
	return strings.ToUpper(uuid.NewString()[:groupCodeLength])
}
