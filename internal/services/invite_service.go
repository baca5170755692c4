package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/tsukinami/ctf-platform-api/internal/models"
	"github.com/tsukinami/ctf-platform-api/internal/repository"
	"github.com/tsukinami/ctf-platform-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInviteNotFound      = errors.New("invite not found")
	ErrInviteLinkNotFound  = errors.New("invite link not found")
	ErrInvitedUserNotFound = errors.New("user with this username does not exist")
	ErrInviteExists        = errors.New("a pending invite already exists for this user")
	ErrInviteNotPending    = errors.New("invite is no longer pending")
	ErrInviteExpired       = errors.New("invite has expired")
	ErrNotYourInvite       = errors.New("this invite is not for you")
)

// InviteService manages the invite lifecycle for both user invites and
// bearer invite links.
type InviteService struct {
	inviteRepo repository.InviteRepository
	gameRepo   repository.GameRepository
	userRepo   repository.UserRepository
}

// NewInviteService creates a new InviteService.
func NewInviteService(
	inviteRepo repository.InviteRepository,
	gameRepo repository.GameRepository,
	userRepo repository.UserRepository,
) *InviteService {
	return &InviteService{
		inviteRepo: inviteRepo,
		gameRepo:   gameRepo,
		userRepo:   userRepo,
	}
}

func (s *InviteService) requireGameAdmin(gameID, actorID uint64) (*models.Game, error) {
	game, err := s.gameRepo.FindByID(gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to find game: %w", err)
	}
	if game.AdminID != actorID {
		return nil, ErrNotGameAdmin
	}
	return game, nil
}

// CreateUserInviteInput represents parameters to invite a user by username.
type CreateUserInviteInput struct {
	GameID    uint64
	ActorID   uint64
	Username  string
	Message   string
	ExpiresAt *time.Time
}

// CreateUserInvite creates a pending invite addressed to a username. A user
// may hold at most one pending invite per game; duplicates are rejected.
func (s *InviteService) CreateUserInvite(input CreateUserInviteInput) (*models.UserInvite, error) {
	if _, err := s.requireGameAdmin(input.GameID, input.ActorID); err != nil {
		return nil, err
	}

	target, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitedUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.inviteRepo.FindPendingUserInvite(input.GameID, target.ID); err == nil {
		return nil, ErrInviteExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing invite: %w", err)
	}

	invite := &models.UserInvite{
		GameID:        input.GameID,
		InvitedUserID: target.ID,
		InvitedByID:   input.ActorID,
		Message:       input.Message,
		Status:        models.InviteStatusPending,
		ExpiresAt:     input.ExpiresAt,
	}

	if err := s.inviteRepo.CreateUserInvite(invite); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	return invite, nil
}

// CreateInviteLinkInput represents parameters to create an invite link.
type CreateInviteLinkInput struct {
	GameID      uint64
	ActorID     uint64
	Message     string
	ExpiresAt   *time.Time
	IsSingleUse bool
}

// CreateInviteLink creates a bearer invite link with a random token.
func (s *InviteService) CreateInviteLink(input CreateInviteLinkInput) (*models.InviteLink, error) {
	if _, err := s.requireGameAdmin(input.GameID, input.ActorID); err != nil {
		return nil, err
	}

	code, err := utils.GenerateInviteToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}

	usage := models.LinkUsageUnlimited
	if input.IsSingleUse {
		usage = models.LinkUsageSingleUse
	}

	link := &models.InviteLink{
		GameID:      input.GameID,
		InviteCode:  code,
		InvitedByID: input.ActorID,
		Message:     input.Message,
		Status:      models.InviteStatusPending,
		Usage:       usage,
		ExpiresAt:   input.ExpiresAt,
	}

	if err := s.inviteRepo.CreateInviteLink(link); err != nil {
		return nil, fmt.Errorf("failed to create invite link: %w", err)
	}

	return link, nil
}

// GetGameInvites returns all invites and invite links for a game (admin only).
func (s *InviteService) GetGameInvites(gameID, actorID uint64) ([]models.UserInvite, []models.InviteLink, error) {
	if _, err := s.requireGameAdmin(gameID, actorID); err != nil {
		return nil, nil, err
	}

	invites, err := s.inviteRepo.ListUserInvitesByGame(gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list invites: %w", err)
	}

	links, err := s.inviteRepo.ListInviteLinksByGame(gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list invite links: %w", err)
	}

	return invites, links, nil
}

// GetMyInvites returns the user's pending invites.
func (s *InviteService) GetMyInvites(userID uint64) ([]models.UserInvite, error) {
	invites, err := s.inviteRepo.ListPendingUserInvitesForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	return invites, nil
}

// GetInviteLink resolves an invite code to a joinable link, validating its
// state and expiry. Used by the public invite landing page.
func (s *InviteService) GetInviteLink(code string) (*models.InviteLink, error) {
	link, err := s.inviteRepo.FindInviteLinkByCode(code, "Game", "InvitedBy")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteLinkNotFound
		}
		return nil, fmt.Errorf("failed to find invite link: %w", err)
	}

	if link.Status != models.InviteStatusPending {
		return nil, ErrInviteNotPending
	}
	if link.IsExpired(time.Now()) {
		return nil, ErrInviteExpired
	}

	return link, nil
}

// AcceptUserInvite accepts a pending invite addressed to the caller. The
// status update and participant insert are one atomic unit.
func (s *InviteService) AcceptUserInvite(inviteID, userID uint64) (*models.UserInvite, error) {
	invite, err := s.inviteRepo.FindUserInviteByID(inviteID, "Game")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to find invite: %w", err)
	}

	if invite.InvitedUserID != userID {
		return nil, ErrNotYourInvite
	}
	if invite.Status != models.InviteStatusPending {
		return nil, ErrInviteNotPending
	}
	if invite.IsExpired(time.Now()) {
		return nil, ErrInviteExpired
	}
	if invite.Game.HasEnded(time.Now()) {
		return nil, ErrGameEnded
	}

	if _, err := s.gameRepo.FindParticipant(invite.GameID, userID); err == nil {
		return nil, ErrAlreadyParticipant
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify participation: %w", err)
	}

	participant := &models.GameParticipant{
		GameID:   invite.GameID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}

	if err := s.inviteRepo.AcceptUserInvite(invite, participant); err != nil {
		switch {
		case errors.Is(err, repository.ErrInviteNotPending):
			return nil, ErrInviteNotPending
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrAlreadyParticipant
		default:
			return nil, fmt.Errorf("failed to accept invite: %w", err)
		}
	}

	return invite, nil
}

// AcceptInviteLink redeems an invite code for the caller. Single-use links
// are spent atomically with the participant insert; unlimited links stay
// redeemable.
func (s *InviteService) AcceptInviteLink(code string, userID uint64) (*models.InviteLink, error) {
	link, err := s.inviteRepo.FindInviteLinkByCode(code, "Game")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteLinkNotFound
		}
		return nil, fmt.Errorf("failed to find invite link: %w", err)
	}

	if link.Status != models.InviteStatusPending {
		return nil, ErrInviteNotPending
	}
	if link.IsExpired(time.Now()) {
		return nil, ErrInviteExpired
	}
	if link.Game.HasEnded(time.Now()) {
		return nil, ErrGameEnded
	}

	if _, err := s.gameRepo.FindParticipant(link.GameID, userID); err == nil {
		return nil, ErrAlreadyParticipant
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify participation: %w", err)
	}

	participant := &models.GameParticipant{
		GameID:   link.GameID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}

	if err := s.inviteRepo.RedeemInviteLink(link, participant); err != nil {
		switch {
		case errors.Is(err, repository.ErrInviteNotPending):
			return nil, ErrInviteNotPending
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrAlreadyParticipant
		default:
			return nil, fmt.Errorf("failed to redeem invite link: %w", err)
		}
	}

	return link, nil
}

// DeclineUserInvite declines a pending invite addressed to the caller.
func (s *InviteService) DeclineUserInvite(inviteID, userID uint64) error {
	invite, err := s.inviteRepo.FindUserInviteByID(inviteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInviteNotFound
		}
		return fmt.Errorf("failed to find invite: %w", err)
	}

	if invite.InvitedUserID != userID {
		return ErrNotYourInvite
	}

	if err := s.inviteRepo.TransitionUserInvite(inviteID, models.InviteStatusDeclined); err != nil {
		if errors.Is(err, repository.ErrInviteNotPending) {
			return ErrInviteNotPending
		}
		return fmt.Errorf("failed to decline invite: %w", err)
	}

	return nil
}

// CancelUserInvite cancels a pending invite (game admin only).
func (s *InviteService) CancelUserInvite(inviteID, actorID uint64) error {
	invite, err := s.inviteRepo.FindUserInviteByID(inviteID, "Game")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInviteNotFound
		}
		return fmt.Errorf("failed to find invite: %w", err)
	}

	if invite.Game.AdminID != actorID {
		return ErrNotGameAdmin
	}

	if err := s.inviteRepo.TransitionUserInvite(inviteID, models.InviteStatusDeleted); err != nil {
		if errors.Is(err, repository.ErrInviteNotPending) {
			return ErrInviteNotPending
		}
		return fmt.Errorf("failed to cancel invite: %w", err)
	}

	return nil
}

// CancelInviteLink cancels a pending invite link (game admin only).
func (s *InviteService) CancelInviteLink(linkID, actorID uint64) error {
	link, err := s.inviteRepo.FindInviteLinkByID(linkID, "Game")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInviteLinkNotFound
		}
		return fmt.Errorf("failed to find invite link: %w", err)
	}

	if link.Game.AdminID != actorID {
		return ErrNotGameAdmin
	}

	if err := s.inviteRepo.TransitionInviteLink(linkID, models.InviteStatusDeleted); err != nil {
		if errors.Is(err, repository.ErrInviteNotPending) {
			return ErrInviteNotPending
		}
		return fmt.Errorf("failed to cancel invite link: %w", err)
	}

	return nil
}

// BulkInviteError records why one username in a batch could not be invited.
type BulkInviteError struct {
	Username string `json:"username"`
	Reason   string `json:"reason"`
}

// BulkUserInviteInput represents parameters to invite several usernames.
type BulkUserInviteInput struct {
	GameID    uint64
	ActorID   uint64
	Usernames []string
	Message   string
	ExpiresAt *time.Time
}

// BulkUserInvite processes each username independently: one bad username
// does not abort the batch. Successes and failures are returned side by side.
func (s *InviteService) BulkUserInvite(input BulkUserInviteInput) ([]models.UserInvite, []BulkInviteError, error) {
	if _, err := s.requireGameAdmin(input.GameID, input.ActorID); err != nil {
		return nil, nil, err
	}

	invites := make([]models.UserInvite, 0, len(input.Usernames))
	failures := make([]BulkInviteError, 0)

	for _, username := range input.Usernames {
		invite, err := s.CreateUserInvite(CreateUserInviteInput{
			GameID:    input.GameID,
			ActorID:   input.ActorID,
			Username:  username,
			Message:   input.Message,
			ExpiresAt: input.ExpiresAt,
		})
		if err != nil {
			failures = append(failures, BulkInviteError{
				Username: username,
				Reason:   err.Error(),
			})
			continue
		}
		invites = append(invites, *invite)
	}

	return invites, failures, nil
}
