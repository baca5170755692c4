package repository

import (
	"github.com/tsukinami/ctf-platform-api/internal/models"
	"github.com/tsukinami/ctf-platform-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error
}

// GameRepository defines the interface for game data access
type GameRepository interface {
	// CreateWithAdmin creates a game and its admin's participant row
	// within a single transaction.
	CreateWithAdmin(game *models.Game, participant *models.GameParticipant) error

	// FindByID finds a game by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Game, error)

	// List retrieves games with pagination, newest first
	List(params utils.PaginationParams) ([]models.Game, int64, error)

	// Update updates a game
	Update(game *models.Game) error

	// AddParticipant adds a participant to a game
	AddParticipant(participant *models.GameParticipant) error

	// FindParticipant finds a specific game participant
	FindParticipant(gameID, userID uint64) (*models.GameParticipant, error)

	// CountHostedByUser counts games administered by the user
	CountHostedByUser(userID uint64) (int64, error)

	// CountPlayedByUser counts games joined by the user, excluding ones they administer
	CountPlayedByUser(userID uint64) (int64, error)

	// FirstParticipation returns the user's earliest participant row
	FirstParticipation(userID uint64) (*models.GameParticipant, error)
}

// ChallengeRepository defines the interface for challenge data access
type ChallengeRepository interface {
	// Create creates a new challenge
	Create(challenge *models.Challenge) error

	// FindByID finds a challenge by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Challenge, error)

	// ListByGame lists a game's challenges ordered by point value
	ListByGame(gameID uint64) ([]models.Challenge, error)
}

// SubmissionRepository defines the interface for the append-only submission log
type SubmissionRepository interface {
	// CreateAttempt records an attempt after re-checking, inside one
	// transaction, that the user has neither solved the challenge nor
	// submitted this exact flag before. Returns ErrChallengeSolved or
	// ErrAttemptExists when a check fails; on success the row is
	// persisted regardless of whether the flag is correct.
	CreateAttempt(submission *models.Submission, challengeFlag string) error

	// ListByGame lists all submissions against a game's challenges,
	// with user and challenge loaded
	ListByGame(gameID uint64) ([]models.Submission, error)

	// ListByUserAndGame lists the user's submissions for a game, newest first
	ListByUserAndGame(userID, gameID uint64) ([]models.Submission, error)

	// FindFirstByUserAndChallenge returns the user's earliest submission
	// for a challenge
	FindFirstByUserAndChallenge(userID, challengeID uint64) (*models.Submission, error)

	// HasMatchingSubmission reports whether the user has submitted the
	// given flag for the challenge
	HasMatchingSubmission(userID, challengeID uint64, flag string) (bool, error)
}

// InviteRepository defines the interface for invite and invite link data access
type InviteRepository interface {
	// CreateUserInvite creates a new user invite
	CreateUserInvite(invite *models.UserInvite) error

	// FindUserInviteByID finds a user invite by ID with optional preloading
	FindUserInviteByID(id uint64, preload ...string) (*models.UserInvite, error)

	// FindPendingUserInvite finds a pending invite for a user and game
	FindPendingUserInvite(gameID, invitedUserID uint64) (*models.UserInvite, error)

	// ListUserInvitesByGame lists all user invites for a game, newest first
	ListUserInvitesByGame(gameID uint64) ([]models.UserInvite, error)

	// ListPendingUserInvitesForUser lists a user's pending invites, newest first
	ListPendingUserInvitesForUser(userID uint64) ([]models.UserInvite, error)

	// AcceptUserInvite marks a pending invite accepted and inserts the
	// participant row in one transaction. Returns ErrInviteNotPending if
	// the invite left PENDING in the meantime.
	AcceptUserInvite(invite *models.UserInvite, participant *models.GameParticipant) error

	// TransitionUserInvite moves a pending user invite to the given
	// terminal status. Returns ErrInviteNotPending if it is not PENDING.
	TransitionUserInvite(id uint64, to models.InviteStatus) error

	// CreateInviteLink creates a new invite link
	CreateInviteLink(link *models.InviteLink) error

	// FindInviteLinkByID finds an invite link by ID with optional preloading
	FindInviteLinkByID(id uint64, preload ...string) (*models.InviteLink, error)

	// FindInviteLinkByCode finds an invite link by its code with optional preloading
	FindInviteLinkByCode(code string, preload ...string) (*models.InviteLink, error)

	// ListInviteLinksByGame lists all invite links for a game, newest first
	ListInviteLinksByGame(gameID uint64) ([]models.InviteLink, error)

	// RedeemInviteLink records a redemption and inserts the participant
	// row in one transaction. Single-use links move to USED/REDEEMED;
	// unlimited links stay PENDING. Returns ErrInviteNotPending if the
	// link left PENDING in the meantime.
	RedeemInviteLink(link *models.InviteLink, participant *models.GameParticipant) error

	// TransitionInviteLink moves a pending invite link to the given
	// terminal status. Returns ErrInviteNotPending if it is not PENDING.
	TransitionInviteLink(id uint64, to models.InviteStatus) error
}
