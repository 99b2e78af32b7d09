package proposals

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/apperror"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/identity"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/metrics"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
)

var (
	ErrFieldsRequired    = apperror.Validation("필수 필드가 누락되었습니다. (proposerId, receiverId, title, message)")
	ErrReceiverNotFound  = apperror.Validation("수신자를 찾을 수 없습니다.")
	ErrSelfProposal      = apperror.Validation("자기 자신에게는 만남을 제안할 수 없습니다.")
	ErrInvalidDateTime   = apperror.Validation("proposedDateTime 형식이 올바르지 않습니다. (RFC 3339)")
	ErrStatusRequired    = apperror.Validation("status 필드가 필요합니다.")
	ErrInvalidStatus     = apperror.Validation("유효하지 않은 상태입니다. 허용된 값: " + statusList())
	ErrProposalNotFound  = apperror.NotFound("제안을 찾을 수 없습니다.")
	ErrNotParticipant    = apperror.Forbidden("이 제안을 조회할 권한이 없습니다.")
	ErrReceiverOnly      = apperror.Forbidden("제안을 받은 사용자만 상태를 변경할 수 있습니다.")
	ErrIllegalTransition = apperror.Conflict("현재 상태에서 요청한 상태로 변경할 수 없습니다.")
)

type CreateInput struct {
	ReceiverID       string
	Title            string
	Message          string
	ProposedDateTime string
	Location         string
}

// ProposalService runs the meeting-proposal lifecycle.
type ProposalService struct {
	db     *gorm.DB
	policy TransitionPolicy
}

func NewProposalService(db *gorm.DB, policy TransitionPolicy) *ProposalService {
	return &ProposalService{db: db, policy: policy}
}

func withParties(db *gorm.DB) *gorm.DB {
	return db.Preload("Proposer").Preload("Receiver")
}

func (s *ProposalService) Create(ctx context.Context, proposer *models.User, in CreateInput) (*MeetingProposal, error) {
	if in.ReceiverID == "" || strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Message) == "" {
		return nil, ErrFieldsRequired
	}

	db := s.db.WithContext(ctx)
	receiver, err := identity.FindUser(db, in.ReceiverID)
	if err != nil {
		if errors.Is(err, identity.ErrUnknown) {
			return nil, ErrReceiverNotFound
		}
		return nil, apperror.Internal(err)
	}
	if receiver.ID == proposer.ID {
		return nil, ErrSelfProposal
	}

	var proposedAt *time.Time
	if in.ProposedDateTime != "" {
		t, err := time.Parse(time.RFC3339, in.ProposedDateTime)
		if err != nil {
			return nil, ErrInvalidDateTime
		}
		proposedAt = &t
	}
	var location *string
	if in.Location != "" {
		location = &in.Location
	}

	proposal := &MeetingProposal{
		ProposerID:       proposer.ID,
		ReceiverID:       receiver.ID,
		Title:            in.Title,
		Message:          in.Message,
		Status:           StatusPending,
		ProposedDateTime: proposedAt,
		Location:         location,
	}
	if err := db.Omit("Proposer", "Receiver").Create(proposal).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	return s.load(ctx, proposal.ID)
}

// Sent lists proposals user made, newest first.
func (s *ProposalService) Sent(ctx context.Context, user *models.User) ([]MeetingProposal, error) {
	return s.list(ctx, "proposer_id = ?", user.ID)
}

// Received lists proposals addressed to user, newest first.
func (s *ProposalService) Received(ctx context.Context, user *models.User) ([]MeetingProposal, error) {
	return s.list(ctx, "receiver_id = ?", user.ID)
}

func (s *ProposalService) list(ctx context.Context, cond string, userID uuid.UUID) ([]MeetingProposal, error) {
	var proposals []MeetingProposal
	err := s.db.WithContext(ctx).
		Scopes(withParties).
		Where(cond, userID).
		Order("created_at DESC").
		Find(&proposals).Error
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return proposals, nil
}

// Get returns a proposal to one of its two parties.
func (s *ProposalService) Get(ctx context.Context, caller *models.User, proposalID string) (*MeetingProposal, error) {
	proposal, err := s.find(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.ProposerID != caller.ID && proposal.ReceiverID != caller.ID {
		return nil, ErrNotParticipant
	}
	return s.load(ctx, proposal.ID)
}

// ParseRequestedStatus validates a status value from a request.
func ParseRequestedStatus(raw string) (Status, error) {
	if raw == "" {
		return "", ErrStatusRequired
	}
	status, ok := ParseStatus(raw)
	if !ok {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// UpdateStatus moves the proposal to status on behalf of its receiver.
func (s *ProposalService) UpdateStatus(ctx context.Context, caller *models.User, proposalID string, status Status) (*MeetingProposal, error) {
	proposal, err := s.find(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.ReceiverID != caller.ID {
		return nil, ErrReceiverOnly
	}
	if !s.policy.Allow(proposal.Status, status) {
		return nil, ErrIllegalTransition
	}

	query := s.db.WithContext(ctx).Model(&MeetingProposal{}).Where("id = ?", proposal.ID)
	if _, strict := s.policy.(StrictPolicy); strict {
		// Guards against a concurrent change between the read and the write.
		query = query.Where("status = ?", proposal.Status)
	}
	result := query.Update("status", status)
	if result.Error != nil {
		return nil, apperror.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrIllegalTransition
	}

	metrics.ProposalStatusChanges.WithLabelValues(string(status)).Inc()
	slog.InfoContext(ctx, "proposal status changed",
		"proposal_id", proposal.ID,
		"from", proposal.Status,
		"to", status,
	)
	return s.load(ctx, proposal.ID)
}

func (s *ProposalService) find(ctx context.Context, proposalID string) (*MeetingProposal, error) {
	id, err := uuid.Parse(proposalID)
	if err != nil {
		return nil, ErrProposalNotFound
	}
	var proposal MeetingProposal
	if err := s.db.WithContext(ctx).First(&proposal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, apperror.Internal(err)
	}
	return &proposal, nil
}

func (s *ProposalService) load(ctx context.Context, id uuid.UUID) (*MeetingProposal, error) {
	var proposal MeetingProposal
	if err := s.db.WithContext(ctx).Scopes(withParties).First(&proposal, "id = ?", id).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	return &proposal, nil
}
