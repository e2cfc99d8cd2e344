package service

import (
	"context"
	"slot-swapper/core/constants"
	coreEntity "slot-swapper/core/entity"
	"slot-swapper/core/errors"
	"slot-swapper/core/logger"
	"slot-swapper/core/params"
	"slot-swapper/modules/notification/channel"
	"slot-swapper/modules/notification/dto"
	"slot-swapper/modules/notification/entity"
	"slot-swapper/modules/notification/mapper"
	"slot-swapper/modules/notification/queue"
	"slot-swapper/modules/notification/repository"
	"time"

	"github.com/google/uuid"
)

type NotificationServiceInterface interface {
	Notify(ctx context.Context, userID uuid.UUID, evt channel.Event)
	GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*dto.PaginatedNotificationResponse, *errors.AppError)
	MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) *errors.AppError
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) *errors.AppError
	CountUnread(ctx context.Context, userID uuid.UUID) (*dto.UnreadCountResponse, *errors.AppError)
}

type NotificationService struct {
	repo       repository.NotificationRepositoryInterface
	channel    channel.Channel
	dispatcher queue.Dispatcher
}

func NewNotificationService(repo repository.NotificationRepositoryInterface, ch channel.Channel, dispatcher queue.Dispatcher) *NotificationService {
	if dispatcher == nil {
		dispatcher = queue.Discard{}
	}
	return &NotificationService{
		repo:       repo,
		channel:    ch,
		dispatcher: dispatcher,
	}
}

func titleFor(eventType string) string {
	switch eventType {
	case constants.EventSwapRequestReceived:
		return "Swap request received"
	case constants.EventSwapRequestAccepted:
		return "Swap request accepted"
	case constants.EventSwapRequestRejected:
		return "Swap request rejected"
	default:
		return "Notification"
	}
}

// Notify pushes evt to userID's live subscriptions and hands a copy to the inbox.
// Neither step can fail the caller.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, evt channel.Event) {
	s.channel.Publish(userID, evt)

	now := evt.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}
	s.dispatcher.Dispatch(ctx, &entity.Notification{
		UserID:  userID,
		Title:   titleFor(evt.Type),
		Message: evt.Message,
		Type:    evt.Type,
		Data:    entity.JSONB(evt.Data),
		BaseEntity: coreEntity.BaseEntity{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	})

	logger.Debug("NotificationService:Notify", "user_id", userID, "type", evt.Type)
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*dto.PaginatedNotificationResponse, *errors.AppError) {
	page, err := s.repo.GetByUserID(ctx, userID, queryParams)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get notifications", err)
	}
	return mapper.ToPaginatedNotificationDTO(page), nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) *errors.AppError {
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return errors.NewAppError(errors.ErrInvalidInput, "invalid notification id", err)
		}
		parsed = append(parsed, id)
	}

	if err := s.repo.MarkAsRead(ctx, userID, parsed); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to mark as read", err)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) *errors.AppError {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to mark all as read", err)
	}
	return nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (*dto.UnreadCountResponse, *errors.AppError) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to count unread", err)
	}
	return &dto.UnreadCountResponse{Count: count}, nil
}
