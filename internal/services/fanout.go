package services

import (
	"context"
	"fmt"
	"sync"

	"jobnest_backend/internal/logger"
	"jobnest_backend/internal/models"
	"jobnest_backend/internal/repositories"
	"jobnest_backend/ws"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

const defaultFanOutConcurrency = 8

// DeliveryReport - итог рассылки NEW_JOB. Только для логов, HTTP-ответ от него не зависит
type DeliveryReport struct {
	Recipients int
	Delivered  int
	Failed     int
	Err        error
}

// FanOut превращает доменные события в уведомления и push-события.
// Вызывается после коммита и доводит рассылку до конца даже при отмене запроса
type FanOut interface {
	OnFollowRequest(ctx context.Context, request *models.Notification, senderName string)
	OnFollowAccepted(ctx context.Context, request, accepted *models.Notification, accepterName string)
	OnJobPosted(ctx context.Context, poster *models.User, job *models.Job) *DeliveryReport
	PushSnapshots(ctx context.Context, userIDs ...string)
	OnDirectMessage(ctx context.Context, message *models.Message, sender *models.User)
	// OnGroupRoomMessage - в комнату группы (POST /chat/send с group)
	OnGroupRoomMessage(ctx context.Context, message *models.Message)
	// OnGroupMessage - в личные комнаты участников, кроме отправителя
	OnGroupMessage(ctx context.Context, message *models.Message, group *models.Group)
}

type fanOut struct {
	store       repositories.Store
	push        PushEmitter
	concurrency int
}

func NewFanOut(store repositories.Store, push PushEmitter) FanOut {
	return &fanOut{store: store, push: push, concurrency: defaultFanOutConcurrency}
}

func (f *fanOut) OnFollowRequest(ctx context.Context, request *models.Notification, senderName string) {
	ctx = context.WithoutCancel(ctx)
	f.push.Emit(ctx, ws.UserRoom(request.RecipientID), ws.EventNotification, NotificationPush{
		Type:           models.NotificationFollowRequest,
		SenderID:       request.SenderID,
		SenderName:     senderName,
		NotificationID: request.ID,
	})
}

func (f *fanOut) OnFollowAccepted(ctx context.Context, request, accepted *models.Notification, accepterName string) {
	ctx = context.WithoutCancel(ctx)
	f.push.Emit(ctx, ws.UserRoom(request.SenderID), ws.EventNotification, NotificationPush{
		Type:           models.NotificationFollowAccepted,
		SenderID:       accepted.SenderID,
		SenderName:     accepterName,
		NotificationID: accepted.ID,
	})
	f.PushSnapshots(ctx, request.SenderID, request.RecipientID)
}

func (f *fanOut) PushSnapshots(ctx context.Context, userIDs ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, userID := range userIDs {
		snapshot, err := followSnapshot(ctx, f.store.Follows(), userID)
		if err != nil {
			logger.CtxWithError(ctx, "Failed to compute follow snapshot", err, "target_user", userID)
			continue
		}
		f.push.Emit(ctx, ws.UserRoom(userID), ws.EventFollowStatusUpdate, snapshot)
	}
}

func (f *fanOut) OnJobPosted(ctx context.Context, poster *models.User, job *models.Job) *DeliveryReport {
	ctx = context.WithoutCancel(ctx)
	followers, err := f.store.Follows().FollowerIDs(ctx, poster.ID)
	if err != nil {
		report := &DeliveryReport{Err: fmt.Errorf("load audience: %w", err)}
		logger.CtxWithError(ctx, "Job fan-out failed", report.Err, "job_id", job.ID)
		return report
	}

	audience := uniqueExcept(followers, poster.ID)
	report := &DeliveryReport{Recipients: len(audience)}

	var (
		mu   sync.Mutex
		errs *multierror.Error
		g    errgroup.Group
	)
	g.SetLimit(f.concurrency)

	for _, recipientID := range audience {
		g.Go(func() error {
			jobID := job.ID
			n := &models.Notification{
				Type:        models.NotificationNewJob,
				SenderID:    poster.ID,
				RecipientID: recipientID,
				Status:      models.NotificationPending,
				JobID:       &jobID,
			}
			// ошибка одного получателя не останавливает остальных
			if err := f.store.Notifications().Create(ctx, n); err != nil {
				mu.Lock()
				errs = multierror.Append(errs, fmt.Errorf("recipient %s: %w", recipientID, err))
				report.Failed++
				mu.Unlock()
				return nil
			}

			f.push.Emit(ctx, ws.UserRoom(recipientID), ws.EventNotification, NotificationPush{
				Type:           models.NotificationNewJob,
				SenderID:       poster.ID,
				SenderName:     poster.DisplayName(),
				NotificationID: n.ID,
				JobID:          job.ID,
				JobTitle:       job.Title,
				Company:        job.Company,
			})

			mu.Lock()
			report.Delivered++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	report.Err = errs.ErrorOrNil()
	logger.FanOutLog(ctx, job.ID, report.Recipients, report.Delivered, report.Failed, report.Err)
	return report
}

func (f *fanOut) OnDirectMessage(ctx context.Context, message *models.Message, sender *models.User) {
	ctx = context.WithoutCancel(ctx)
	if message.ReceiverID == nil {
		return
	}
	receiverID := *message.ReceiverID

	f.push.Emit(ctx, ws.UserRoom(receiverID), ws.EventNewMessage, message)

	n := &models.Notification{
		Type:        models.NotificationMessage,
		SenderID:    sender.ID,
		RecipientID: receiverID,
		Status:      models.NotificationPending,
	}
	if err := f.store.Notifications().Create(ctx, n); err != nil {
		logger.CtxWithError(ctx, "Failed to store message notification", err, "message_id", message.ID)
		return
	}
	f.push.Emit(ctx, ws.UserRoom(receiverID), ws.EventNotification, NotificationPush{
		Type:           models.NotificationMessage,
		SenderID:       sender.ID,
		SenderName:     sender.DisplayName(),
		NotificationID: n.ID,
	})
}

func (f *fanOut) OnGroupRoomMessage(ctx context.Context, message *models.Message) {
	ctx = context.WithoutCancel(ctx)
	if message.GroupID == nil {
		return
	}
	f.push.Emit(ctx, ws.GroupRoom(*message.GroupID), ws.EventNewGroupMessage, message)
}

func (f *fanOut) OnGroupMessage(ctx context.Context, message *models.Message, group *models.Group) {
	ctx = context.WithoutCancel(ctx)
	for _, memberID := range uniqueExcept(group.Members, message.SenderID) {
		f.push.Emit(ctx, ws.UserRoom(memberID), ws.EventNewGroupMessage, message)
	}
}

// uniqueExcept убирает дубликаты и exclude, сохраняя порядок
func uniqueExcept(ids []string, exclude string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == exclude {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
