package controllers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wishfund/wishfund-backend/app/models"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

type pushJob struct {
	userID uuid.UUID
	event  models.PushEvent
}

var pushChan = make(chan pushJob, 1024)

// StartPushDispatcher delivers queued websocket pushes until ctx is cancelled.
func StartPushDispatcher(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case job := <-pushChan:
				deliverPush(utils.DefaultNotifier, job)
			}
		}
	}()
}

func deliverPush(n *utils.Notifier, job pushJob) {
	if err := n.Send(job.userID, job.event); err != nil && !errors.Is(err, utils.ErrNoConnection) {
		zap.L().Warn("dispatcher: push failed", zap.String("user", job.userID.String()), zap.Error(err))
	}
}

// enqueuePush never blocks a request. A full queue drops the push; the row is already stored.
func enqueuePush(userID uuid.UUID, event string, data interface{}) {
	select {
	case pushChan <- pushJob{userID: userID, event: models.PushEvent{Event: event, Data: data}}:
	default:
		zap.L().Warn("dispatcher: queue full, dropping push", zap.String("user", userID.String()), zap.String("event", event))
	}
}

func pushNotifications(ns []models.Notification) {
	for _, n := range ns {
		enqueuePush(n.UserID, "notification", n)
	}
}
