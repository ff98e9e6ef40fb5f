package usecase

import (
	"context"
	"time"

	"github.com/AzielCF/az-planner/config"
	domainCredential "github.com/AzielCF/az-planner/domains/credential"
	domainPlan "github.com/AzielCF/az-planner/domains/plan"
	domainPublish "github.com/AzielCF/az-planner/domains/publish"
	pkgError "github.com/AzielCF/az-planner/pkg/error"
	"github.com/AzielCF/az-planner/pkg/planmonitor"
	"github.com/AzielCF/az-planner/validations"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type servicePublish struct {
	plan        domainPlan.IPlanUsecase
	sender      domainPublish.Sender
	credentials domainCredential.ICredentialUsecase
}

func NewPublishService(plan domainPlan.IPlanUsecase, sender domainPublish.Sender, credentials domainCredential.ICredentialUsecase) domainPublish.IPublishUsecase {
	return &servicePublish{
		plan:        plan,
		sender:      sender,
		credentials: credentials,
	}
}

// Publish walks the approved queue in day order, one send at a time with a
// fixed delay between consecutive sends. The first failure aborts the rest of
// the queue; posts sent before it keep their published state.
func (service *servicePublish) Publish(ctx context.Context, request domainPublish.PublishRequest) (domainPublish.PublishResult, error) {
	if err := validations.ValidatePublish(ctx, request); err != nil {
		return domainPublish.PublishResult{}, err
	}

	botToken, chatID := request.BotToken, request.ChatID
	if request.CredentialID != "" {
		credential, err := service.credentials.GetByID(ctx, request.CredentialID)
		if err != nil {
			return domainPublish.PublishResult{}, err
		}
		botToken, chatID = credential.BotToken, credential.ChatID
	}

	current, err := service.plan.Current(ctx)
	if err != nil {
		return domainPublish.PublishResult{}, err
	}

	approvedCount := 0
	for _, post := range current.Posts {
		if post.Status == domainPlan.StatusApproved {
			approvedCount++
		}
	}
	if approvedCount == 0 {
		return domainPublish.PublishResult{}, pkgError.ValidationError("nothing to publish: no approved posts")
	}

	traceID := uuid.NewString()
	logrus.Infof("[PUBLISH] Delivering %d approved posts (trace %s)", approvedCount, traceID)

	// The plan is already in day order. Already-published posts are skipped
	// idempotently; pending ones are simply not part of the queue.
	var result domainPublish.PublishResult
	for _, post := range current.Posts {
		switch post.Status {
		case domainPlan.StatusPublished:
			result.Skipped = append(result.Skipped, post.ID)
			continue
		case domainPlan.StatusApproved:
		default:
			continue
		}
		if len(result.Sent) > 0 && config.TelegramSendDelay > 0 {
			select {
			case <-time.After(config.TelegramSendDelay):
			case <-ctx.Done():
				return result, ctx.Err()
			}
		}

		started := time.Now()
		err := service.sender.SendPhoto(ctx, botToken, chatID, post.ImageURL, domainPublish.CaptionHTML(post))
		if err != nil {
			result.FailedID = post.ID
			result.ErrorText = err.Error()
			planmonitor.Record(planmonitor.Event{
				TraceID:    traceID,
				PlanID:     current.ID,
				PostID:     post.ID,
				Stage:      "delivery",
				Status:     "error",
				Error:      err.Error(),
				DurationMs: time.Since(started).Milliseconds(),
			})
			logrus.WithError(err).Errorf("[PUBLISH] Send failed on day %d, aborting the queue", post.Day)
			return result, err
		}

		if err := service.plan.MarkPublished(ctx, post.ID); err != nil {
			logrus.WithError(err).Warnf("[PUBLISH] Sent but could not mark post %s published", post.ID)
		}
		result.Sent = append(result.Sent, post.ID)
		planmonitor.Record(planmonitor.Event{
			TraceID:    traceID,
			PlanID:     current.ID,
			PostID:     post.ID,
			Stage:      "delivery",
			Status:     "ok",
			DurationMs: time.Since(started).Milliseconds(),
		})
	}

	logrus.Infof("[PUBLISH] Delivered %d posts, skipped %d", len(result.Sent), len(result.Skipped))
	return result, nil
}
