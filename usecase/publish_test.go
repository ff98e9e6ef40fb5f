package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/AzielCF/az-planner/config"
	domainPlan "github.com/AzielCF/az-planner/domains/plan"
	domainPublish "github.com/AzielCF/az-planner/domains/publish"
	pkgError "github.com/AzielCF/az-planner/pkg/error"
	"github.com/AzielCF/az-planner/pkg/planmonitor"
)

type fakeSender struct {
	sent    []string // captions in send order
	failOn  int      // 1-based index of the send that fails, 0 = never
	failErr error
}

func (f *fakeSender) SendPhoto(ctx context.Context, botToken, chatID, imageRef, captionHTML string) error {
	if f.failOn > 0 && len(f.sent)+1 == f.failOn {
		if f.failErr != nil {
			return f.failErr
		}
		return pkgError.DeliveryError("chat not found")
	}
	f.sent = append(f.sent, captionHTML)
	return nil
}

func zeroSendDelay(t *testing.T) {
	t.Helper()
	orig := config.TelegramSendDelay
	t.Cleanup(func() { config.TelegramSendDelay = orig })
	config.TelegramSendDelay = 0
}

func seedApprovedPlan(svc *servicePlan, n int) {
	posts := make([]domainPlan.Post, n)
	for i := 0; i < n; i++ {
		posts[i] = domainPlan.Post{
			ID:       fmt.Sprintf("p%d", i+1),
			Day:      i + 1,
			Title:    fmt.Sprintf("Title %d", i+1),
			Content:  fmt.Sprintf("Content %d", i+1),
			ImageURL: "https://picsum.photos/seed/x/800/600",
			Status:   domainPlan.StatusApproved,
		}
	}
	seedPlan(svc, posts...)
}

func TestPublish_DeliversInDayOrder(t *testing.T) {
	zeroSendDelay(t)

	planSvc, _ := newTestPlanService(t, &fakeProvider{})
	seedApprovedPlan(planSvc, 3)

	sender := &fakeSender{}
	svc := NewPublishService(planSvc, sender, nil)

	result, err := svc.Publish(context.Background(), domainPublish.PublishRequest{
		BotToken: "token", ChatID: "chat",
	})
	if err != nil {
		t.Fatalf("Publish() unexpected error: %v", err)
	}
	if len(result.Sent) != 3 {
		t.Fatalf("sent %d posts, want 3", len(result.Sent))
	}
	for i, caption := range sender.sent {
		if !strings.Contains(caption, fmt.Sprintf("Title %d", i+1)) {
			t.Fatalf("send %d out of order, caption: %s", i, caption)
		}
	}

	current, _ := planSvc.Current(context.Background())
	for _, post := range current.Posts {
		if post.Status != domainPlan.StatusPublished {
			t.Fatalf("post %s not marked published", post.ID)
		}
	}

	// Delivery events must be joinable with the generation stages by plan id.
	foundDelivery := false
	for _, event := range planmonitor.GetStats().RecentEvents {
		if event.Stage == "delivery" && event.PlanID == current.ID {
			foundDelivery = true
		}
	}
	if !foundDelivery {
		t.Fatalf("no delivery event carried the plan id %q", current.ID)
	}
}

func TestPublish_PartialFailureAbortsQueue(t *testing.T) {
	zeroSendDelay(t)

	planSvc, _ := newTestPlanService(t, &fakeProvider{})
	seedApprovedPlan(planSvc, 5)

	sender := &fakeSender{failOn: 3, failErr: pkgError.DeliveryError("Bad Request: chat not found")}
	svc := NewPublishService(planSvc, sender, nil)

	result, err := svc.Publish(context.Background(), domainPublish.PublishRequest{
		BotToken: "token", ChatID: "chat",
	})
	if err == nil {
		t.Fatalf("Publish() expected an error")
	}
	if err.Error() != "Bad Request: chat not found" {
		t.Fatalf("the destination's description must surface verbatim, got %q", err.Error())
	}
	if len(result.Sent) != 2 {
		t.Fatalf("sent %d posts before the failure, want 2", len(result.Sent))
	}
	if result.FailedID != "p3" {
		t.Fatalf("failed id %q, want p3", result.FailedID)
	}

	// Items 1-2 are published; 3-5 stay approved. No rollback.
	current, _ := planSvc.Current(context.Background())
	for _, post := range current.Posts {
		want := domainPlan.StatusApproved
		if post.Day <= 2 {
			want = domainPlan.StatusPublished
		}
		if post.Status != want {
			t.Fatalf("post day %d status %q, want %q", post.Day, post.Status, want)
		}
	}
}

func TestPublish_SkipsAlreadyPublished(t *testing.T) {
	zeroSendDelay(t)

	planSvc, _ := newTestPlanService(t, &fakeProvider{})
	seedPlan(planSvc,
		domainPlan.Post{ID: "p1", Day: 1, Title: "One", Content: "c", Status: domainPlan.StatusApproved},
		domainPlan.Post{ID: "p2", Day: 2, Title: "Two", Content: "c", Status: domainPlan.StatusApproved},
	)
	if err := planSvc.MarkPublished(context.Background(), "p1"); err != nil {
		t.Fatal(err)
	}

	sender := &fakeSender{}
	svc := NewPublishService(planSvc, sender, nil)

	// p1 is already published: skipped idempotently, only p2 gets sent.
	result, err := svc.Publish(context.Background(), domainPublish.PublishRequest{
		BotToken: "token", ChatID: "chat",
	})
	if err != nil {
		t.Fatalf("Publish() unexpected error: %v", err)
	}
	if len(result.Sent) != 1 || result.Sent[0] != "p2" {
		t.Fatalf("expected only p2 to be sent, got %+v", result.Sent)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != "p1" {
		t.Fatalf("expected p1 to be reported skipped, got %+v", result.Skipped)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sender called %d times, want 1", len(sender.sent))
	}
}

func TestPublish_NothingApproved(t *testing.T) {
	zeroSendDelay(t)

	planSvc, _ := newTestPlanService(t, &fakeProvider{})
	seedPlan(planSvc, domainPlan.Post{ID: "p1", Day: 1, Status: domainPlan.StatusPending})

	svc := NewPublishService(planSvc, &fakeSender{}, nil)
	_, err := svc.Publish(context.Background(), domainPublish.PublishRequest{
		BotToken: "token", ChatID: "chat",
	})
	if err == nil {
		t.Fatalf("Publish() expected an error with no approved posts")
	}
	if _, ok := err.(pkgError.ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func TestPublish_RequiresDestination(t *testing.T) {
	planSvc, _ := newTestPlanService(t, &fakeProvider{})
	svc := NewPublishService(planSvc, &fakeSender{}, nil)

	_, err := svc.Publish(context.Background(), domainPublish.PublishRequest{})
	if err == nil {
		t.Fatalf("Publish() expected a validation error without token/chat or credential")
	}
	if _, ok := err.(pkgError.ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func TestPublish_DelayBetweenSends(t *testing.T) {
	orig := config.TelegramSendDelay
	t.Cleanup(func() { config.TelegramSendDelay = orig })
	config.TelegramSendDelay = 30 * time.Millisecond

	planSvc, _ := newTestPlanService(t, &fakeProvider{})
	seedApprovedPlan(planSvc, 3)

	svc := NewPublishService(planSvc, &fakeSender{}, nil)
	started := time.Now()
	if _, err := svc.Publish(context.Background(), domainPublish.PublishRequest{
		BotToken: "token", ChatID: "chat",
	}); err != nil {
		t.Fatalf("Publish() unexpected error: %v", err)
	}
	// Two gaps between three sends.
	if elapsed := time.Since(started); elapsed < 60*time.Millisecond {
		t.Fatalf("delivery finished in %v, expected at least 60ms of pacing", elapsed)
	}
}
