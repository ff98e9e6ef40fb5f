package validations

import (
	"context"
	"testing"

	domainCredential "github.com/AzielCF/az-planner/domains/credential"
	domainPlan "github.com/AzielCF/az-planner/domains/plan"
	domainPublish "github.com/AzielCF/az-planner/domains/publish"
	pkgError "github.com/AzielCF/az-planner/pkg/error"
)

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected a validation error")
	}
	if _, ok := err.(pkgError.ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func TestValidateGeneratePlan(t *testing.T) {
	ctx := context.Background()

	valid := domainPlan.GenerateRequest{
		Niche:  "coffee shop",
		Period: domainPlan.PeriodWeek,
		Tone:   domainPlan.ToneFriendly,
		Goal:   domainPlan.GoalSales,
	}
	if err := ValidateGeneratePlan(ctx, valid); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	// Goal is optional.
	noGoal := valid
	noGoal.Goal = ""
	if err := ValidateGeneratePlan(ctx, noGoal); err != nil {
		t.Fatalf("request without goal rejected: %v", err)
	}

	cases := map[string]domainPlan.GenerateRequest{
		"empty niche":    {Period: domainPlan.PeriodWeek, Tone: domainPlan.ToneFriendly},
		"missing period": {Niche: "coffee", Tone: domainPlan.ToneFriendly},
		"bad period":     {Niche: "coffee", Period: "fortnight", Tone: domainPlan.ToneFriendly},
		"bad tone":       {Niche: "coffee", Period: domainPlan.PeriodWeek, Tone: "sarcastic"},
		"bad goal":       {Niche: "coffee", Period: domainPlan.PeriodWeek, Tone: domainPlan.ToneFriendly, Goal: "world domination"},
	}
	for name, request := range cases {
		t.Run(name, func(t *testing.T) {
			assertValidationError(t, ValidateGeneratePlan(ctx, request))
		})
	}
}

func TestValidateEditPost(t *testing.T) {
	ctx := context.Background()

	if err := ValidateEditPost(ctx, domainPlan.EditRequest{PostID: "p1", Feedback: "shorter"}); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	assertValidationError(t, ValidateEditPost(ctx, domainPlan.EditRequest{PostID: "p1"}))
	assertValidationError(t, ValidateEditPost(ctx, domainPlan.EditRequest{Feedback: "shorter"}))
}

func TestValidatePublish(t *testing.T) {
	ctx := context.Background()

	if err := ValidatePublish(ctx, domainPublish.PublishRequest{BotToken: "t", ChatID: "c"}); err != nil {
		t.Fatalf("token+chat rejected: %v", err)
	}
	// A saved credential stands in for token+chat.
	if err := ValidatePublish(ctx, domainPublish.PublishRequest{CredentialID: "cred-1"}); err != nil {
		t.Fatalf("credential id rejected: %v", err)
	}
	assertValidationError(t, ValidatePublish(ctx, domainPublish.PublishRequest{}))
	assertValidationError(t, ValidatePublish(ctx, domainPublish.PublishRequest{BotToken: "t"}))
}

func TestValidateCreateCredential(t *testing.T) {
	ctx := context.Background()

	valid := domainCredential.CreateCredentialRequest{
		Name:     "my channel",
		Kind:     domainCredential.KindTelegram,
		BotToken: "123:abc",
		ChatID:   "-100777",
	}
	if err := ValidateCreateCredential(ctx, valid); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	missingName := valid
	missingName.Name = ""
	assertValidationError(t, ValidateCreateCredential(ctx, missingName))

	badKind := valid
	badKind.Kind = "discord"
	assertValidationError(t, ValidateCreateCredential(ctx, badKind))
}
