package validations

import (
	"context"

	domainCredential "github.com/AzielCF/az-planner/domains/credential"
	domainPlan "github.com/AzielCF/az-planner/domains/plan"
	domainPublish "github.com/AzielCF/az-planner/domains/publish"
	pkgError "github.com/AzielCF/az-planner/pkg/error"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func ValidateGeneratePlan(ctx context.Context, request domainPlan.GenerateRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Niche, validation.Required),
		validation.Field(&request.Period, validation.Required, validation.In(
			domainPlan.PeriodWeek,
			domainPlan.PeriodMonth,
		)),
		validation.Field(&request.Tone, validation.Required, validation.In(
			domainPlan.ToneFriendly,
			domainPlan.ToneCreative,
			domainPlan.ToneProfessional,
			domainPlan.ToneStrict,
			domainPlan.ToneHumorous,
		)),
		validation.Field(&request.Goal, validation.In(
			domainPlan.GoalAcquisition,
			domainPlan.GoalRetention,
			domainPlan.GoalTrust,
			domainPlan.GoalSales,
		)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateEditPost(ctx context.Context, request domainPlan.EditRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.PostID, validation.Required),
		validation.Field(&request.Feedback, validation.Required),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidatePublish(ctx context.Context, request domainPublish.PublishRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.BotToken, validation.Required.When(request.CredentialID == "")),
		validation.Field(&request.ChatID, validation.Required.When(request.CredentialID == "")),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateCreateCredential(ctx context.Context, request domainCredential.CreateCredentialRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Name, validation.Required),
		validation.Field(&request.Kind, validation.Required, validation.In(
			domainCredential.KindTelegram,
		)),
		validation.Field(&request.BotToken, validation.Required),
		validation.Field(&request.ChatID, validation.Required),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
