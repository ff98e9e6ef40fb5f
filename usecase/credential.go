package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	domainCredential "github.com/AzielCF/az-planner/domains/credential"
	pkgError "github.com/AzielCF/az-planner/pkg/error"
	"github.com/AzielCF/az-planner/validations"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// --- Persistence Model ---

type credentialModel struct {
	ID        string         `gorm:"primaryKey;column:id"`
	Name      string         `gorm:"column:name;not null"`
	Kind      string         `gorm:"column:kind;not null"`
	BotToken  sql.NullString `gorm:"column:bot_token"`
	ChatID    sql.NullString `gorm:"column:chat_id"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (credentialModel) TableName() string {
	return "credentials"
}

type credentialService struct {
	db *gorm.DB
}

func NewCredentialService(db *gorm.DB) domainCredential.ICredentialUsecase {
	s := &credentialService{db: db}
	if db != nil {
		if err := db.AutoMigrate(&credentialModel{}); err != nil {
			logrus.WithError(err).Error("[CREDENTIAL] failed to init schema")
		}
	} else {
		logrus.Error("[CREDENTIAL] GORM DB is nil, service will be disabled")
	}
	return s
}

func (s *credentialService) ensureDB() error {
	if s.db == nil {
		return pkgError.InternalServerError("credential storage is not initialized")
	}
	return nil
}

func (s *credentialService) Create(ctx context.Context, req domainCredential.CreateCredentialRequest) (domainCredential.Credential, error) {
	if err := s.ensureDB(); err != nil {
		return domainCredential.Credential{}, err
	}
	if err := validations.ValidateCreateCredential(ctx, req); err != nil {
		return domainCredential.Credential{}, err
	}

	model := credentialModel{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(req.Name),
		Kind:     string(req.Kind),
		BotToken: sql.NullString{String: strings.TrimSpace(req.BotToken), Valid: req.BotToken != ""},
		ChatID:   sql.NullString{String: strings.TrimSpace(req.ChatID), Valid: req.ChatID != ""},
	}

	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domainCredential.Credential{}, err
	}

	return fromModel(model), nil
}

func (s *credentialService) List(ctx context.Context) ([]domainCredential.Credential, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	var models []credentialModel
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	result := make([]domainCredential.Credential, len(models))
	for i, m := range models {
		result[i] = fromModel(m)
	}

	return result, nil
}

func (s *credentialService) GetByID(ctx context.Context, id string) (domainCredential.Credential, error) {
	if err := s.ensureDB(); err != nil {
		return domainCredential.Credential{}, err
	}

	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return domainCredential.Credential{}, pkgError.ValidationError("id: cannot be blank.")
	}

	var model credentialModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", trimmed).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domainCredential.Credential{}, pkgError.NotFoundError(fmt.Sprintf("credential %s not found", trimmed))
		}
		return domainCredential.Credential{}, err
	}

	return fromModel(model), nil
}

func (s *credentialService) Update(ctx context.Context, id string, req domainCredential.UpdateCredentialRequest) (domainCredential.Credential, error) {
	if err := s.ensureDB(); err != nil {
		return domainCredential.Credential{}, err
	}

	var model credentialModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domainCredential.Credential{}, pkgError.NotFoundError(fmt.Sprintf("credential %s not found", id))
		}
		return domainCredential.Credential{}, err
	}

	if req.Name != "" {
		model.Name = strings.TrimSpace(req.Name)
	}
	if req.BotToken != "" {
		model.BotToken = sql.NullString{String: strings.TrimSpace(req.BotToken), Valid: true}
	}
	if req.ChatID != "" {
		model.ChatID = sql.NullString{String: strings.TrimSpace(req.ChatID), Valid: true}
	}

	if err := s.db.WithContext(ctx).Save(&model).Error; err != nil {
		return domainCredential.Credential{}, err
	}

	return fromModel(model), nil
}

func (s *credentialService) Delete(ctx context.Context, id string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return pkgError.ValidationError("id: cannot be blank.")
	}

	return s.db.WithContext(ctx).Delete(&credentialModel{}, "id = ?", trimmed).Error
}

// --- Helpers ---

func fromModel(m credentialModel) domainCredential.Credential {
	return domainCredential.Credential{
		ID:       m.ID,
		Name:     m.Name,
		Kind:     domainCredential.Kind(m.Kind),
		BotToken: nullStringValue(m.BotToken),
		ChatID:   nullStringValue(m.ChatID),
	}
}

func nullStringValue(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return strings.TrimSpace(ns.String)
}
