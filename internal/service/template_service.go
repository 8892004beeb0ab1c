package service

import (
	"context"
	"fmt"

	"salesbot/internal/domain"
	"salesbot/internal/models"
	"salesbot/internal/textutil"

	"github.com/rs/zerolog"
)

const (
	DefaultTemplateName = "Первичный контакт"
	maxTemplateLength   = 3500
)

// defaultTemplateContent первичное сообщение клиенту от имени менеджера
func defaultTemplateContent(fullName string) string {
	return fmt.Sprintf("👋 Добрый день, %s!\n\n"+
		"Меня зовут %s, я менеджер по продажам. Отправляю вам контакты.\n\n"+
		"📍 Адрес: укажите адрес\n"+
		"📞 Телефон: укажите телефон\n"+
		"🌐 Сайт: укажите сайт\n\n"+
		"С уважением, %s", models.PlaceholderClientName, fullName, fullName)
}

type TemplateService struct {
	repo   domain.TemplateRepository
	seeds  []models.Template
	logger *zerolog.Logger
}

// NewTemplateService seeds дополнительные шаблоны из configs/templates.yaml
func NewTemplateService(repo domain.TemplateRepository, seeds []models.Template, logger *zerolog.Logger) *TemplateService {
	return &TemplateService{
		repo:   repo,
		seeds:  seeds,
		logger: logger,
	}
}

func (s *TemplateService) List(ctx context.Context, managerID int64) ([]*models.Template, error) {
	return s.repo.ListActiveTemplates(ctx, managerID)
}

func (s *TemplateService) Get(ctx context.Context, managerID, templateID int64) (*models.Template, error) {
	return s.repo.GetTemplate(ctx, managerID, templateID)
}

func (s *TemplateService) Create(ctx context.Context, managerID int64, name, content string) (*models.Template, error) {
	name = textutil.CollapseSpaces(name)
	if n := textutil.RuneLen(name); n < models.MinNameLength || n > models.MaxNameLength {
		return nil, ErrInvalidName
	}
	if content == "" || textutil.CollapseSpaces(content) == "" {
		return nil, ErrEmptyText
	}
	if textutil.RuneLen(content) > maxTemplateLength {
		return nil, ErrTextTooLong
	}

	tpl := &models.Template{
		ManagerID: managerID,
		Name:      name,
		Content:   content,
		Variables: models.DefaultTemplateVariables(),
		IsActive:  true,
	}
	if err := s.repo.CreateTemplate(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *TemplateService) Deactivate(ctx context.Context, managerID, templateID int64) error {
	return s.repo.DeactivateTemplate(ctx, managerID, templateID)
}

// CreateDefaults "Первичный контакт" и шаблоны из файла
func (s *TemplateService) CreateDefaults(ctx context.Context, manager *models.Manager) error {
	templates := make([]models.Template, 0, len(s.seeds)+1)
	templates = append(templates, models.Template{
		Name:    DefaultTemplateName,
		Content: defaultTemplateContent(manager.FullName),
	})
	templates = append(templates, s.seeds...)

	for _, seed := range templates {
		tpl := &models.Template{
			ManagerID: manager.ID,
			Name:      seed.Name,
			Content:   seed.Content,
			Variables: models.DefaultTemplateVariables(),
			IsActive:  true,
		}
		if err := s.repo.CreateTemplate(ctx, tpl); err != nil {
			return fmt.Errorf("create template %q: %w", seed.Name, err)
		}
	}

	s.logger.Debug().Int64("manager_id", manager.ID).Int("count", len(templates)).Msg("default templates created")
	return nil
}

// BusinessCard текст визитки по первому активному шаблону
func (s *TemplateService) BusinessCard(ctx context.Context, manager *models.Manager, client *models.Client) (string, error) {
	tpl, err := s.repo.FirstActiveTemplate(ctx, manager.ID)
	if err != nil {
		return "", err
	}
	return tpl.Render(client.Name, manager.FullName, manager.IndustryName()), nil
}
