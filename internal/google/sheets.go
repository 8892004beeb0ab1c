package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"salesbot/internal/models"
	"salesbot/internal/phone"
	"salesbot/internal/textutil"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	ManagersSheet = "Managers"
	ClientsSheet  = "Clients"

	timeLayout = "2006-01-02 15:04:05"
)

var (
	managerHeaders = []interface{}{"ID", "Telegram ID", "ФИО", "Сфера", "Телефон", "Дата регистрации"}
	clientHeaders  = []interface{}{"ID", "Менеджер", "Имя", "Телефон", "Статус", "Создан"}
)

// SheetsService зеркалирует менеджеров и клиентов в Google Sheets
type SheetsService struct {
	service       *sheets.Service
	spreadsheetID string
}

func NewSheetsService(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetsService, error) {
	// Читаем файл учетных данных сервисного аккаунта
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}

	return newWithService(srv, spreadsheetID), nil
}

func newWithService(srv *sheets.Service, spreadsheetID string) *SheetsService {
	return &SheetsService{
		service:       srv,
		spreadsheetID: spreadsheetID,
	}
}

// TestConnection проверяет доступ к таблице
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, ManagersSheet+"!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	return nil
}

// ServiceAccountEmail email сервисного аккаунта, которому нужно выдать доступ к таблице
func ServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}
	return creds.ClientEmail, nil
}

// EnsureHeaders записывает заголовки на пустые листы
func (s *SheetsService) EnsureHeaders(ctx context.Context) error {
	for sheet, headers := range map[string][]interface{}{
		ManagersSheet: managerHeaders,
		ClientsSheet:  clientHeaders,
	} {
		resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, sheet+"!A1").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("read %s headers: %w", sheet, err)
		}
		if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
			continue
		}

		_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, sheet+"!A1", &sheets.ValueRange{
			Values: [][]interface{}{headers},
		}).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("write %s headers: %w", sheet, err)
		}
	}
	return nil
}

func (s *SheetsService) AppendManager(ctx context.Context, m *models.Manager) error {
	return s.appendRow(ctx, ManagersSheet, managerRowValues(m))
}

func (s *SheetsService) AppendClient(ctx context.Context, c *models.Client, managerName string) error {
	return s.appendRow(ctx, ClientsSheet, clientRowValues(c, managerName))
}

func (s *SheetsService) appendRow(ctx context.Context, sheet string, row []interface{}) error {
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{row},
	}

	_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, sheet+"!A:A", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append %s row: %w", sheet, err)
	}
	return nil
}

func managerRowValues(m *models.Manager) []interface{} {
	registeredAt := textutil.NotSpecified
	if m.TermsAcceptedAt != nil {
		registeredAt = m.TermsAcceptedAt.UTC().Format(timeLayout)
	}
	return []interface{}{
		m.ID,
		m.TelegramID,
		m.FullName,
		m.IndustryName(),
		phone.FormatDisplay(m.Phone),
		registeredAt,
	}
}

func clientRowValues(c *models.Client, managerName string) []interface{} {
	return []interface{}{
		c.ID,
		managerName,
		c.Name,
		phone.FormatDisplay(c.Phone),
		c.Status,
		c.CreatedAt.UTC().Format(timeLayout),
	}
}
