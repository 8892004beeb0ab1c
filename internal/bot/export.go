package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"salesbot/internal/logging"
	"salesbot/internal/models"
	"salesbot/internal/phone"
	"salesbot/internal/textutil"

	"github.com/xuri/excelize/v2"
)

const (
	exportSheet      = "Клиенты"
	maxExportClients = 10000
)

var exportHeaders = []string{"№", "Имя", "Телефон", "Статус", "Последний контакт", "Добавлен", "Заметки"}

func (b *Bot) exportClients(ctx context.Context, chatID int64, manager *models.Manager) {
	l := logging.FromContext(ctx, b.logger)

	clients, err := b.clients.List(ctx, manager.ID, maxExportClients)
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}
	if len(clients) == 0 {
		b.reply(ctx, chatID, msgExportEmpty)
		return
	}

	data, err := b.buildClientsWorkbook(clients)
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}

	now := b.now().In(b.loc)
	fileName := fmt.Sprintf("clients_%d_%s.xlsx", manager.TelegramID, now.Format("2006-01-02"))
	b.saveExportCopy(ctx, fileName, data)

	caption := fmt.Sprintf(msgExportCaption, now.Format(textutil.DateLayout))
	if _, err := b.tgService.SendDocument(chatID, fileName, data, caption); err != nil {
		b.replyError(ctx, chatID, err)
		return
	}
	l.Info().Int("clients", len(clients)).Str("file", fileName).Msg("clients exported")
}

// buildClientsWorkbook xlsx со списком клиентов
func (b *Bot) buildClientsWorkbook(clients []*models.Client) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, h)
		_ = f.SetCellStyle(exportSheet, cell, cell, headerStyle)
	}

	for i, c := range clients {
		row := []interface{}{
			i + 1,
			c.Name,
			phone.FormatDisplay(c.Phone),
			c.Status,
			textutil.FormatDateTimePtr(c.LastContact, b.loc),
			textutil.FormatDateTime(c.CreatedAt, b.loc),
			c.NotesText(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 6)
	_ = f.SetColWidth(exportSheet, "B", "B", 30)
	_ = f.SetColWidth(exportSheet, "C", "F", 20)
	_ = f.SetColWidth(exportSheet, "G", "G", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// saveExportCopy копия выгрузки в exports.path
func (b *Bot) saveExportCopy(ctx context.Context, fileName string, data []byte) {
	dir := b.config.Exports.Path
	if dir == "" {
		return
	}
	l := logging.FromContext(ctx, b.logger)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		l.Warn().Err(err).Str("dir", dir).Msg("failed to create export directory")
		return
	}
	if err := os.WriteFile(filepath.Join(dir, fileName), data, 0o644); err != nil {
		l.Warn().Err(err).Msg("failed to save export copy")
	}
}
