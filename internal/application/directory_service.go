package application

import (
	"fmt"
	"strings"
	"time"

	"craftgate/internal/repository"

	"github.com/xuri/excelize/v2"
)

type DirectoryService interface {
	UsersReport() string
	UsersWorkbook() ([]byte, error)
}

type DirectoryServiceImpl struct {
	users  repository.Users
	logger Logger
}

func NewDirectoryServiceImpl(users repository.Users, logger Logger) *DirectoryServiceImpl {
	return &DirectoryServiceImpl{
		users:  users,
		logger: logger,
	}
}

// UsersReport renders the audit log for the admin panel, most recent first.
func (s *DirectoryServiceImpl) UsersReport() string {
	records := s.users.All()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Known users: %d\n", len(records)))
	sb.WriteString("Format: game name | @username | name | id | last seen\n\n")

	for _, rec := range records {
		game := rec.GameName
		if game == "" {
			game = "-"
		}
		username := "-"
		if rec.Username != "" {
			username = "@" + rec.Username
		}
		name := strings.TrimSpace(rec.FirstName + " " + rec.LastName)
		if name == "" {
			name = "-"
		}
		seen := time.Unix(rec.LastSeen, 0).Format("2006-01-02 15:04:05")

		sb.WriteString(fmt.Sprintf("%s | %s | %s | %d | %s\n", game, username, name, rec.ID, seen))
		if sb.Len() > replyLimit {
			sb.WriteString(truncatedMark)
			break
		}
	}
	return sb.String()
}

// UsersWorkbook builds an XLSX export of the full directory.
func (s *DirectoryServiceImpl) UsersWorkbook() ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Users"
	f.NewSheet(sheet)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Username", "First name", "Last name", "Game name", "Last seen"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, rec := range s.users.All() {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), rec.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), rec.Username)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), rec.FirstName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), rec.LastName)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), rec.GameName)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), time.Unix(rec.LastSeen, 0).Format("2006-01-02 15:04:05"))
		row++
	}

	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "E", 20)
	f.SetColWidth(sheet, "F", "F", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
