/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Raop2/ScheduleSmartNew/internal/models"
)

// Service handles exporting the computed schedule.
type Service struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewService creates a new export service.
func NewService(db *gorm.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "export").Logger(),
	}
}

// ICalResult contains the iCal export data.
type ICalResult struct {
	Data        []byte
	Filename    string
	ContentType string
}

// ExportToICal exports all currently scheduled tasks to iCal format.
func (s *Service) ExportToICal(ctx context.Context) (*ICalResult, error) {
	var tasks []models.Task
	if err := s.db.WithContext(ctx).
		Where("scheduled_start IS NOT NULL").
		Order("scheduled_start ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch scheduled tasks: %w", err)
	}

	data := BuildICal(tasks, time.Now())

	filename := fmt.Sprintf("schedule-%s.ics", time.Now().Format("2006-01-02"))

	return &ICalResult{
		Data:        data,
		Filename:    filename,
		ContentType: "text/calendar; charset=utf-8",
	}, nil
}

// BuildICal renders tasks with recorded placements as an iCal calendar.
// Tasks without a placement are skipped.
func BuildICal(tasks []models.Task, now time.Time) []byte {
	var buf bytes.Buffer
	buf.WriteString("BEGIN:VCALENDAR\r\n")
	buf.WriteString("VERSION:2.0\r\n")
	buf.WriteString("PRODID:-//ScheduleSmart//Task Schedule//EN\r\n")
	buf.WriteString("X-WR-CALNAME:ScheduleSmart Tasks\r\n")
	buf.WriteString("CALSCALE:GREGORIAN\r\n")
	buf.WriteString("METHOD:PUBLISH\r\n")

	for _, task := range tasks {
		if task.ScheduledStart == nil || task.ScheduledEnd == nil {
			continue
		}

		buf.WriteString("BEGIN:VEVENT\r\n")
		buf.WriteString(fmt.Sprintf("UID:%s@schedulesmart\r\n", task.ID))
		buf.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICalTime(now)))
		buf.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICalTime(*task.ScheduledStart)))
		buf.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICalTime(*task.ScheduledEnd)))
		buf.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICalText(task.Name)))

		if task.Notes != "" {
			buf.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICalText(task.Notes)))
		}
		if task.Priority != "" {
			buf.WriteString(fmt.Sprintf("CATEGORIES:%s\r\n", strings.ToUpper(string(task.Priority))))
		}

		buf.WriteString("END:VEVENT\r\n")
	}

	buf.WriteString("END:VCALENDAR\r\n")
	return buf.Bytes()
}

// ExportToHTML exports scheduled tasks as a printable HTML agenda.
func (s *Service) ExportToHTML(ctx context.Context) ([]byte, error) {
	var tasks []models.Task
	if err := s.db.WithContext(ctx).
		Where("scheduled_start IS NOT NULL").
		Order("scheduled_start ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch scheduled tasks: %w", err)
	}

	// Group by day, preserving order
	var days []string
	dayTasks := make(map[string][]models.Task)
	for _, task := range tasks {
		if task.ScheduledStart == nil {
			continue
		}
		day := task.ScheduledStart.Format("2006-01-02")
		if _, ok := dayTasks[day]; !ok {
			days = append(days, day)
		}
		dayTasks[day] = append(dayTasks[day], task)
	}

	var buf bytes.Buffer
	buf.WriteString(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>ScheduleSmart Agenda</title>
    <style>
        @page { margin: 1cm; }
        body { font-family: Arial, sans-serif; font-size: 11pt; line-height: 1.4; }
        h1 { font-size: 18pt; margin-bottom: 5mm; border-bottom: 2px solid #333; padding-bottom: 3mm; }
        h2 { font-size: 14pt; margin-top: 5mm; margin-bottom: 3mm; color: #444; }
        .day { page-break-inside: avoid; margin-bottom: 5mm; }
        table { width: 100%; border-collapse: collapse; }
        th, td { padding: 2mm 3mm; text-align: left; border-bottom: 1px solid #ddd; }
        th { background: #f5f5f5; font-weight: bold; }
        .time { width: 25%; white-space: nowrap; }
        .task { width: 50%; }
        .priority { width: 25%; color: #666; }
        .footer { margin-top: 10mm; font-size: 9pt; color: #666; text-align: center; }
    </style>
</head>
<body>
    <h1>ScheduleSmart Agenda</h1>
`)

	for _, day := range days {
		dayTime, _ := time.Parse("2006-01-02", day)

		buf.WriteString(`    <div class="day">
        <h2>` + dayTime.Format("Monday, January 2") + `</h2>
        <table>
            <tr><th class="time">Time</th><th class="task">Task</th><th class="priority">Priority</th></tr>
`)

		for _, task := range dayTasks[day] {
			buf.WriteString(fmt.Sprintf(`            <tr>
                <td class="time">%s - %s</td>
                <td class="task">%s</td>
                <td class="priority">%s</td>
            </tr>
`,
				task.ScheduledStart.Format("3:04 PM"),
				task.ScheduledEnd.Format("3:04 PM"),
				task.Name,
				task.Priority))
		}

		buf.WriteString(`        </table>
    </div>
`)
	}

	buf.WriteString(`    <div class="footer">
        Generated by ScheduleSmart on ` + time.Now().Format("January 2, 2006 at 3:04 PM") + `
    </div>
</body>
</html>`)

	return buf.Bytes(), nil
}

func formatICalTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func escapeICalText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
