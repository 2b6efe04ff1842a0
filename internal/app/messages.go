package app

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"birthday_reminder_bot/internal/domain/birthday"
)

// fallbackPhrases rotate through the daily "nothing due" message, so the
// subscriber still gets one message per day as a sign the bot is alive.
var fallbackPhrases = []string{
	"Сегодня дней рождения нет. Хорошего дня!",
	"Напоминаний на сегодня нет — можно выдохнуть.",
	"Никто не празднует сегодня. До завтра!",
	"Сегодня без именинников. Бот на посту.",
	"Пусто в календаре на сегодня. Отличный повод отдохнуть.",
}

// FallbackPhrase picks the day's phrase deterministically from the date, so
// a re-sent date repeats the same message instead of looking like two
// different days.
func FallbackPhrase(date time.Time) string {
	return fallbackPhrases[date.YearDay()%len(fallbackPhrases)]
}

// BuildReminderMessage renders one aggregated notification for a subscriber:
// every record due on the given date, closest birthdays first.
func BuildReminderMessage(date time.Time, notices []*birthday.DueNotice) string {
	sorted := make([]*birthday.DueNotice, len(notices))
	copy(sorted, notices)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].DaysUntil != sorted[j].DaysUntil {
			return sorted[i].DaysUntil < sorted[j].DaysUntil
		}
		return sorted[i].Record.DisplayName() < sorted[j].Record.DisplayName()
	})

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🎂 Напоминания о днях рождения на %s:\n", date.Format("02.01.2006")))
	for _, n := range sorted {
		b.WriteString("\n— ")
		b.WriteString(n.Record.DisplayName())
		if n.Record.Company.Valid && n.Record.Company.String != "" {
			b.WriteString(fmt.Sprintf(" (%s", n.Record.Company.String))
			if n.Record.Position.Valid && n.Record.Position.String != "" {
				b.WriteString(", " + n.Record.Position.String)
			}
			b.WriteString(")")
		}
		b.WriteString(": " + whenPhrase(n))
		if n.Record.HasKnownYear() {
			b.WriteString(fmt.Sprintf(", исполняется %d", n.OccursOn.Year()-n.Record.BirthDate.Year()))
		}
		if n.Record.GiftCategory.Valid && n.Record.GiftCategory.String != "" {
			b.WriteString(fmt.Sprintf(" [подарок: %s]", n.Record.GiftCategory.String))
		}
	}
	return b.String()
}

func whenPhrase(n *birthday.DueNotice) string {
	switch n.DaysUntil {
	case 0:
		return "сегодня"
	case 1:
		return fmt.Sprintf("завтра (%s)", n.OccursOn.Format("02.01"))
	default:
		return fmt.Sprintf("через %d дн. (%s)", n.DaysUntil, n.OccursOn.Format("02.01"))
	}
}
