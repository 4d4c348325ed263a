package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/IT-Nick/studybot/api"
	"github.com/IT-Nick/studybot/database"
	"github.com/IT-Nick/studybot/messages"
	"github.com/IT-Nick/studybot/wizard"
)

const roleTeacher = "teacher"

// onHistory показывает историю попыток текущего пользователя. К каждой
// попытке прикрепляется кнопка детализации.
func (h *Handlers) onHistory(c tele.Context) error {
	chatID := c.Chat().ID
	user, ok := h.auth.CurrentUser(chatID)
	if !ok {
		return c.Send(messages.UseStart)
	}

	ctx := h.pacer.Current(chatID)
	sessions, err := h.client.Sessions(ctx, h.auth.Token(chatID))
	if err != nil {
		return h.dashboardError(c, err)
	}
	if len(sessions) == 0 {
		return c.Send(messages.NoSessionsYet)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Historial de %s\n", user.Name)
	rm := &tele.ReplyMarkup{}
	for _, s := range sessions {
		pct := wizard.Percentage(s.CorrectAnswers, s.TotalQuestions)
		fmt.Fprintf(&b, "\n• Semana %d, %s (%s): %d/%d (%d%%)",
			s.Week, s.Theme, wizard.DifficultyLabel(s.Difficulty),
			s.CorrectAnswers, s.TotalQuestions, pct)
		rm.InlineKeyboard = append(rm.InlineKeyboard, []tele.InlineButton{{
			Unique: btnSessionDetail,
			Text:   fmt.Sprintf("Semana %d · %s · %d%%", s.Week, s.Theme, pct),
			Data:   strconv.Itoa(s.ID),
		}})
	}
	return c.Send(b.String(), rm)
}

// onSessionDetail — кнопка детализации попытки; Data хранит её id.
func (h *Handlers) onSessionDetail(c tele.Context) error {
	chatID := c.Chat().ID
	if _, ok := h.auth.CurrentUser(chatID); !ok {
		return c.Send(messages.UseStart)
	}

	id, err := strconv.Atoi(strings.Trim(c.Callback().Data, "\f"))
	if err != nil {
		return nil
	}

	ctx := h.pacer.Current(chatID)
	detail, err := h.client.Session(ctx, h.auth.Token(chatID), id)
	if err != nil {
		return h.dashboardError(c, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📝 Semana %d, %s (%s)\n", detail.Week, detail.Theme, wizard.DifficultyLabel(detail.Difficulty))
	fmt.Fprintf(&b, "Resultado: %d/%d (%d%%)\n",
		detail.CorrectAnswers, detail.TotalQuestions,
		wizard.Percentage(detail.CorrectAnswers, detail.TotalQuestions))
	for i, a := range detail.Answers {
		mark := "❌"
		if a.IsCorrect {
			mark = "✅"
		}
		fmt.Fprintf(&b, "\n%d. %s Tu respuesta: %s", i+1, mark, strings.ToLower(a.UserAnswer))
	}
	return c.Send(b.String())
}

// onTeacherPanel — сводная панель преподавателя: общие показатели и
// разбивки по темам и сложности.
func (h *Handlers) onTeacherPanel(c tele.Context) error {
	chatID := c.Chat().ID
	user, ok := h.requireTeacher(c)
	if !ok {
		return nil
	}

	ctx := h.pacer.Current(chatID)
	token := h.auth.Token(chatID)

	stats, err := h.client.TeacherDashboardStats(ctx, token)
	if err != nil {
		return h.dashboardError(c, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Panel de %s\n\n", user.Name)
	fmt.Fprintf(&b, "Estudiantes: %d (%d activos)\n", stats.TotalStudents, stats.ActiveStudents)
	fmt.Fprintf(&b, "Quizzes: %d (%d completados)\n", stats.TotalSessions, stats.CompletedSessions)
	fmt.Fprintf(&b, "Respuestas: %d, correctas %d (%.1f%%)\n",
		stats.TotalQuestionsAnswered, stats.CorrectAnswers, stats.AverageAccuracy)

	if themes, err := h.client.TeacherThemeStats(ctx, token); err == nil && len(themes) > 0 {
		b.WriteString("\nPor tema:\n")
		for _, t := range themes {
			fmt.Fprintf(&b, "• %s: %.1f%% (%d estudiantes)\n", t.Theme, t.Accuracy, t.StudentsAttempted)
		}
	}
	if levels, err := h.client.TeacherDifficultyStats(ctx, token); err == nil && len(levels) > 0 {
		b.WriteString("\nPor dificultad:\n")
		for _, d := range levels {
			fmt.Fprintf(&b, "• %s: %.1f%% (%d respuestas)\n",
				wizard.DifficultyLabel(d.Difficulty), d.Accuracy, d.TotalQuestions)
		}
	}
	if recent, err := h.client.TeacherRecentActivity(ctx, token); err == nil && len(recent) > 0 {
		b.WriteString("\nActividad reciente:\n")
		for _, e := range recent {
			fmt.Fprintf(&b, "• %s: semana %d, %s, %d/%d\n",
				e.Student.Name, e.Week, e.Theme, e.CorrectAnswers, e.TotalQuestions)
		}
	}
	return c.Send(b.String())
}

// onStudents — список студентов со статистикой и кнопками карточек.
func (h *Handlers) onStudents(c tele.Context) error {
	chatID := c.Chat().ID
	if _, ok := h.requireTeacher(c); !ok {
		return nil
	}

	ctx := h.pacer.Current(chatID)
	students, err := h.client.TeacherStudents(ctx, h.auth.Token(chatID))
	if err != nil {
		return h.dashboardError(c, err)
	}
	if len(students) == 0 {
		return c.Send("Todavía no hay estudiantes registrados.")
	}

	var b strings.Builder
	b.WriteString("👥 Estudiantes\n")
	rm := &tele.ReplyMarkup{}
	for _, s := range students {
		fmt.Fprintf(&b, "\n• %s (%s): %d quizzes, %.1f%%",
			s.Name, s.StudentNumber, s.Stats.CompletedSessions, s.Stats.Accuracy)
		rm.InlineKeyboard = append(rm.InlineKeyboard, []tele.InlineButton{{
			Unique: btnStudentDetail,
			Text:   s.Name,
			Data:   strconv.Itoa(s.ID),
		}})
	}
	return c.Send(b.String(), rm)
}

// onStudentDetail — карточка студента; Data хранит его id.
func (h *Handlers) onStudentDetail(c tele.Context) error {
	chatID := c.Chat().ID
	if _, ok := h.requireTeacher(c); !ok {
		return nil
	}

	id, err := strconv.Atoi(strings.Trim(c.Callback().Data, "\f"))
	if err != nil {
		return nil
	}

	ctx := h.pacer.Current(chatID)
	detail, err := h.client.TeacherStudent(ctx, h.auth.Token(chatID), id)
	if err != nil {
		return h.dashboardError(c, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👤 %s (%s)\n", detail.Student.Name, detail.Student.StudentNumber)
	if len(detail.Performance.ByTheme) > 0 {
		b.WriteString("\nPor tema:\n")
		for _, t := range detail.Performance.ByTheme {
			fmt.Fprintf(&b, "• %s: %d/%d (%.1f%%)\n", t.Theme, t.CorrectAnswers, t.TotalQuestions, t.Accuracy)
		}
	}
	if len(detail.Sessions) > 0 {
		b.WriteString("\nÚltimos quizzes:\n")
		for _, s := range detail.Sessions {
			fmt.Fprintf(&b, "• Semana %d, %s: %d/%d\n", s.Week, s.Theme, s.CorrectAnswers, s.TotalQuestions)
		}
	}
	return c.Send(b.String())
}

// requireTeacher проверяет, что чат авторизован и роль — преподаватель.
// При отказе сам отвечает пользователю; второй результат — допуск.
func (h *Handlers) requireTeacher(c tele.Context) (database.User, bool) {
	user, ok := h.auth.CurrentUser(c.Chat().ID)
	if !ok {
		_ = c.Send(messages.UseStart)
		return database.User{}, false
	}
	if user.Role != roleTeacher {
		_ = c.Send(messages.TeacherOnly)
		return database.User{}, false
	}
	return user, true
}

// dashboardError — единая обработка ошибок панелей: 401 переводит чат в
// диалог входа, прочее отвечает общим сообщением.
func (h *Handlers) dashboardError(c tele.Context, err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		return h.forceRelogin(c)
	}
	return c.Send(messages.DashboardFailed)
}
