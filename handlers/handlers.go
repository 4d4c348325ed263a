package handlers

import (
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/IT-Nick/studybot/auth"
	"github.com/IT-Nick/studybot/database"
	"github.com/IT-Nick/studybot/helpers"
	"github.com/IT-Nick/studybot/messages"
	"github.com/IT-Nick/studybot/wizard"

	"github.com/IT-Nick/studybot/api"
)

// Уникальные идентификаторы inline-кнопок.
const (
	btnQuickReply    = "qr"     // быстрый ответ мастера; Data — значение опции
	btnSessionDetail = "sesion" // детализация попытки; Data — id попытки
	btnStudentDetail = "alumno" // карточка студента; Data — id студента
)

// Handlers связывает телеграм-обработчики с машиной мастера, контекстом
// авторизации и клиентом бэкенда.
type Handlers struct {
	store   database.Store
	client  *api.Client
	auth    *auth.Manager
	machine *wizard.Machine
	pacer   *helpers.Pacer
}

// RegisterHandlers регистрирует обработчики команд, текста и кнопок.
func RegisterHandlers(bot *tele.Bot, store database.Store, client *api.Client, authm *auth.Manager, machine *wizard.Machine, pacer *helpers.Pacer) {
	h := &Handlers{
		store:   store,
		client:  client,
		auth:    authm,
		machine: machine,
		pacer:   pacer,
	}

	bot.Handle("/start", h.onStart)
	bot.Handle("/registro", h.onRegisterCommand)
	bot.Handle("/salir", h.onLogout)
	bot.Handle("/historial", h.onHistory)
	bot.Handle("/panel", h.onTeacherPanel)
	bot.Handle("/alumnos", h.onStudents)

	bot.Handle(tele.OnText, h.onText)
	bot.Handle(&tele.InlineButton{Unique: btnQuickReply}, h.onQuickReply)
	bot.Handle(&tele.InlineButton{Unique: btnSessionDetail}, h.onSessionDetail)
	bot.Handle(&tele.InlineButton{Unique: btnStudentDetail}, h.onStudentDetail)
}

// onStart запускает новый диалог. Старая область чата отменяется, чтобы
// отложенные сообщения прежнего прогона не попали в новый.
func (h *Handlers) onStart(c tele.Context) error {
	chatID := c.Chat().ID
	ctx := h.pacer.Begin(chatID)

	sess, _ := h.store.Get(chatID)
	if sess.User == nil {
		// Возможно, токен ещё жив с прошлого входа в этом процессе.
		if user, ok := h.auth.Resolve(ctx, chatID); ok {
			sess, _ = h.store.Get(chatID)
			sess.User = &user
		} else {
			return h.startLogin(c)
		}
	}

	sess.Wizard = wizard.NewState()
	sess.AuthStep = ""
	if err := h.store.Set(chatID, sess); err != nil {
		return err
	}
	return h.dispatch(c, wizard.StartEvent{Name: sess.User.Name})
}

// onText — свободный ввод: либо шаг диалоговой авторизации, либо
// событие мастера в зависимости от текущего шага.
func (h *Handlers) onText(c tele.Context) error {
	chatID := c.Chat().ID
	text := strings.TrimSpace(c.Text())

	sess, ok := h.store.Get(chatID)
	if !ok {
		return c.Send(messages.UseStart)
	}
	if sess.AuthStep != "" {
		return h.onAuthText(c, text)
	}
	if sess.User == nil {
		return c.Send(messages.UseStart)
	}

	h.recordUser(chatID, text)

	switch sess.Wizard.Step {
	case wizard.StepSelectWeek:
		week, err := strconv.Atoi(text)
		if err != nil {
			week = 0 // нечисловой ввод отбрасывается валидацией машины
		}
		return h.dispatch(c, wizard.WeekInput{Week: week})
	case wizard.StepSelectTheme:
		return h.dispatch(c, wizard.ThemeChosen{Theme: text})
	case wizard.StepSelectDifficulty:
		if level, err := strconv.Atoi(text); err == nil {
			return h.dispatch(c, wizard.DifficultyChosen{Level: level})
		}
		return h.dispatch(c, wizard.DifficultyChosen{Level: 0})
	case wizard.StepAnswering:
		return h.dispatch(c, wizard.AnswerGiven{Letter: text})
	case wizard.StepResults:
		return h.dispatch(c, wizard.ResultsChoice{Choice: resultsChoiceFromText(text)})
	default:
		return c.Send(messages.UseStart)
	}
}

// onQuickReply — нажатие кнопки быстрого ответа мастера.
func (h *Handlers) onQuickReply(c tele.Context) error {
	chatID := c.Chat().ID
	value := strings.TrimSpace(strings.Trim(c.Callback().Data, "\f"))

	sess, ok := h.store.Get(chatID)
	if !ok || sess.User == nil {
		return c.Send(messages.UseStart)
	}

	h.recordUser(chatID, value)

	switch sess.Wizard.Step {
	case wizard.StepSelectTheme:
		return h.dispatch(c, wizard.ThemeChosen{Theme: value})
	case wizard.StepSelectDifficulty:
		level, _ := strconv.Atoi(value)
		return h.dispatch(c, wizard.DifficultyChosen{Level: level})
	case wizard.StepNoQuestions:
		return h.dispatch(c, wizard.RecoveryChoice{Choice: value})
	case wizard.StepAnswering:
		return h.dispatch(c, wizard.AnswerGiven{Letter: value})
	case wizard.StepResults:
		return h.dispatch(c, wizard.ResultsChoice{Choice: value})
	}
	return nil
}

// resultsChoiceFromText переводит свободный ответ на экране итогов в
// выбор мастера: «sí»-подобные ответы считаются согласием на новый квиз.
func resultsChoiceFromText(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.HasPrefix(t, "s"):
		return wizard.ChoiceRetry
	case strings.HasPrefix(t, "cambi"):
		return wizard.ChoiceReconfigure
	case strings.HasPrefix(t, "n"):
		return wizard.ChoiceExit
	}
	return t
}

// recordUser добавляет реплику пользователя в стенограмму.
func (h *Handlers) recordUser(chatID int64, text string) {
	sess, ok := h.store.Get(chatID)
	if !ok {
		return
	}
	sess.Append(database.AuthorUser, text, nil)
	_ = h.store.Set(chatID, sess)
}
