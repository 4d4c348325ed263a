package handlers

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/IT-Nick/studybot/api"
	"github.com/IT-Nick/studybot/database"
	"github.com/IT-Nick/studybot/messages"
	"github.com/IT-Nick/studybot/report"
	"github.com/IT-Nick/studybot/wizard"
)

// dispatch прогоняет событие через машину и исполняет эффекты. Сетевые
// эффекты возвращают ответ бэкенда новым событием, и цикл продолжается,
// пока машина не перестанет требовать ввода-вывода.
func (h *Handlers) dispatch(c tele.Context, ev wizard.Event) error {
	chatID := c.Chat().ID
	ctx := h.pacer.Current(chatID)

	for ev != nil {
		sess, _ := h.store.Get(chatID)
		st, effects := h.machine.Transition(sess.Wizard, ev)
		sess.Wizard = st
		if err := h.store.Set(chatID, sess); err != nil {
			return err
		}

		next, err := h.execute(c, ctx, chatID, effects)
		if err != nil {
			return err
		}
		ev = next
	}
	return nil
}

// execute исполняет эффекты по порядку. Если среди них есть запрос к
// бэкенду, возвращает событие с его результатом; срез эффектов машины
// устроен так, что запрос всегда последний.
func (h *Handlers) execute(c tele.Context, ctx context.Context, chatID int64, effects []wizard.Effect) (wizard.Event, error) {
	for _, eff := range effects {
		switch eff := eff.(type) {
		case wizard.Say:
			if eff.Paced && !h.pacer.Wait(ctx) {
				// Область чата отменена: диалог сброшен, сообщение устарело.
				return nil, nil
			}
			if err := h.say(c, chatID, eff); err != nil {
				return nil, err
			}

		case wizard.FetchThemes:
			_ = c.Notify(tele.Typing)
			themes, err := h.client.Themes(ctx, h.auth.Token(chatID), eff.Week)
			if err != nil {
				return h.fetchFailed(c, ctx, err, messages.FetchThemesFailed)
			}
			return wizard.ThemesLoaded{Themes: themes}, nil

		case wizard.FetchDifficulties:
			_ = c.Notify(tele.Typing)
			levels, err := h.client.Difficulties(ctx, h.auth.Token(chatID), eff.Week, eff.Theme)
			if err != nil {
				return h.fetchFailed(c, ctx, err, messages.FetchDifficultiesFailed)
			}
			return wizard.DifficultiesLoaded{Levels: levels}, nil

		case wizard.FetchCount:
			_ = c.Notify(tele.Typing)
			count, err := h.client.Count(ctx, h.auth.Token(chatID), eff.Config.Week, eff.Config.Theme, eff.Config.Difficulty)
			if err != nil {
				return h.fetchFailed(c, ctx, err, messages.FetchQuizFailed)
			}
			return wizard.CountLoaded{Count: count}, nil

		case wizard.FetchQuestions:
			_ = c.Notify(tele.Typing)
			qs, err := h.client.Generate(ctx, h.auth.Token(chatID), eff.Config.Week, eff.Config.Theme, eff.Config.Difficulty, eff.Limit)
			if err != nil {
				return h.fetchFailed(c, ctx, err, messages.FetchQuizFailed)
			}
			return wizard.QuestionsLoaded{Questions: toWizardQuestions(qs)}, nil

		case wizard.SubmitAttempt:
			h.submitAttempt(chatID, eff)

		case wizard.DeliverReport:
			h.deliverReport(c, chatID, eff)

		case wizard.Exit:
			h.pacer.Cancel(chatID)
		}
	}
	return nil, nil
}

// fetchFailed разбирает ошибку сетевого эффекта. Возвращает событие
// FetchFailed для машины либо (nil, nil), когда продолжать не нужно:
// область отменена или пользователь разлогинен по 401.
func (h *Handlers) fetchFailed(c tele.Context, ctx context.Context, err error, failMsg string) (wizard.Event, error) {
	if ctx.Err() != nil {
		// Диалог уже сброшен, запоздавший ответ игнорируем.
		return nil, nil
	}
	if errors.Is(err, api.ErrUnauthorized) {
		return nil, h.forceRelogin(c)
	}
	log.Printf("handlers: запрос к бэкенду не удался: %v", err)
	return wizard.FetchFailed{Message: failMsg}, nil
}

// say отправляет сообщение мастера, зеркалируя его в стенограмму.
func (h *Handlers) say(c tele.Context, chatID int64, eff wizard.Say) error {
	sess, ok := h.store.Get(chatID)
	if ok {
		sess.Append(database.AuthorBot, eff.Text, eff.Options)
		_ = h.store.Set(chatID, sess)
	}

	if len(eff.Options) == 0 {
		return c.Send(eff.Text)
	}
	rm := &tele.ReplyMarkup{}
	rows := make([][]tele.InlineButton, 0, len(eff.Options))
	for _, opt := range eff.Options {
		rows = append(rows, []tele.InlineButton{{
			Unique: btnQuickReply,
			Text:   opt.Text,
			Data:   opt.Value,
		}})
	}
	rm.InlineKeyboard = rows
	return c.Send(eff.Text, rm)
}

// submitAttempt отправляет попытку на сохранение в фоне. Ошибка только
// логируется: показ итогов не зависит от успеха сохранения.
func (h *Handlers) submitAttempt(chatID int64, eff wizard.SubmitAttempt) {
	token := h.auth.Token(chatID)
	req := api.SubmitRequest{
		Week:       eff.Config.Week,
		Theme:      eff.Config.Theme,
		Difficulty: eff.Config.Difficulty,
		Score:      eff.Score,
		Total:      eff.Total,
	}
	for _, a := range eff.Answers {
		req.Answers = append(req.Answers, api.SubmittedAnswer{
			QuestionID: a.QuestionID,
			Answer:     a.Chosen,
			IsCorrect:  a.Correct,
		})
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := h.client.Submit(ctx, token, req); err != nil {
			log.Printf("handlers: не удалось сохранить попытку чата %d: %v", chatID, err)
		}
	}()
}

// deliverReport формирует PDF-отчёт и отправляет его в чат. Best-effort:
// любая ошибка логируется и не влияет на диалог.
func (h *Handlers) deliverReport(c tele.Context, chatID int64, eff wizard.DeliverReport) {
	user, ok := h.auth.CurrentUser(chatID)
	if !ok {
		return
	}
	go func() {
		file, err := report.GeneratePDFReport(report.ReportData{
			StudentName:   user.Name,
			StudentNumber: user.StudentNumber,
			Config:        eff.Config,
			Score:         eff.Score,
			Total:         eff.Total,
			Questions:     eff.Questions,
			Answers:       eff.Answers,
		})
		if err != nil {
			log.Printf("handlers: не удалось сформировать отчёт: %v", err)
			return
		}
		defer os.Remove(file)
		doc := &tele.Document{
			File:     tele.FromDisk(file),
			FileName: "reporte_quiz.pdf",
			Caption:  messages.ReportCaption,
		}
		if err := c.Send(doc); err != nil {
			log.Printf("handlers: не удалось отправить отчёт: %v", err)
		}
	}()
}

// forceRelogin сбрасывает мастер и переводит чат в диалог входа.
// Вызывается после 401: токен к этому моменту уже снят менеджером.
func (h *Handlers) forceRelogin(c tele.Context) error {
	chatID := c.Chat().ID
	sess, _ := h.store.Get(chatID)
	sess.Wizard = wizard.NewState()
	sess.AuthStep = authStepLoginNumber
	sess.AuthNumber = ""
	if err := h.store.Set(chatID, sess); err != nil {
		return err
	}
	return c.Send(messages.SessionExpired)
}

func toWizardQuestions(qs []api.Question) []wizard.Question {
	out := make([]wizard.Question, 0, len(qs))
	for _, q := range qs {
		out = append(out, wizard.Question{
			ID:      q.QuestionID,
			Text:    q.QuestionText,
			Options: q.Options,
			Correct: q.CorrectAnswer,
		})
	}
	return out
}
