package handlers

import (
	"fmt"
	"log"

	tele "gopkg.in/telebot.v4"

	"github.com/IT-Nick/studybot/api"
	"github.com/IT-Nick/studybot/messages"
	"github.com/IT-Nick/studybot/wizard"
)

// Шаги диалоговой авторизации.
const (
	authStepLoginNumber   = "login_number"
	authStepLoginPassword = "login_password"

	authStepRegisterNumber   = "register_number"
	authStepRegisterName     = "register_name"
	authStepRegisterPassword = "register_password"
)

// startLogin переводит чат в диалог входа.
func (h *Handlers) startLogin(c tele.Context) error {
	chatID := c.Chat().ID
	sess, _ := h.store.Get(chatID)
	sess.AuthStep = authStepLoginNumber
	sess.AuthNumber = ""
	sess.AuthName = ""
	if err := h.store.Set(chatID, sess); err != nil {
		return err
	}
	return c.Send(messages.AskStudentNumber)
}

// onRegisterCommand начинает диалог регистрации.
func (h *Handlers) onRegisterCommand(c tele.Context) error {
	chatID := c.Chat().ID
	sess, _ := h.store.Get(chatID)
	sess.AuthStep = authStepRegisterNumber
	sess.AuthNumber = ""
	sess.AuthName = ""
	if err := h.store.Set(chatID, sess); err != nil {
		return err
	}
	return c.Send(messages.AskRegisterNumber)
}

// onLogout сбрасывает учётные данные чата. Идемпотентно и целиком
// локально: сети для выхода не требуется.
func (h *Handlers) onLogout(c tele.Context) error {
	chatID := c.Chat().ID
	h.pacer.Cancel(chatID)
	h.auth.Logout(chatID)

	sess, _ := h.store.Get(chatID)
	sess.Wizard = wizard.NewState()
	sess.AuthStep = ""
	sess.AuthNumber = ""
	sess.AuthName = ""
	if err := h.store.Set(chatID, sess); err != nil {
		return err
	}
	return c.Send(messages.LoggedOut)
}

// onAuthText обрабатывает очередной шаг диалоговой авторизации.
func (h *Handlers) onAuthText(c tele.Context, text string) error {
	chatID := c.Chat().ID
	sess, _ := h.store.Get(chatID)

	switch sess.AuthStep {
	case authStepLoginNumber:
		sess.AuthNumber = text
		sess.AuthStep = authStepLoginPassword
		if err := h.store.Set(chatID, sess); err != nil {
			return err
		}
		return c.Send(messages.AskPassword)

	case authStepLoginPassword:
		h.deletePasswordMessage(c)
		number := sess.AuthNumber
		sess.AuthStep = ""
		sess.AuthNumber = ""
		_ = h.store.Set(chatID, sess)

		ctx := h.pacer.Current(chatID)
		user, err := h.auth.Login(ctx, chatID, number, text)
		if err != nil {
			log.Printf("handlers: вход чата %d не удался: %v", chatID, err)
			sess, _ = h.store.Get(chatID)
			sess.AuthStep = authStepLoginNumber
			_ = h.store.Set(chatID, sess)
			return c.Send(messages.LoginFailed)
		}
		return h.afterAuth(c, user.Name)

	case authStepRegisterNumber:
		sess.AuthNumber = text
		sess.AuthStep = authStepRegisterName
		if err := h.store.Set(chatID, sess); err != nil {
			return err
		}
		return c.Send(messages.AskRegisterName)

	case authStepRegisterName:
		sess.AuthName = text
		sess.AuthStep = authStepRegisterPassword
		if err := h.store.Set(chatID, sess); err != nil {
			return err
		}
		return c.Send(messages.AskRegisterPassword)

	case authStepRegisterPassword:
		h.deletePasswordMessage(c)
		number, name := sess.AuthNumber, sess.AuthName
		sess.AuthStep = ""
		sess.AuthNumber = ""
		sess.AuthName = ""
		_ = h.store.Set(chatID, sess)

		ctx := h.pacer.Current(chatID)
		user, err := h.auth.Register(ctx, chatID, api.RegisterRequest{
			StudentNumber: number,
			Password:      text,
			Name:          name,
		})
		if err != nil {
			log.Printf("handlers: регистрация чата %d не удалась: %v", chatID, err)
			sess, _ = h.store.Get(chatID)
			sess.AuthStep = authStepRegisterNumber
			_ = h.store.Set(chatID, sess)
			return c.Send(messages.RegisterFailed)
		}
		return h.afterAuth(c, user.Name)
	}

	return c.Send(messages.UseStart)
}

// afterAuth завершает авторизацию и сразу запускает мастера.
func (h *Handlers) afterAuth(c tele.Context, name string) error {
	chatID := c.Chat().ID
	if err := c.Send(fmt.Sprintf(messages.LoggedInFmt, name)); err != nil {
		return err
	}

	sess, _ := h.store.Get(chatID)
	sess.Wizard = wizard.NewState()
	if err := h.store.Set(chatID, sess); err != nil {
		return err
	}
	h.pacer.Begin(chatID)
	return h.dispatch(c, wizard.StartEvent{Name: name})
}

// deletePasswordMessage стирает сообщение с паролем из чата, чтобы оно
// не оставалось в истории. Неудача не критична.
func (h *Handlers) deletePasswordMessage(c tele.Context) {
	if err := c.Delete(); err != nil {
		log.Printf("handlers: не удалось удалить сообщение с паролем: %v", err)
	}
}
