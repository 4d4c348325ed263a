package middleware

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/IT-Nick/studybot/database"
)

// DebugUserActions возвращает middleware, которое при включённой отладке
// отправляет в чат служебное сообщение: кто действует, на каком шаге
// мастера он находится и что именно пришло (текст или callback).
func DebugUserActions(enabled bool, store database.Store) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			err := next(c)
			if !enabled || c.Sender() == nil {
				return err
			}
			user := c.Sender()

			role, step := "", -1
			if sess, ok := store.Get(c.Chat().ID); ok {
				if sess.User != nil {
					role = sess.User.Role
				}
				step = int(sess.Wizard.Step)
			}

			var action string
			if msg := c.Message(); msg != nil && msg.Text != "" {
				action = "Message: " + msg.Text
			} else if cb := c.Callback(); cb != nil {
				action = "Callback: " + cb.Data
			} else {
				action = "Unknown action"
			}

			debugMsg := fmt.Sprintf("DEBUG: User: %s (ID: %d), Role: %s, Step: %d, Action: %s",
				user.FirstName, user.ID, role, step, action)
			// Отправляем в отдельной горутине, чтобы не задерживать обработку.
			go c.Bot().Send(user, debugMsg)
			return err
		}
	}
}

// AutoRespond возвращает middleware, которое закрывает callback-запросы
// после обработки, чтобы у кнопок не оставались «часики».
func AutoRespond() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			err := next(c)
			if c.Callback() != nil {
				_ = c.Respond()
			}
			return err
		}
	}
}
