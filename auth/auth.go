package auth

import (
	"context"
	"log"
	"sync"

	"github.com/IT-Nick/studybot/api"
	"github.com/IT-Nick/studybot/database"
)

// Manager — контекст авторизации: владеет токеном и пользователем каждой
// чат-сессии. Токены живут только в памяти; logout всегда локальный и
// идемпотентный. Manager подписывается на 401-хук клиента, поэтому
// протухший токен снимается независимо от того, какой запрос его выявил.
type Manager struct {
	client *api.Client
	store  database.Store

	mu      sync.Mutex
	byToken map[string]int64 // токен -> чат, для инвалидации по 401
}

// NewManager создаёт менеджер и вешает на клиент сквозной 401-хук.
func NewManager(client *api.Client, store database.Store) *Manager {
	m := &Manager{
		client:  client,
		store:   store,
		byToken: make(map[string]int64),
	}
	client.OnUnauthorized(m.invalidate)
	return m
}

// Login выполняет вход и сохраняет токен с пользователем в сессии чата.
func (m *Manager) Login(ctx context.Context, chatID int64, studentNumber, password string) (database.User, error) {
	token, user, err := m.client.Login(ctx, studentNumber, password)
	if err != nil {
		return database.User{}, err
	}
	return m.remember(chatID, token, user), nil
}

// Register создаёт учётную запись и сразу авторизует чат.
func (m *Manager) Register(ctx context.Context, chatID int64, req api.RegisterRequest) (database.User, error) {
	token, user, err := m.client.Register(ctx, req)
	if err != nil {
		return database.User{}, err
	}
	return m.remember(chatID, token, user), nil
}

// Logout сбрасывает учётные данные чата. Сетевых вызовов нет: операция
// локальная и безопасна при любом состоянии соединения.
func (m *Manager) Logout(chatID int64) {
	sess, ok := m.store.Get(chatID)
	if !ok {
		return
	}
	m.forgetToken(sess.Token)
	sess.Token = ""
	sess.User = nil
	_ = m.store.Set(chatID, sess)
}

// CurrentUser возвращает пользователя чата, если он авторизован.
func (m *Manager) CurrentUser(chatID int64) (database.User, bool) {
	sess, ok := m.store.Get(chatID)
	if !ok || sess.User == nil {
		return database.User{}, false
	}
	return *sess.User, true
}

// Token возвращает текущий bearer-токен чата (пустая строка — не авторизован).
func (m *Manager) Token(chatID int64) string {
	sess, ok := m.store.Get(chatID)
	if !ok {
		return ""
	}
	return sess.Token
}

// Resolve пытается разрешить пользователя по уже имеющемуся токену.
// Неудача не ошибка: токен протух — чат просто считается неавторизованным.
func (m *Manager) Resolve(ctx context.Context, chatID int64) (database.User, bool) {
	sess, ok := m.store.Get(chatID)
	if !ok || sess.Token == "" {
		return database.User{}, false
	}
	user, err := m.client.Me(ctx, sess.Token)
	if err != nil {
		log.Printf("auth: сброс токена чата %d: %v", chatID, err)
		m.Logout(chatID)
		return database.User{}, false
	}
	u := toUser(user)
	sess, _ = m.store.Get(chatID)
	sess.User = &u
	_ = m.store.Set(chatID, sess)
	return u, true
}

func (m *Manager) remember(chatID int64, token string, user api.User) database.User {
	sess, _ := m.store.Get(chatID)
	m.forgetToken(sess.Token)

	u := toUser(user)
	sess.Token = token
	sess.User = &u
	_ = m.store.Set(chatID, sess)

	m.mu.Lock()
	m.byToken[token] = chatID
	m.mu.Unlock()
	return u
}

// invalidate вызывается клиентом на 401: чат с этим токеном разлогинивается.
func (m *Manager) invalidate(token string) {
	if token == "" {
		return
	}
	m.mu.Lock()
	chatID, ok := m.byToken[token]
	delete(m.byToken, token)
	m.mu.Unlock()
	if !ok {
		return
	}
	sess, ok := m.store.Get(chatID)
	if !ok {
		return
	}
	sess.Token = ""
	sess.User = nil
	_ = m.store.Set(chatID, sess)
}

func (m *Manager) forgetToken(token string) {
	if token == "" {
		return
	}
	m.mu.Lock()
	delete(m.byToken, token)
	m.mu.Unlock()
}

func toUser(u api.User) database.User {
	name := u.Name
	if name == "" {
		name = u.StudentNumber
	}
	return database.User{
		ID:            u.ID,
		StudentNumber: u.StudentNumber,
		Name:          name,
		Role:          u.Role,
	}
}
