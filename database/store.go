package database

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/IT-Nick/studybot/wizard"
)

// User — данные авторизованного студента или преподавателя,
// как их вернул бэкенд.
type User struct {
	ID            int
	StudentNumber string
	Name          string
	Role          string // "student" или "teacher"
}

// Автор сообщения стенограммы.
const (
	AuthorBot  = "bot"
	AuthorUser = "user"
)

// TranscriptMessage — одно сообщение ленты диалога. Стенограмма чисто
// презентационная: источником истины для подсчёта очков остаётся
// состояние мастера.
type TranscriptMessage struct {
	ID        string
	Author    string
	Text      string
	Timestamp time.Time
	Options   []wizard.Option
}

// NewTranscriptMessage создаёт сообщение с уникальным ID и текущим временем.
func NewTranscriptMessage(author, text string, options []wizard.Option) TranscriptMessage {
	return TranscriptMessage{
		ID:        uuid.NewString(),
		Author:    author,
		Text:      text,
		Timestamp: time.Now(),
		Options:   options,
	}
}

// Session — состояние одного чата: учётные данные, шаг диалоговой
// авторизации, состояние мастера и стенограмма. Живёт только в памяти
// процесса; токен никуда не записывается и умирает вместе с сессией.
type Session struct {
	Token string
	User  *User

	// Шаг диалоговой авторизации ("" — авторизация не идёт).
	AuthStep   string
	AuthNumber string
	AuthName   string

	Wizard     wizard.State
	Transcript []TranscriptMessage
}

// Append добавляет сообщение в конец стенограммы.
func (s *Session) Append(author, text string, options []wizard.Option) {
	s.Transcript = append(s.Transcript, NewTranscriptMessage(author, text, options))
}

// Store определяет интерфейс для работы с сессиями чатов.
type Store interface {
	Get(chatID int64) (Session, bool)
	Set(chatID int64, s Session) error
	Delete(chatID int64) error
}

// MemoryStore — единственная реализация: прогресс квиза и учётные данные
// по требованиям продукта не переживают перезапуск процесса.
type MemoryStore struct {
	data map[int64]Session
	mu   sync.RWMutex
}

// NewMemoryStore создаёт новый MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[int64]Session)}
}

func (m *MemoryStore) Get(chatID int64) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.data[chatID]
	return s, ok
}

func (m *MemoryStore) Set(chatID int64, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[chatID] = s
	return nil
}

func (m *MemoryStore) Delete(chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, chatID)
	return nil
}
