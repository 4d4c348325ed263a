package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Question — вопрос квиза: текст, варианты и буква правильного ответа.
type Question struct {
	QuestionID    int      `json:"question_id"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// QuizSession — сводка попытки из истории пользователя.
type QuizSession struct {
	ID             int    `json:"id"`
	UserID         int    `json:"user_id"`
	Week           int    `json:"week"`
	Theme          string `json:"theme"`
	Difficulty     int    `json:"difficulty"`
	StartedAt      string `json:"started_at"`
	CompletedAt    string `json:"completed_at"`
	Status         string `json:"status"`
	TotalQuestions int    `json:"total_questions"`
	CorrectAnswers int    `json:"correct_answers"`
}

// SessionAnswer — ответ внутри детализации попытки.
type SessionAnswer struct {
	ID         int    `json:"id"`
	SessionID  int    `json:"session_id"`
	QuestionID int    `json:"question_id"`
	UserAnswer string `json:"user_answer"`
	IsCorrect  bool   `json:"is_correct"`
	AnsweredAt string `json:"answered_at"`
}

// SessionDetail — попытка вместе со всеми ответами.
type SessionDetail struct {
	QuizSession
	Answers []SessionAnswer `json:"answers"`
}

// SubmittedAnswer — ответ в составе отправляемой попытки.
// Имена полей фиксированы контрактом бэкенда.
type SubmittedAnswer struct {
	QuestionID int    `json:"questionId"`
	Answer     string `json:"answer"`
	IsCorrect  bool   `json:"isCorrect"`
}

// SubmitRequest — завершённая попытка целиком.
type SubmitRequest struct {
	Week       int               `json:"week"`
	Theme      string            `json:"theme"`
	Difficulty int               `json:"difficulty"`
	Score      int               `json:"score"`
	Total      int               `json:"total"`
	Answers    []SubmittedAnswer `json:"answers"`
}

type countRequest struct {
	Week       int      `json:"week"`
	Themes     []string `json:"themes"`
	Difficulty int      `json:"difficulty"`
}

type generateRequest struct {
	Week         int    `json:"week"`
	Theme        string `json:"theme"`
	Difficulty   int    `json:"difficulty"`
	NumQuestions int    `json:"num_questions"`
}

// Themes возвращает темы, доступные на указанной неделе.
func (c *Client) Themes(ctx context.Context, token string, week int) ([]string, error) {
	q := url.Values{}
	q.Set("week", strconv.Itoa(week))
	var resp struct {
		Themes []string `json:"themes"`
	}
	if err := c.get(ctx, token, "/quiz/themes", q, &resp); err != nil {
		return nil, err
	}
	return resp.Themes, nil
}

// Difficulties возвращает уровни сложности для (неделя, тема).
func (c *Client) Difficulties(ctx context.Context, token string, week int, theme string) ([]int, error) {
	q := url.Values{}
	q.Set("week", strconv.Itoa(week))
	q.Add("themes", theme)
	var resp struct {
		Difficulties []int `json:"difficulties"`
	}
	if err := c.get(ctx, token, "/quiz/difficulties", q, &resp); err != nil {
		return nil, err
	}
	return resp.Difficulties, nil
}

// Count возвращает число вопросов, подходящих под конфигурацию.
func (c *Client) Count(ctx context.Context, token string, week int, theme string, difficulty int) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	req := countRequest{Week: week, Themes: []string{theme}, Difficulty: difficulty}
	if err := c.post(ctx, token, "/quiz/count", req, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// Generate запрашивает генерацию не более numQuestions вопросов.
func (c *Client) Generate(ctx context.Context, token string, week int, theme string, difficulty, numQuestions int) ([]Question, error) {
	var resp struct {
		Questions []Question `json:"questions"`
	}
	req := generateRequest{Week: week, Theme: theme, Difficulty: difficulty, NumQuestions: numQuestions}
	if err := c.post(ctx, token, "/quiz/generate", req, &resp); err != nil {
		return nil, err
	}
	return resp.Questions, nil
}

// Submit сохраняет завершённую попытку на бэкенде.
func (c *Client) Submit(ctx context.Context, token string, req SubmitRequest) error {
	return c.post(ctx, token, "/quiz/submit", req, nil)
}

// Sessions возвращает историю попыток текущего пользователя.
func (c *Client) Sessions(ctx context.Context, token string) ([]QuizSession, error) {
	var resp struct {
		Sessions []QuizSession `json:"sessions"`
	}
	if err := c.get(ctx, token, "/quiz/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// Session возвращает детализацию одной попытки.
func (c *Client) Session(ctx context.Context, token string, id int) (*SessionDetail, error) {
	var resp struct {
		Session SessionDetail `json:"session"`
	}
	if err := c.get(ctx, token, fmt.Sprintf("/quiz/session/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Session, nil
}
