package api

import (
	"context"
	"fmt"
)

// DashboardStats — сводные показатели по всем студентам.
type DashboardStats struct {
	TotalStudents          int     `json:"total_students"`
	ActiveStudents         int     `json:"active_students"`
	TotalSessions          int     `json:"total_sessions"`
	CompletedSessions      int     `json:"completed_sessions"`
	TotalQuestionsAnswered int     `json:"total_questions_answered"`
	CorrectAnswers         int     `json:"correct_answers"`
	AverageAccuracy        float64 `json:"average_accuracy"`
}

// StudentStats — счётчики одного студента в списке.
type StudentStats struct {
	TotalSessions     int     `json:"total_sessions"`
	CompletedSessions int     `json:"completed_sessions"`
	TotalAnswers      int     `json:"total_answers"`
	CorrectAnswers    int     `json:"correct_answers"`
	Accuracy          float64 `json:"accuracy"`
}

// Student — студент со статистикой для списка преподавателя.
type Student struct {
	ID            int          `json:"id"`
	StudentNumber string       `json:"student_number"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	CreatedAt     string       `json:"created_at"`
	Stats         StudentStats `json:"stats"`
	LastActivity  string       `json:"last_activity"`
}

// ThemeStat — результативность по теме.
type ThemeStat struct {
	Theme             string  `json:"theme"`
	TotalQuestions    int     `json:"total_questions"`
	CorrectAnswers    int     `json:"correct_answers"`
	Accuracy          float64 `json:"accuracy"`
	StudentsAttempted int     `json:"students_attempted"`
}

// DifficultyStat — результативность по уровню сложности.
type DifficultyStat struct {
	Difficulty     int     `json:"difficulty"`
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	Accuracy       float64 `json:"accuracy"`
}

// StudentRef — краткая ссылка на студента в ленте активности.
type StudentRef struct {
	StudentNumber string `json:"student_number"`
	Name          string `json:"name"`
}

// ActivityEntry — попытка в ленте недавней активности.
type ActivityEntry struct {
	QuizSession
	Student StudentRef `json:"student"`
}

// StudentPerformance — разбивка результатов студента.
type StudentPerformance struct {
	ByTheme      []ThemeStat      `json:"by_theme"`
	ByDifficulty []DifficultyStat `json:"by_difficulty"`
}

// StudentDetail — карточка студента: профиль, попытки, разбивки.
type StudentDetail struct {
	Student     User               `json:"student"`
	Sessions    []SessionDetail    `json:"sessions"`
	Performance StudentPerformance `json:"performance"`
}

// TeacherDashboardStats возвращает сводку для панели преподавателя.
func (c *Client) TeacherDashboardStats(ctx context.Context, token string) (*DashboardStats, error) {
	var resp struct {
		Stats DashboardStats `json:"stats"`
	}
	if err := c.get(ctx, token, "/teacher/dashboard/stats", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

// TeacherStudents возвращает список студентов со статистикой.
func (c *Client) TeacherStudents(ctx context.Context, token string) ([]Student, error) {
	var resp struct {
		Students []Student `json:"students"`
	}
	if err := c.get(ctx, token, "/teacher/students", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Students, nil
}

// TeacherStudent возвращает карточку одного студента.
func (c *Client) TeacherStudent(ctx context.Context, token string, studentID int) (*StudentDetail, error) {
	var resp StudentDetail
	if err := c.get(ctx, token, fmt.Sprintf("/teacher/student/%d", studentID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TeacherThemeStats возвращает разбивку по темам среди всех студентов.
func (c *Client) TeacherThemeStats(ctx context.Context, token string) ([]ThemeStat, error) {
	var resp struct {
		ThemeStats []ThemeStat `json:"theme_stats"`
	}
	if err := c.get(ctx, token, "/teacher/dashboard/theme-stats", nil, &resp); err != nil {
		return nil, err
	}
	return resp.ThemeStats, nil
}

// TeacherDifficultyStats возвращает разбивку по сложности.
func (c *Client) TeacherDifficultyStats(ctx context.Context, token string) ([]DifficultyStat, error) {
	var resp struct {
		DifficultyStats []DifficultyStat `json:"difficulty_stats"`
	}
	if err := c.get(ctx, token, "/teacher/dashboard/difficulty-stats", nil, &resp); err != nil {
		return nil, err
	}
	return resp.DifficultyStats, nil
}

// TeacherRecentActivity возвращает последние попытки всех студентов.
func (c *Client) TeacherRecentActivity(ctx context.Context, token string) ([]ActivityEntry, error) {
	var resp struct {
		RecentActivity []ActivityEntry `json:"recent_activity"`
	}
	if err := c.get(ctx, token, "/teacher/dashboard/recent-activity", nil, &resp); err != nil {
		return nil, err
	}
	return resp.RecentActivity, nil
}
