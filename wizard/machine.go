package wizard

import (
	"fmt"
	"math"
	"strings"

	"github.com/IT-Nick/studybot/messages"
)

// Machine хранит параметры машины состояний, не зависящие от конкретного
// диалога. Сама машина не имеет изменяемого состояния: всё состояние
// диалога передаётся в Transition и возвращается из него.
type Machine struct {
	maxQuestions int
}

// NewMachine создаёт машину с верхней границей размера квиза.
func NewMachine(maxQuestions int) *Machine {
	if maxQuestions <= 0 {
		maxQuestions = DefaultMaxQuestions
	}
	return &Machine{maxQuestions: maxQuestions}
}

// Transition — единственная точка входа машины. Принимает текущее
// состояние и событие, возвращает новое состояние и список эффектов.
// Пока Loading=true, пользовательские события игнорируются: ввод
// заблокирован до прихода ответа бэкенда.
func (m *Machine) Transition(s State, ev Event) (State, []Effect) {
	if s.Loading {
		switch ev.(type) {
		case ThemesLoaded, DifficultiesLoaded, CountLoaded, QuestionsLoaded, FetchFailed:
		default:
			return s, nil
		}
	}

	switch s.Step {
	case StepWelcome:
		return m.fromWelcome(s, ev)
	case StepSelectWeek:
		return m.fromSelectWeek(s, ev)
	case StepSelectTheme:
		return m.fromSelectTheme(s, ev)
	case StepSelectDifficulty:
		return m.fromSelectDifficulty(s, ev)
	case StepNoQuestions:
		return m.fromNoQuestions(s, ev)
	case StepAnswering:
		return m.fromAnswering(s, ev)
	case StepResults:
		return m.fromResults(s, ev)
	case StepDone:
		return s, nil
	}
	return s, nil
}

func (m *Machine) fromWelcome(s State, ev Event) (State, []Effect) {
	start, ok := ev.(StartEvent)
	if !ok {
		return s, nil
	}
	s.Step = StepSelectWeek
	return s, []Effect{
		Say{Text: fmt.Sprintf(messages.WelcomeFmt, start.Name)},
		Say{Text: messages.AskWeek, Paced: true},
	}
}

func (m *Machine) fromSelectWeek(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case WeekInput:
		if ev.Week < MinWeek || ev.Week > MaxWeek {
			return s, []Effect{Say{Text: messages.WeekOutOfRange}}
		}
		s.PendingWeek = ev.Week
		s.Loading = true
		return s, []Effect{FetchThemes{Week: ev.Week}}

	case ThemesLoaded:
		s.Loading = false
		if len(ev.Themes) == 0 {
			// Неделя без тем — не ошибка, остаёмся на выборе недели.
			return s, []Effect{Say{Text: fmt.Sprintf(messages.NoThemesFmt, s.PendingWeek)}}
		}
		s.Config.Week = s.PendingWeek
		s.Themes = ev.Themes
		s.Step = StepSelectTheme
		return s, []Effect{Say{Text: messages.AskTheme, Options: themeOptions(ev.Themes), Paced: true}}

	case FetchFailed:
		s.Loading = false
		return s, []Effect{Say{Text: ev.Message}}
	}
	return s, nil
}

func (m *Machine) fromSelectTheme(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case ThemeChosen:
		theme, ok := matchTheme(s.Themes, ev.Theme)
		if !ok {
			return s, []Effect{Say{Text: messages.ThemeNotInList, Options: themeOptions(s.Themes)}}
		}
		s.PendingTheme = theme
		s.Loading = true
		return s, []Effect{FetchDifficulties{Week: s.Config.Week, Theme: theme}}

	case DifficultiesLoaded:
		s.Loading = false
		if len(ev.Levels) == 0 {
			// Для темы нет уровней: показываем тот же список тем ещё раз.
			return s, []Effect{Say{Text: messages.NoDifficulties, Options: themeOptions(s.Themes)}}
		}
		s.Config.Theme = s.PendingTheme
		s.Difficulties = ev.Levels
		s.Step = StepSelectDifficulty
		return s, []Effect{Say{Text: messages.AskDifficulty, Options: difficultyOptions(ev.Levels), Paced: true}}

	case FetchFailed:
		s.Loading = false
		return s, []Effect{Say{Text: ev.Message}}
	}
	return s, nil
}

func (m *Machine) fromSelectDifficulty(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case DifficultyChosen:
		if !containsLevel(s.Difficulties, ev.Level) {
			return s, []Effect{Say{Text: messages.DifficultyAgain, Options: difficultyOptions(s.Difficulties)}}
		}
		s.PendingDifficulty = ev.Level
		s.Loading = true
		cfg := s.Config
		cfg.Difficulty = ev.Level
		return s, []Effect{FetchCount{Config: cfg}}

	case CountLoaded:
		s.Loading = false
		if ev.Count == 0 {
			s.Step = StepNoQuestions
			return s, []Effect{Say{Text: messages.NoQuestionsFound, Options: recoveryOptions()}}
		}
		s.Config.Difficulty = s.PendingDifficulty
		s.resetAttempt()
		s.Loading = true
		limit := ev.Count
		if limit > m.maxQuestions {
			limit = m.maxQuestions
		}
		return s, []Effect{FetchQuestions{Config: s.Config, Limit: limit}}

	case QuestionsLoaded:
		s.Loading = false
		if len(ev.Questions) == 0 {
			s.Step = StepNoQuestions
			return s, []Effect{Say{Text: messages.NoQuestionsFound, Options: recoveryOptions()}}
		}
		s.Questions = ev.Questions
		s.Position = 0
		s.Score = 0
		s.Answers = nil
		s.Step = StepAnswering
		effects := []Effect{Say{Text: fmt.Sprintf(messages.QuizReadyFmt, len(ev.Questions)), Paced: true}}
		return s, append(effects, questionEffects(s)...)

	case FetchFailed:
		s.Loading = false
		return s, []Effect{Say{Text: ev.Message}}
	}
	return s, nil
}

func (m *Machine) fromNoQuestions(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case RecoveryChoice:
		switch ev.Choice {
		case RecoverDifficulty:
			s.Loading = true
			return s, []Effect{FetchDifficulties{Week: s.Config.Week, Theme: s.Config.Theme}}
		case RecoverTheme:
			// Список тем уже есть в кэше, новый запрос не нужен.
			s.Step = StepSelectTheme
			return s, []Effect{Say{Text: messages.AskTheme, Options: themeOptions(s.Themes)}}
		case RecoverRestart:
			s = NewState()
			s.Step = StepSelectWeek
			return s, []Effect{Say{Text: messages.AskWeekAgain}}
		}
		return s, nil

	case DifficultiesLoaded:
		s.Loading = false
		if len(ev.Levels) == 0 {
			s.Step = StepSelectTheme
			return s, []Effect{Say{Text: messages.NoDifficulties, Options: themeOptions(s.Themes)}}
		}
		s.Difficulties = ev.Levels
		s.Step = StepSelectDifficulty
		return s, []Effect{Say{Text: messages.AskDifficulty, Options: difficultyOptions(ev.Levels)}}

	case FetchFailed:
		s.Loading = false
		return s, []Effect{Say{Text: ev.Message}}
	}
	return s, nil
}

func (m *Machine) fromAnswering(s State, ev Event) (State, []Effect) {
	given, ok := ev.(AnswerGiven)
	if !ok {
		return s, nil
	}
	q, ok := s.CurrentQuestion()
	if !ok {
		return s, nil
	}

	chosen := strings.ToLower(strings.TrimSpace(given.Letter))
	correct := chosen == strings.ToLower(strings.TrimSpace(q.Correct))
	s.Answers = append(s.Answers, Answer{QuestionID: q.ID, Chosen: chosen, Correct: correct})
	if correct {
		s.Score++
	}
	s.Position++

	var feedback Effect
	if correct {
		feedback = Say{Text: messages.AnswerCorrect, Paced: true}
	} else {
		feedback = Say{
			Text:  fmt.Sprintf(messages.AnswerWrongFmt, q.Correct, optionText(q, q.Correct)),
			Paced: true,
		}
	}

	if s.Position < len(s.Questions) {
		return s, append([]Effect{feedback}, questionEffects(s)...)
	}

	// Все вопросы отвечены: итоги, отправка попытки и отчёт.
	s.Step = StepResults
	total := len(s.Questions)
	pct := Percentage(s.Score, total)
	effects := []Effect{
		feedback,
		Say{Text: messages.QuizCompleted, Paced: true},
		Say{Text: fmt.Sprintf(messages.ScoreFmt, s.Score, total, pct), Paced: true},
		Say{Text: TierMessage(pct), Paced: true},
		Say{Text: messages.AskAnotherQuiz, Options: resultsOptions(), Paced: true},
		SubmitAttempt{Config: s.Config, Score: s.Score, Total: total, Answers: s.Answers},
		DeliverReport{Config: s.Config, Score: s.Score, Total: total, Answers: s.Answers, Questions: s.Questions},
	}
	return s, effects
}

func (m *Machine) fromResults(s State, ev Event) (State, []Effect) {
	choice, ok := ev.(ResultsChoice)
	if !ok {
		return s, nil
	}
	switch choice.Choice {
	case ChoiceRetry:
		// Та же конфигурация: заново проходим путь пересчёта и генерации,
		// чтобы получить свежую перетасовку вопросов.
		s.resetAttempt()
		s.PendingDifficulty = s.Config.Difficulty
		s.Step = StepSelectDifficulty
		s.Loading = true
		return s, []Effect{FetchCount{Config: s.Config}}
	case ChoiceReconfigure:
		s = NewState()
		s.Step = StepSelectWeek
		return s, []Effect{Say{Text: messages.AskWeekAgain}}
	case ChoiceExit:
		s.Step = StepDone
		return s, []Effect{Say{Text: messages.Farewell}, Exit{}}
	}
	return s, nil
}

// resetAttempt очищает поля попытки, сохраняя конфигурацию и кэши.
func (s *State) resetAttempt() {
	s.Questions = nil
	s.Position = 0
	s.Score = 0
	s.Answers = nil
}

// Percentage возвращает округлённый процент правильных ответов.
func Percentage(score, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// TierMessage подбирает итоговую оценку: границы 80 и 60 включительно.
func TierMessage(pct int) string {
	switch {
	case pct >= 80:
		return messages.TierExcellent
	case pct >= 60:
		return messages.TierGood
	default:
		return messages.TierKeepGoing
	}
}

// DifficultyLabel возвращает человекочитаемое имя уровня.
func DifficultyLabel(level int) string {
	switch level {
	case 1:
		return messages.DifficultyEasy
	case 2:
		return messages.DifficultyMedium
	case 3:
		return messages.DifficultyHard
	default:
		return fmt.Sprintf(messages.DifficultyOtherFmt, level)
	}
}

// OptionLetter возвращает букву варианта по индексу: 0 -> "a".
func OptionLetter(i int) string {
	return string(rune('a' + i))
}

// questionEffects формирует показ текущего вопроса: сначала заголовок
// «Pregunta N de M», затем текст вопроса с вариантами. Порядок фиксирован.
func questionEffects(s State) []Effect {
	q, ok := s.CurrentQuestion()
	if !ok {
		return nil
	}
	opts := make([]Option, 0, len(q.Options))
	for i, text := range q.Options {
		letter := OptionLetter(i)
		opts = append(opts, Option{Text: letter + ") " + text, Value: letter})
	}
	return []Effect{
		Say{Text: fmt.Sprintf(messages.QuestionHeaderFmt, s.Position+1, len(s.Questions)), Paced: true},
		Say{Text: q.Text, Options: opts, Paced: true},
	}
}

func themeOptions(themes []string) []Option {
	opts := make([]Option, 0, len(themes))
	for _, t := range themes {
		opts = append(opts, Option{Text: t, Value: t})
	}
	return opts
}

func difficultyOptions(levels []int) []Option {
	opts := make([]Option, 0, len(levels))
	for _, l := range levels {
		opts = append(opts, Option{Text: DifficultyLabel(l), Value: fmt.Sprintf("%d", l)})
	}
	return opts
}

func recoveryOptions() []Option {
	return []Option{
		{Text: messages.ChangeDifficultyBtn, Value: RecoverDifficulty},
		{Text: messages.ChangeThemeBtn, Value: RecoverTheme},
		{Text: messages.RestartBtn, Value: RecoverRestart},
	}
}

func resultsOptions() []Option {
	return []Option{
		{Text: messages.RetryBtn, Value: ChoiceRetry},
		{Text: messages.ReconfigureBtn, Value: ChoiceReconfigure},
		{Text: messages.ExitBtn, Value: ChoiceExit},
	}
}

// matchTheme ищет тему в списке без учёта регистра и возвращает
// каноническое написание из списка.
func matchTheme(themes []string, input string) (string, bool) {
	input = strings.TrimSpace(input)
	for _, t := range themes {
		if strings.EqualFold(t, input) {
			return t, true
		}
	}
	return "", false
}

func containsLevel(levels []int, level int) bool {
	for _, l := range levels {
		if l == level {
			return true
		}
	}
	return false
}

// optionText возвращает текст варианта по его букве, если буква в диапазоне.
func optionText(q Question, letter string) string {
	letter = strings.ToLower(strings.TrimSpace(letter))
	if len(letter) != 1 {
		return ""
	}
	idx := int(letter[0] - 'a')
	if idx < 0 || idx >= len(q.Options) {
		return ""
	}
	return q.Options[idx]
}
