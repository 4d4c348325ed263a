package wizard

import (
	"fmt"
	"strings"
	"testing"

	"github.com/IT-Nick/studybot/messages"
)

// readyState прогоняет машину по полному пути настройки до начала квиза.
func readyState(t *testing.T, m *Machine, questions []Question) State {
	t.Helper()
	s := NewState()
	s, _ = m.Transition(s, StartEvent{Name: "Ana"})
	s, _ = m.Transition(s, WeekInput{Week: 5})
	s, _ = m.Transition(s, ThemesLoaded{Themes: []string{"Derivadas", "Integrales"}})
	s, _ = m.Transition(s, ThemeChosen{Theme: "Derivadas"})
	s, _ = m.Transition(s, DifficultiesLoaded{Levels: []int{1, 2, 3}})
	s, _ = m.Transition(s, DifficultyChosen{Level: 2})
	s, _ = m.Transition(s, CountLoaded{Count: len(questions)})
	s, _ = m.Transition(s, QuestionsLoaded{Questions: questions})
	if s.Step != StepAnswering {
		t.Fatalf("после настройки ожидался шаг ответа, получен %d", s.Step)
	}
	return s
}

func sampleQuestions(n int) []Question {
	qs := make([]Question, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, Question{
			ID:      100 + i,
			Text:    fmt.Sprintf("Pregunta %d", i+1),
			Options: []string{"uno", "dos", "tres", "cuatro"},
			Correct: "b",
		})
	}
	return qs
}

func sayTexts(effects []Effect) []string {
	var out []string
	for _, eff := range effects {
		if say, ok := eff.(Say); ok {
			out = append(out, say.Text)
		}
	}
	return out
}

func hasEffect[T Effect](effects []Effect) bool {
	for _, eff := range effects {
		if _, ok := eff.(T); ok {
			return true
		}
	}
	return false
}

func TestStartGreetsAndAsksWeek(t *testing.T) {
	m := NewMachine(0)
	s, effects := m.Transition(NewState(), StartEvent{Name: "Ana"})

	if s.Step != StepSelectWeek {
		t.Fatalf("ожидался выбор недели, получен шаг %d", s.Step)
	}
	texts := sayTexts(effects)
	if len(texts) != 2 {
		t.Fatalf("ожидались приветствие и вопрос о неделе, получено %d сообщений", len(texts))
	}
	if !strings.Contains(texts[0], "Ana") {
		t.Errorf("приветствие должно содержать имя: %q", texts[0])
	}
}

func TestWeekOutOfRangeStays(t *testing.T) {
	m := NewMachine(0)
	base := NewState()
	base, _ = m.Transition(base, StartEvent{Name: "Ana"})

	for _, week := range []int{0, -1, 17, 100} {
		s, effects := m.Transition(base, WeekInput{Week: week})
		if s.Step != StepSelectWeek || s.Loading {
			t.Errorf("неделя %d: состояние не должно меняться", week)
		}
		if texts := sayTexts(effects); len(texts) != 1 || texts[0] != messages.WeekOutOfRange {
			t.Errorf("неделя %d: ожидалось сообщение о диапазоне, получено %v", week, texts)
		}
	}
}

func TestValidWeekRequestsThemes(t *testing.T) {
	m := NewMachine(0)
	s := NewState()
	s, _ = m.Transition(s, StartEvent{Name: "Ana"})
	s, effects := m.Transition(s, WeekInput{Week: 5})

	if !s.Loading {
		t.Error("на время запроса тем ввод должен быть заблокирован")
	}
	fetch, ok := effects[len(effects)-1].(FetchThemes)
	if !ok || fetch.Week != 5 {
		t.Fatalf("ожидался запрос тем недели 5, получено %v", effects)
	}
	if s.Config.Week != 0 {
		t.Error("неделя не должна фиксироваться до ответа бэкенда")
	}
}

func TestWeekWithoutThemesStays(t *testing.T) {
	m := NewMachine(0)
	s := NewState()
	s, _ = m.Transition(s, StartEvent{Name: "Ana"})
	s, _ = m.Transition(s, WeekInput{Week: 7})
	s, effects := m.Transition(s, ThemesLoaded{Themes: nil})

	if s.Step != StepSelectWeek || s.Loading {
		t.Error("пустой список тем должен оставить выбор недели")
	}
	if s.Config.Week != 0 {
		t.Error("неделя без тем не должна фиксироваться")
	}
	if texts := sayTexts(effects); len(texts) != 1 || !strings.Contains(texts[0], "7") {
		t.Errorf("ожидалось сообщение про неделю 7, получено %v", texts)
	}
}

func TestLoadingIgnoresUserInput(t *testing.T) {
	m := NewMachine(0)
	s := NewState()
	s, _ = m.Transition(s, StartEvent{Name: "Ana"})
	s, _ = m.Transition(s, WeekInput{Week: 5})

	next, effects := m.Transition(s, WeekInput{Week: 6})
	if len(effects) != 0 {
		t.Errorf("во время запроса ввод должен игнорироваться, получено %v", effects)
	}
	if next.PendingWeek != 5 {
		t.Errorf("ожидаемая неделя 5, получена %d", next.PendingWeek)
	}
}

func TestThemeMatchIsCaseInsensitive(t *testing.T) {
	m := NewMachine(0)
	s := NewState()
	s, _ = m.Transition(s, StartEvent{Name: "Ana"})
	s, _ = m.Transition(s, WeekInput{Week: 5})
	s, _ = m.Transition(s, ThemesLoaded{Themes: []string{"Derivadas", "Integrales"}})

	s, effects := m.Transition(s, ThemeChosen{Theme: "  derivadas "})
	fetch, ok := effects[len(effects)-1].(FetchDifficulties)
	if !ok {
		t.Fatalf("ожидался запрос сложностей, получено %v", effects)
	}
	if fetch.Theme != "Derivadas" || s.PendingTheme != "Derivadas" {
		t.Errorf("тема должна браться в каноническом написании, получено %q", fetch.Theme)
	}
}

func TestUnknownThemeReasks(t *testing.T) {
	m := NewMachine(0)
	s := NewState()
	s, _ = m.Transition(s, StartEvent{Name: "Ana"})
	s, _ = m.Transition(s, WeekInput{Week: 5})
	s, _ = m.Transition(s, ThemesLoaded{Themes: []string{"Derivadas"}})

	next, effects := m.Transition(s, ThemeChosen{Theme: "Topología"})
	if next.Step != StepSelectTheme || next.Loading {
		t.Error("незнакомая тема не должна менять состояние")
	}
	say, ok := effects[0].(Say)
	if !ok || say.Text != messages.ThemeNotInList || len(say.Options) != 1 {
		t.Errorf("ожидался повтор списка тем, получено %v", effects)
	}
}

func TestQuizSizeCappedAtMax(t *testing.T) {
	m := NewMachine(10)
	base := NewState()
	base, _ = m.Transition(base, StartEvent{Name: "Ana"})
	base, _ = m.Transition(base, WeekInput{Week: 5})
	base, _ = m.Transition(base, ThemesLoaded{Themes: []string{"Derivadas"}})
	base, _ = m.Transition(base, ThemeChosen{Theme: "Derivadas"})
	base, _ = m.Transition(base, DifficultiesLoaded{Levels: []int{2}})
	base, _ = m.Transition(base, DifficultyChosen{Level: 2})

	for _, tc := range []struct{ count, want int }{
		{7, 7},
		{10, 10},
		{25, 10},
	} {
		_, effects := m.Transition(base, CountLoaded{Count: tc.count})
		fetch, ok := effects[len(effects)-1].(FetchQuestions)
		if !ok {
			t.Fatalf("count=%d: ожидался запрос генерации, получено %v", tc.count, effects)
		}
		if fetch.Limit != tc.want {
			t.Errorf("count=%d: ожидался лимит %d, получен %d", tc.count, tc.want, fetch.Limit)
		}
		if fetch.Config.Week != 5 || fetch.Config.Theme != "Derivadas" || fetch.Config.Difficulty != 2 {
			t.Errorf("count=%d: конфигурация искажена: %+v", tc.count, fetch.Config)
		}
	}
}

func TestZeroCountOffersRecovery(t *testing.T) {
	m := NewMachine(0)
	s := NewState()
	s, _ = m.Transition(s, StartEvent{Name: "Ana"})
	s, _ = m.Transition(s, WeekInput{Week: 5})
	s, _ = m.Transition(s, ThemesLoaded{Themes: []string{"Derivadas"}})
	s, _ = m.Transition(s, ThemeChosen{Theme: "Derivadas"})
	s, _ = m.Transition(s, DifficultiesLoaded{Levels: []int{1}})
	s, _ = m.Transition(s, DifficultyChosen{Level: 1})
	s, effects := m.Transition(s, CountLoaded{Count: 0})

	if s.Step != StepNoQuestions {
		t.Fatalf("ожидалась ветка восстановления, получен шаг %d", s.Step)
	}
	if hasEffect[FetchQuestions](effects) {
		t.Error("при нуле вопросов генерация запрашиваться не должна")
	}
	say, ok := effects[0].(Say)
	if !ok || len(say.Options) != 3 {
		t.Fatalf("ожидались ровно три варианта восстановления, получено %v", effects)
	}

	// Смена темы использует кэш и не ходит в сеть.
	next, effects := m.Transition(s, RecoveryChoice{Choice: RecoverTheme})
	if next.Step != StepSelectTheme || hasEffect[FetchThemes](effects) {
		t.Error("смена темы должна показывать кэшированный список без запроса")
	}

	// Полный перезапуск сбрасывает состояние.
	next, _ = m.Transition(s, RecoveryChoice{Choice: RecoverRestart})
	if next.Step != StepSelectWeek || next.Config.Week != 0 {
		t.Error("перезапуск должен вернуть чистый выбор недели")
	}
}

func TestAnsweringScoresAndFinishes(t *testing.T) {
	m := NewMachine(10)
	s := readyState(t, m, sampleQuestions(2))

	// Регистр буквы не важен.
	s, effects := m.Transition(s, AnswerGiven{Letter: "B"})
	if s.Score != 1 || s.Position != 1 {
		t.Fatalf("после верного ответа счёт=%d позиция=%d", s.Score, s.Position)
	}
	if texts := sayTexts(effects); texts[0] != messages.AnswerCorrect {
		t.Errorf("ожидалась похвала, получено %q", texts[0])
	}

	s, effects = m.Transition(s, AnswerGiven{Letter: "c"})
	if s.Score != 1 {
		t.Errorf("неверный ответ не должен менять счёт, получен %d", s.Score)
	}
	if s.Step != StepResults || !s.Finished() {
		t.Fatalf("после последнего ответа ожидались итоги, шаг %d", s.Step)
	}
	if len(s.Answers) != 2 || !s.Answers[0].Correct || s.Answers[1].Correct {
		t.Errorf("последовательность ответов искажена: %+v", s.Answers)
	}

	texts := sayTexts(effects)
	if !strings.Contains(texts[0], "b) dos") {
		t.Errorf("при ошибке должен показываться правильный вариант, получено %q", texts[0])
	}
	want := fmt.Sprintf(messages.ScoreFmt, 1, 2, 50)
	found := false
	for _, txt := range texts {
		if txt == want {
			found = true
		}
	}
	if !found {
		t.Errorf("ожидалось сообщение %q среди %v", want, texts)
	}
	if !hasEffect[SubmitAttempt](effects) || !hasEffect[DeliverReport](effects) {
		t.Error("итоги должны отправлять попытку и отчёт")
	}
}

func TestPercentageRounding(t *testing.T) {
	for _, tc := range []struct{ score, total, want int }{
		{8, 10, 80},
		{6, 10, 60},
		{2, 3, 67},
		{1, 3, 33},
		{0, 0, 0},
	} {
		if got := Percentage(tc.score, tc.total); got != tc.want {
			t.Errorf("Percentage(%d, %d) = %d, ожидалось %d", tc.score, tc.total, got, tc.want)
		}
	}
}

func TestTierBoundariesInclusive(t *testing.T) {
	for _, tc := range []struct {
		pct  int
		want string
	}{
		{100, messages.TierExcellent},
		{80, messages.TierExcellent},
		{79, messages.TierGood},
		{60, messages.TierGood},
		{59, messages.TierKeepGoing},
		{0, messages.TierKeepGoing},
	} {
		if got := TierMessage(tc.pct); got != tc.want {
			t.Errorf("TierMessage(%d) = %q, ожидалось %q", tc.pct, got, tc.want)
		}
	}
}

func TestFetchFailureKeepsStateAndAllowsRetry(t *testing.T) {
	m := NewMachine(0)
	s := NewState()
	s, _ = m.Transition(s, StartEvent{Name: "Ana"})
	s, _ = m.Transition(s, WeekInput{Week: 5})

	s, effects := m.Transition(s, FetchFailed{Message: messages.FetchThemesFailed})
	if s.Step != StepSelectWeek || s.Loading {
		t.Error("сбой сети должен вернуть управление на том же шаге")
	}
	if texts := sayTexts(effects); len(texts) != 1 || texts[0] != messages.FetchThemesFailed {
		t.Errorf("ожидалось сообщение о сбое, получено %v", texts)
	}

	// Повторный ввод работает как обычно.
	_, effects = m.Transition(s, WeekInput{Week: 5})
	if !hasEffect[FetchThemes](effects) {
		t.Error("после сбоя повторный ввод должен снова запросить темы")
	}
}

func TestResultsRetryKeepsConfig(t *testing.T) {
	m := NewMachine(10)
	s := readyState(t, m, sampleQuestions(1))
	s, _ = m.Transition(s, AnswerGiven{Letter: "b"})

	s, effects := m.Transition(s, ResultsChoice{Choice: ChoiceRetry})
	if !s.Loading {
		t.Error("повтор квиза должен блокировать ввод на время пересчёта")
	}
	fetch, ok := effects[len(effects)-1].(FetchCount)
	if !ok {
		t.Fatalf("повтор должен заново запрашивать число вопросов, получено %v", effects)
	}
	if fetch.Config != (Config{Week: 5, Theme: "Derivadas", Difficulty: 2}) {
		t.Errorf("конфигурация повтора искажена: %+v", fetch.Config)
	}
	if len(s.Answers) != 0 || s.Score != 0 {
		t.Error("поля попытки должны очищаться перед повтором")
	}
}

func TestResultsReconfigureStartsOver(t *testing.T) {
	m := NewMachine(10)
	s := readyState(t, m, sampleQuestions(1))
	s, _ = m.Transition(s, AnswerGiven{Letter: "b"})

	s, _ = m.Transition(s, ResultsChoice{Choice: ChoiceReconfigure})
	if s.Step != StepSelectWeek || s.Config != (Config{}) {
		t.Errorf("смена конфигурации должна начинать мастера заново: %+v", s)
	}
}

func TestResultsExitTerminates(t *testing.T) {
	m := NewMachine(10)
	s := readyState(t, m, sampleQuestions(1))
	s, _ = m.Transition(s, AnswerGiven{Letter: "b"})

	s, effects := m.Transition(s, ResultsChoice{Choice: ChoiceExit})
	if s.Step != StepDone || !hasEffect[Exit](effects) {
		t.Fatalf("выход должен завершать диалог, получено %v", effects)
	}

	// Дальнейший ввод не производит эффектов.
	_, effects = m.Transition(s, AnswerGiven{Letter: "a"})
	if len(effects) != 0 {
		t.Errorf("после выхода ввод должен игнорироваться, получено %v", effects)
	}
}

func TestQuestionPresentationOrder(t *testing.T) {
	m := NewMachine(10)
	qs := sampleQuestions(3)
	s := readyState(t, m, qs)

	_, effects := m.Transition(s, AnswerGiven{Letter: "b"})
	texts := sayTexts(effects)
	if len(texts) < 3 {
		t.Fatalf("ожидались отклик, заголовок и вопрос, получено %v", texts)
	}
	if texts[1] != fmt.Sprintf(messages.QuestionHeaderFmt, 2, 3) {
		t.Errorf("заголовок должен идти перед вопросом, получено %q", texts[1])
	}
	if texts[2] != qs[1].Text {
		t.Errorf("ожидался текст второго вопроса, получено %q", texts[2])
	}
}

func TestQuestionOptionsLabeled(t *testing.T) {
	m := NewMachine(10)
	s := readyState(t, m, sampleQuestions(2))

	_, effects := m.Transition(s, AnswerGiven{Letter: "a"})
	var question Say
	for _, eff := range effects {
		if say, ok := eff.(Say); ok && len(say.Options) > 0 {
			question = say
		}
	}
	if len(question.Options) != 4 {
		t.Fatalf("ожидались четыре варианта, получено %d", len(question.Options))
	}
	if question.Options[0].Text != "a) uno" || question.Options[0].Value != "a" {
		t.Errorf("вариант должен подписываться буквой: %+v", question.Options[0])
	}
	if question.Options[3].Text != "d) cuatro" || question.Options[3].Value != "d" {
		t.Errorf("последний вариант искажён: %+v", question.Options[3])
	}
}
