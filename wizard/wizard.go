package wizard

// Пакет wizard содержит чистую машину состояний диалогового квиза:
// Transition(state, event) -> (state, effects). Здесь нет ни телеграма,
// ни сети — эффекты описывают, что нужно сделать (отправить сообщение,
// запросить данные у бэкенда), а исполняет их слой handlers.

// Step — этап диалога.
type Step int

const (
	StepWelcome Step = iota
	StepSelectWeek
	StepSelectTheme
	StepSelectDifficulty
	StepNoQuestions
	StepAnswering
	StepResults
	StepDone
)

// Границы допустимых недель курса.
const (
	MinWeek = 1
	MaxWeek = 16
)

// DefaultMaxQuestions — верхняя граница размера квиза, если в конфиге не задано иное.
const DefaultMaxQuestions = 10

// Question — вопрос, как его отдаёт бэкенд: текст и четыре варианта,
// правильный вариант задан буквой a..d.
type Question struct {
	ID      int
	Text    string
	Options []string
	Correct string
}

// Answer — запись об одном ответе. Последовательность ответов пополняется
// только добавлением и после добавления не меняется.
type Answer struct {
	QuestionID int
	Chosen     string
	Correct    bool
}

// Config — тройка (неделя, тема, сложность), выбирающая пул вопросов.
type Config struct {
	Week       int
	Theme      string
	Difficulty int
}

// State — полное состояние одного прогона мастера. Значение копируется
// целиком: Transition не мутирует вход, кроме срезов попытки, которые
// принадлежат только этому состоянию.
type State struct {
	Step    Step
	Config  Config
	Loading bool // запрос к бэкенду в полёте; пользовательский ввод игнорируется

	// Выбранные, но ещё не подтверждённые бэкендом значения.
	PendingWeek       int
	PendingTheme      string
	PendingDifficulty int

	// Кэш списков для повторного показа (ветка восстановления).
	Themes       []string
	Difficulties []int

	// Текущая попытка.
	Questions []Question
	Position  int
	Score     int
	Answers   []Answer
}

// NewState возвращает исходное состояние мастера.
func NewState() State {
	return State{Step: StepWelcome}
}

// CurrentQuestion возвращает вопрос под курсором попытки.
func (s State) CurrentQuestion() (Question, bool) {
	if s.Position < 0 || s.Position >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.Position], true
}

// Finished сообщает, дошла ли попытка до конца последовательности вопросов.
func (s State) Finished() bool {
	return len(s.Questions) > 0 && s.Position == len(s.Questions)
}

// Option — вариант быстрого ответа, прикрепляемый к сообщению.
type Option struct {
	Text  string
	Value string
}

// Значения быстрых ответов, которыми оперирует машина.
const (
	ChoiceRetry       = "retry"
	ChoiceReconfigure = "change"
	ChoiceExit        = "exit"

	RecoverDifficulty = "recover_difficulty"
	RecoverTheme      = "recover_theme"
	RecoverRestart    = "recover_restart"
)

// Event — входное событие машины: либо действие пользователя, либо
// результат сетевого запроса, который вернулся из слоя исполнения.
type Event interface{ isEvent() }

// StartEvent запускает диалог; Name — имя пользователя для приветствия.
type StartEvent struct{ Name string }

// WeekInput — введённая неделя. Нечисловой ввод приходит как Week=0.
type WeekInput struct{ Week int }

// ThemeChosen — выбранная тема (кнопка или текст).
type ThemeChosen struct{ Theme string }

// DifficultyChosen — выбранный уровень сложности.
type DifficultyChosen struct{ Level int }

// AnswerGiven — ответ на текущий вопрос (буква, регистр любой).
type AnswerGiven struct{ Letter string }

// ResultsChoice — выбор на экране итогов: retry / change / exit.
type ResultsChoice struct{ Choice string }

// RecoveryChoice — выбор в ветке «нет вопросов».
type RecoveryChoice struct{ Choice string }

// ThemesLoaded — бэкенд вернул список тем для выбранной недели.
type ThemesLoaded struct{ Themes []string }

// DifficultiesLoaded — бэкенд вернул список сложностей.
type DifficultiesLoaded struct{ Levels []int }

// CountLoaded — бэкенд вернул число доступных вопросов.
type CountLoaded struct{ Count int }

// QuestionsLoaded — бэкенд вернул сгенерированный набор вопросов.
type QuestionsLoaded struct{ Questions []Question }

// FetchFailed — сетевой сбой на любом этапе; состояние не меняется,
// пользователю показывается общее сообщение с предложением повторить.
type FetchFailed struct{ Message string }

func (StartEvent) isEvent()         {}
func (WeekInput) isEvent()          {}
func (ThemeChosen) isEvent()        {}
func (DifficultyChosen) isEvent()   {}
func (AnswerGiven) isEvent()        {}
func (ResultsChoice) isEvent()      {}
func (RecoveryChoice) isEvent()     {}
func (ThemesLoaded) isEvent()       {}
func (DifficultiesLoaded) isEvent() {}
func (CountLoaded) isEvent()        {}
func (QuestionsLoaded) isEvent()    {}
func (FetchFailed) isEvent()        {}

// Effect — побочное действие, которое слой исполнения должен выполнить
// после перехода. Порядок эффектов в срезе значим: сообщения показываются
// пользователю ровно в этой последовательности.
type Effect interface{ isEffect() }

// Say — отправить сообщение; Options, если заданы, показываются как
// быстрые ответы. Paced помечает косметическую паузу перед отправкой.
type Say struct {
	Text    string
	Options []Option
	Paced   bool
}

// FetchThemes — запросить темы для недели.
type FetchThemes struct{ Week int }

// FetchDifficulties — запросить сложности для (неделя, тема).
type FetchDifficulties struct {
	Week  int
	Theme string
}

// FetchCount — запросить число вопросов для полной конфигурации.
type FetchCount struct{ Config Config }

// FetchQuestions — запросить генерацию Limit вопросов.
type FetchQuestions struct {
	Config Config
	Limit  int
}

// SubmitAttempt — отправить завершённую попытку на сохранение.
// Исполняется в режиме fire-and-forget: ошибка логируется и не влияет
// на показ итогов.
type SubmitAttempt struct {
	Config  Config
	Score   int
	Total   int
	Answers []Answer
}

// DeliverReport — сформировать и отправить PDF-отчёт по попытке.
// Тоже best-effort.
type DeliverReport struct {
	Config  Config
	Score   int
	Total   int
	Answers []Answer

	Questions []Question
}

// Exit — диалог завершён, дальнейший ввод мастеру не адресуется.
type Exit struct{}

func (Say) isEffect()               {}
func (FetchThemes) isEffect()       {}
func (FetchDifficulties) isEffect() {}
func (FetchCount) isEffect()        {}
func (FetchQuestions) isEffect()    {}
func (SubmitAttempt) isEffect()     {}
func (DeliverReport) isEffect()     {}
func (Exit) isEffect()              {}
