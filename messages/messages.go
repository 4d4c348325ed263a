package messages

// Тексты, которые бот показывает студентам. Продукт испаноязычный,
// поэтому все пользовательские строки здесь на испанском; ключи и
// комментарии — как обычно.
const (
	// Приветствие и выбор недели.
	WelcomeFmt     = "¡Hola %s! 👋 Soy tu asistente de estudio."
	AskWeek        = "¿En qué semana estás? (escribe un número del 1 al 16)"
	AskWeekAgain   = "¡Genial! ¿En qué semana estás? (1-16)"
	WeekOutOfRange = "Por favor escribe un número entre 1 y 16."
	NoThemesFmt    = "No hay temas disponibles para la semana %d. Elige otra semana (1-16)."

	// Выбор темы и сложности.
	AskTheme        = "¡Perfecto! Ahora selecciona un tema:"
	ThemeNotInList  = "Elige uno de los temas de la lista, por favor."
	AskDifficulty   = "Genial. Selecciona la dificultad:"
	NoDifficulties  = "Esa combinación no tiene niveles disponibles. Elige otro tema:"
	DifficultyAgain = "Elige una de las dificultades de la lista, por favor."

	DifficultyEasy   = "Fácil"
	DifficultyMedium = "Media"
	DifficultyHard   = "Difícil"
	DifficultyOtherFmt = "Nivel %d"

	// Ветка без вопросов: три варианта восстановления.
	NoQuestionsFound   = "No encontré preguntas para esa combinación. ¿Qué quieres hacer?"
	ChangeDifficultyBtn = "Cambiar dificultad"
	ChangeThemeBtn      = "Cambiar tema"
	RestartBtn          = "Empezar de nuevo"

	// Прохождение квиза.
	QuizReadyFmt     = "¡Excelente! Preparé %d preguntas para ti. ¡Empecemos! 🚀"
	QuestionHeaderFmt = "Pregunta %d de %d"
	AnswerCorrect     = "✅ ¡Correcto!"
	AnswerWrongFmt    = "❌ Incorrecto. La respuesta correcta era: %s) %s"

	// Итоги.
	QuizCompleted = "🎉 ¡Quiz completado!"
	ScoreFmt      = "Tu puntuación: %d/%d (%d%%)"
	TierExcellent = "¡Excelente trabajo! 🌟 Dominas muy bien este tema."
	TierGood      = "¡Buen trabajo! 👍 Sigue practicando para mejorar."
	TierKeepGoing = "Sigue estudiando. 📚 ¡Tú puedes mejorar!"

	AskAnotherQuiz = "¿Quieres hacer otro quiz?"
	RetryBtn       = "Sí, otro quiz"
	ReconfigureBtn = "Cambiar semana y tema"
	ExitBtn        = "No, salir"
	Farewell       = "¡Gracias por practicar! Hasta pronto 👋"

	// Ошибки сети/бэкенда: общее сообщение, состояние не меняется.
	FetchThemesFailed       = "Hubo un error cargando los temas. Intenta de nuevo."
	FetchDifficultiesFailed = "Hubo un error cargando las dificultades. Intenta de nuevo."
	FetchQuizFailed         = "Hubo un error generando el quiz. Intenta de nuevo."

	// Авторизация.
	AskStudentNumber    = "Para empezar necesito identificarte. Escribe tu número de estudiante:"
	AskPassword         = "Ahora escribe tu contraseña:"
	AskRegisterNumber   = "Vamos a crear tu cuenta. Escribe tu número de estudiante:"
	AskRegisterName     = "¿Cómo te llamas?"
	AskRegisterPassword = "Elige una contraseña:"
	LoginFailed         = "No pude iniciar sesión con esos datos. Escribe tu número de estudiante para intentarlo otra vez, o usa /registro para crear una cuenta."
	RegisterFailed      = "No pude crear la cuenta (¿ya existe ese número?). Escribe tu número de estudiante para intentarlo otra vez."
	LoggedInFmt         = "¡Listo, %s! Sesión iniciada."
	LoggedOut           = "Sesión cerrada. Usa /start cuando quieras volver."
	SessionExpired      = "Tu sesión expiró. Escribe tu número de estudiante para entrar de nuevo:"

	// Панели.
	NoSessionsYet   = "Todavía no tienes quizzes completados. ¡Empieza uno con /start!"
	TeacherOnly     = "Este panel es solo para profesores."
	DashboardFailed = "No pude cargar las estadísticas. Intenta de nuevo más tarde."

	// Отчёт.
	ReportCaption = "Aquí tienes tu reporte del quiz 📄"

	// Подсказка вне диалога.
	UseStart = "Usa /start para comenzar."
)
