package report

import (
	"os"
	"strings"
	"testing"

	"github.com/IT-Nick/studybot/wizard"
)

func TestGeneratePDFReport(t *testing.T) {
	data := ReportData{
		StudentName:   "Ana García",
		StudentNumber: "A123",
		Config:        wizard.Config{Week: 5, Theme: "Derivadas", Difficulty: 2},
		Score:         1,
		Total:         2,
		Questions: []wizard.Question{
			{ID: 1, Text: "¿Cuál es la derivada de x²?", Options: []string{"2x", "x", "x²", "2"}, Correct: "a"},
			{ID: 2, Text: "¿Cuál es la derivada de una constante?", Options: []string{"1", "0", "x", "-1"}, Correct: "b"},
		},
		Answers: []wizard.Answer{
			{QuestionID: 1, Chosen: "a", Correct: true},
			{QuestionID: 2, Chosen: "c", Correct: false},
		},
	}

	path, err := GeneratePDFReport(data)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	defer os.Remove(path)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("файл отчёта не создан: %v", err)
	}
	if info.Size() == 0 {
		t.Error("отчёт не должен быть пустым")
	}
	if !strings.HasSuffix(path, "reporte_quiz_A123.pdf") {
		t.Errorf("неожиданное имя файла: %s", path)
	}
}

func TestFormatOption(t *testing.T) {
	q := wizard.Question{Options: []string{"uno", "dos", "tres", "cuatro"}}

	if got := formatOption(q, "B"); got != "b) dos" {
		t.Errorf("ожидалось \"b) dos\", получено %q", got)
	}
	if got := formatOption(q, "z"); got != "z" {
		t.Errorf("буква вне диапазона должна возвращаться как есть, получено %q", got)
	}
}

func TestSanitize(t *testing.T) {
	if got := sanitize("A-123/../x"); got != "A-123____x" {
		t.Errorf("небезопасные символы должны заменяться, получено %q", got)
	}
}
