package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/IT-Nick/studybot/wizard"
)

// ReportData содержит данные для формирования отчёта по попытке.
type ReportData struct {
	StudentName   string
	StudentNumber string
	Config        wizard.Config
	Score         int
	Total         int
	Questions     []wizard.Question
	Answers       []wizard.Answer
}

// GeneratePDFReport генерирует PDF-отчёт по завершённой попытке и
// сохраняет его во временный файл. Возвращает путь к файлу; удаление
// после отправки — забота вызывающего.
func GeneratePDFReport(r ReportData) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Испанские тексты укладываются в латиницу core-шрифтов,
	// нужен только транслятор из UTF-8.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "", 14)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 10, tr("Reporte del quiz"), "", "L", false)
	pdf.Ln(4)

	pct := wizard.Percentage(r.Score, r.Total)
	pdf.SetFont("Helvetica", "", 12)
	info := fmt.Sprintf("Estudiante: %s\nNúmero: %s\nSemana: %d\nTema: %s\nDificultad: %s\nPuntuación: %d de %d (%d%%)\n",
		r.StudentName, r.StudentNumber, r.Config.Week, r.Config.Theme,
		wizard.DifficultyLabel(r.Config.Difficulty), r.Score, r.Total, pct)
	pdf.MultiCell(0, 8, tr(info), "", "L", false)
	pdf.Ln(4)

	// По каждому вопросу: текст, выбранный ответ и правильный ответ.
	for i, q := range r.Questions {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 7, tr(fmt.Sprintf("Pregunta %d: %s", i+1, q.Text)), "", "L", false)

		chosen, verdict := "-", "sin respuesta"
		if i < len(r.Answers) {
			a := r.Answers[i]
			chosen = formatOption(q, a.Chosen)
			if a.Correct {
				verdict = "correcto"
			} else {
				verdict = "incorrecto"
			}
		}

		pdf.SetFont("Helvetica", "", 11)
		lines := fmt.Sprintf("Tu respuesta: %s (%s)\nRespuesta correcta: %s",
			chosen, verdict, formatOption(q, q.Correct))
		pdf.MultiCell(0, 6, tr(lines), "", "L", false)
		pdf.Ln(2)
	}

	filename := filepath.Join(os.TempDir(), fmt.Sprintf("reporte_quiz_%s.pdf", sanitize(r.StudentNumber)))
	if err := pdf.OutputFileAndClose(filename); err != nil {
		return "", fmt.Errorf("report: не удалось записать PDF: %w", err)
	}
	return filename, nil
}

// formatOption возвращает "буква) текст варианта" для буквы ответа.
func formatOption(q wizard.Question, letter string) string {
	letter = strings.ToLower(strings.TrimSpace(letter))
	if len(letter) != 1 {
		return letter
	}
	idx := int(letter[0] - 'a')
	if idx < 0 || idx >= len(q.Options) {
		return letter
	}
	return fmt.Sprintf("%s) %s", letter, q.Options[idx])
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
