package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	infoSheet      = "Quiz"
	exercisesSheet = "Exercises"
)

var exerciseHeaders = []string{
	"Section #", "Section", "Type", "Prompt", "Choice A", "Choice B", "Choice C", "Choice D", "Answer", "Feedback",
}

// Column positions within exerciseHeaders
const (
	colSectionNo = iota
	colSection
	colType
	colPrompt
	colChoiceA
	colAnswer   = colChoiceA + models.MultipleChoiceSize
	colFeedback = colAnswer + 1
)

// ImportExportService moves quizzes in and out of Excel workbooks
type ImportExportService interface {
	ExportQuiz(ctx context.Context, id string) ([]byte, error)
	ImportQuiz(ctx context.Context, reader io.Reader) (*models.Quiz, error)
}

type importExportService struct {
	quizzes QuizService
	logger  *slog.Logger
}

func NewImportExportService(quizzes QuizService, logger *slog.Logger) ImportExportService {
	return &importExportService{
		quizzes: quizzes,
		logger:  logger,
	}
}

// ExportQuiz writes the quiz to an xlsx workbook. The "Quiz" sheet carries the
// quiz attributes, the "Exercises" sheet one row per exercise in order.
func (s *importExportService) ExportQuiz(ctx context.Context, id string) ([]byte, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := WriteQuizWorkbook(quiz)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Quiz exported", "quiz_id", id, "exercises", quiz.ExerciseCount(), "bytes", len(data))
	return data, nil
}

// ImportQuiz reads a workbook produced by ExportQuiz and creates a new quiz from it.
func (s *importExportService) ImportQuiz(ctx context.Context, reader io.Reader) (*models.Quiz, error) {
	def, err := ReadQuizWorkbook(reader)
	if err != nil {
		return nil, err
	}

	quiz, err := s.quizzes.CreateQuiz(ctx, def)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Quiz imported", "quiz_id", quiz.ID, "exercises", quiz.ExerciseCount())
	return quiz, nil
}

func WriteQuizWorkbook(quiz *models.Quiz) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", infoSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	info := [][]interface{}{
		{"ID", quiz.ID},
		{"Name", quiz.Name},
		{"Language", quiz.LanguageTag},
		{"Created At", quiz.CreatedAt.Format(time.RFC3339)},
	}
	for i, row := range info {
		if err := f.SetSheetRow(infoSheet, cellName(1, i+1), &row); err != nil {
			return nil, fmt.Errorf("failed to write quiz info: %w", err)
		}
	}

	index, err := f.NewSheet(exercisesSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range exerciseHeaders {
		f.SetCellValue(exercisesSheet, cellName(i+1, 1), header)
	}

	row := 2
	for i, section := range quiz.Sections {
		for _, exercise := range section.Exercises {
			values, err := exerciseRow(i+1, section.Name, exercise)
			if err != nil {
				return nil, err
			}
			for col, value := range values {
				f.SetCellValue(exercisesSheet, cellName(col+1, row), value)
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buf.Bytes(), nil
}

func ReadQuizWorkbook(reader io.Reader) (*models.QuizDefinition, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, NewValidationError("file", "not a valid Excel workbook", nil)
	}
	defer f.Close()

	infoRows, err := f.GetRows(infoSheet)
	if err != nil {
		return nil, NewValidationError("file", fmt.Sprintf("missing sheet '%s'", infoSheet), nil)
	}

	def := &models.QuizDefinition{}
	for _, row := range infoRows {
		switch cell(row, 0) {
		case "Name":
			def.Name = cell(row, 1)
		case "Language":
			def.LanguageTag = cell(row, 1)
		}
	}

	rows, err := f.GetRows(exercisesSheet)
	if err != nil {
		return nil, NewValidationError("file", fmt.Sprintf("missing sheet '%s'", exercisesSheet), nil)
	}
	if len(rows) < 2 {
		return nil, NewValidationError("file", "Excel must have header row and at least one exercise row", len(rows))
	}

	// Rows belong to the same section while their section number repeats;
	// section names need not be unique.
	prevSection := 0
	for i, row := range rows[1:] {
		sectionNo, err := strconv.Atoi(cell(row, colSectionNo))
		if err != nil || sectionNo < 1 {
			return nil, NewValidationError(
				fmt.Sprintf("%s!%s", exercisesSheet, cellName(colSectionNo+1, i+2)),
				"must be a positive section number", cell(row, colSectionNo))
		}
		if len(def.Sections) == 0 || sectionNo != prevSection {
			def.Sections = append(def.Sections, models.SectionDefinition{Name: cell(row, colSection)})
			prevSection = sectionNo
		}
		section := &def.Sections[len(def.Sections)-1]
		section.Exercises = append(section.Exercises, parseExerciseRow(row))
	}

	return def, nil
}

func exerciseRow(sectionNo int, sectionName string, exercise models.Exercise) ([]interface{}, error) {
	values := make([]interface{}, len(exerciseHeaders))
	for i := range values {
		values[i] = ""
	}
	values[colSectionNo] = sectionNo
	values[colSection] = sectionName
	values[colType] = string(exercise.Type())

	answer, err := models.ExpectedAnswer(exercise)
	if err != nil {
		return nil, err
	}
	values[colAnswer] = answer

	if feedback := exercise.Base().Feedback; feedback != nil {
		values[colFeedback] = *feedback
	}

	switch ex := exercise.(type) {
	case *models.MultipleChoiceExercise:
		values[colPrompt] = ex.Question
		for i := 0; i < len(ex.Choices) && i < models.MultipleChoiceSize; i++ {
			values[colChoiceA+i] = ex.Choices[i]
		}
	case *models.FillInTheBlankExercise:
		values[colPrompt] = ex.Question
	case *models.SentenceCorrectionExercise:
		values[colPrompt] = ex.Sentence
	}

	return values, nil
}

// parseExerciseRow leaves semantic checks to the quiz validator.
func parseExerciseRow(row []string) models.ExerciseData {
	data := models.ExerciseData{
		Type: models.ExerciseType(cell(row, colType)),
	}

	if feedback := cell(row, colFeedback); feedback != "" {
		data.Feedback = &feedback
	}

	switch data.Type {
	case models.TypeSentenceCorrection:
		data.Sentence = cell(row, colPrompt)
		data.CorrectedSentence = cell(row, colAnswer)
	case models.TypeMultipleChoice:
		data.Question = cell(row, colPrompt)
		data.Answer = cell(row, colAnswer)
		choices := make([]string, models.MultipleChoiceSize)
		for i := range choices {
			choices[i] = cell(row, colChoiceA+i)
		}
		for len(choices) > 0 && choices[len(choices)-1] == "" {
			choices = choices[:len(choices)-1]
		}
		if len(choices) > 0 {
			data.Choices = choices
		}
	default:
		data.Question = cell(row, colPrompt)
		data.Answer = cell(row, colAnswer)
	}

	return data
}

// cell tolerates the short rows excelize returns when trailing cells are empty
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
