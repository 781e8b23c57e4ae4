package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"inno-quiz-service/internal/domain"
)

const tagAnswerInOptions = "answer_in_options"

var registerOnce sync.Once

// registerValidators installs JSON field naming and the question answer-key rule
// on gin's shared validator.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterStructValidation(validateQuestionDraft, domain.QuestionDraft{})
	})
}

func validateQuestionDraft(sl validator.StructLevel) {
	draft := sl.Current().Interface().(domain.QuestionDraft)
	if draft.CorrectAnswer == "" || len(draft.Options) == 0 {
		return
	}
	for _, opt := range draft.Options {
		if opt == draft.CorrectAnswer {
			return
		}
	}
	sl.ReportError(draft.CorrectAnswer, "correct_answer", "CorrectAnswer", tagAnswerInOptions, "")
}

// bindingError turns a gin binding failure into a BadRequest domain error.
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.KindError(domain.ErrBadRequest, "Invalid request body: "+err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == tagAnswerInOptions {
			return domain.ErrCorrectAnswerNotInOptions
		}
		msgs = append(msgs, fieldMessage(fe))
	}
	return domain.KindError(domain.ErrBadRequest, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
