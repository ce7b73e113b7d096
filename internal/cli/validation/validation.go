// Package validation проверяет входные DTO до отправки запроса на сервер.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"FinSoft/internal/model"
)

// ValidationError carries per-field messages keyed by the JSON field name.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError builds an error for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "ошибка валидации: " + strings.Join(parts, "; ")
}

// Field returns the first message for field, or "".
func (e *ValidationError) Field(field string) string {
	if msgs := e.Fields[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

var (
	once     sync.Once
	validate *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		// имена полей в ошибках берём из json-тегов
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
			return model.Currency(fl.Field().String()).Valid()
		})
		validate = v
	})
	return validate
}

// Struct validates v against its `validate` tags. Non-struct payloads (maps used
// for partial updates) and nil pass through unchecked.
func Struct(v any) error {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	err := engine().Struct(rv.Interface())
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate %T: %w", v, err)
	}
	out := &ValidationError{}
	for _, fe := range fieldErrs {
		out.add(fe.Field(), message(fe))
	}
	return out
}

var requiredMessages = map[string]string{
	"email":        "Email обязателен",
	"password":     "Пароль обязателен",
	"date":         "Дата обязательна",
	"client":       "Клиент обязателен",
	"product":      "Товар обязателен",
	"currency":     "Валюта обязательна",
	"method":       "Метод оплаты обязателен",
	"name":         "Название обязательно",
	"unit":         "Единица измерения обязательна",
	"location":     "Расположение обязательно",
	"category":     "Категория обязательна",
	"description":  "Описание обязательно",
	"productName":  "Название продукта обязательно",
	"type":         "Тип обязателен",
	"status":       "Статус обязателен",
	"workshopType": "Тип цеха обязателен",
}

var positiveMessages = map[string]string{
	"quantity": "Количество должно быть положительным",
	"weight":   "Вес должен быть положительным",
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		if msg, ok := requiredMessages[field]; ok {
			return msg
		}
		return "Поле обязательно"
	case "gt":
		if msg, ok := positiveMessages[field]; ok {
			return msg
		}
		return "Сумма должна быть положительной"
	case "gte":
		return "Значение не может быть отрицательным"
	case "oneof":
		switch field {
		case "status":
			return "Неверный статус"
		case "workshopType":
			return "Тип цеха должен быть capsule или cup"
		}
		return "Допустимые значения: " + strings.ReplaceAll(fe.Param(), "'", "")
	case "datetime":
		return "Дата должна быть в формате ГГГГ-ММ-ДД"
	case "currency":
		return "Неизвестная валюта"
	default:
		return "Неверное значение"
	}
}
