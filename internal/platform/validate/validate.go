// Package validate wraps go-playground/validator with French field messages
// keyed by JSON field name, and decodes request bodies into typed structs.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Maramoubouare/FOLLOWUP/pkg/civil"
)

// FieldError is one entry of the "errors" array of a 400 response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is returned by Struct and Decode when the input is rejected.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		if fe.Field == "" {
			parts = append(parts, fe.Message)
			continue
		}
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation: " + strings.Join(parts, "; ")
}

// NoFields is the rejection of an update that carries no recognised field.
func NoFields() Errors {
	return Errors{{Message: "Au moins un champ valide doit être fourni"}}
}

var (
	heurePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d:[0-5]\d$`)
	dureePattern = regexp.MustCompile(`^\d{2}:[0-5]\d$`)
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("notfuture", notFuture)
	_ = v.RegisterValidation("heure", matches(heurePattern))
	_ = v.RegisterValidation("duree", matches(dureePattern))
	return &Validator{v: v}
}

// RegisterStructValidation adds a cross-field rule for the given types.
func (v *Validator) RegisterStructValidation(fn validator.StructLevelFunc, types ...interface{}) {
	v.v.RegisterStructValidation(fn, types...)
}

// Struct validates s and returns Errors when a rule fails.
func (v *Validator) Struct(s interface{}) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

// Bind decodes the JSON request body into dst and validates it.
func (v *Validator) Bind(c echo.Context, dst interface{}) error {
	if err := Decode(c.Request().Body, dst); err != nil {
		return err
	}
	return v.Struct(dst)
}

// Decode reads one JSON document into dst. An empty body leaves dst untouched
// so that required-field rules report the missing fields.
func Decode(r io.Reader, dst interface{}) error {
	if r == nil {
		return nil
	}
	err := json.NewDecoder(r).Decode(dst)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return Errors{{Field: typeErr.Field, Message: typeMessage(typeErr)}}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return Errors{{Message: "Corps de requête JSON invalide"}}
	}
	var parseErr *time.ParseError
	if errors.As(err, &parseErr) {
		return Errors{{Message: fmt.Sprintf("Date-heure %q invalide : format AAAA-MM-JJTHH:MM:SSZ attendu", parseErr.Value)}}
	}
	return err
}

func notFuture(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case civil.Date:
		return v.IsZero() || !v.After(civil.Today())
	case time.Time:
		return !v.After(time.Now())
	}
	return false
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		return re.MatchString(fl.Field().String())
	}
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Le champ %s est obligatoire", field)
	case "oneof":
		return fmt.Sprintf("Le champ %s doit être l'une des valeurs suivantes : %s",
			field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "min":
		if isString {
			return fmt.Sprintf("Le champ %s doit contenir au moins %s caractères", field, fe.Param())
		}
		return fmt.Sprintf("Le champ %s doit être supérieur ou égal à %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("Le champ %s ne peut pas dépasser %s caractères", field, fe.Param())
		}
		return fmt.Sprintf("Le champ %s doit être inférieur ou égal à %s", field, fe.Param())
	case "gt":
		if fe.Param() == "0" {
			return fmt.Sprintf("Le champ %s doit être un entier positif", field)
		}
		return fmt.Sprintf("Le champ %s doit être supérieur à %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("Le champ %s doit être une adresse e-mail valide", field)
	case "notfuture":
		return fmt.Sprintf("Le champ %s ne peut pas être dans le futur", field)
	case "heure":
		return fmt.Sprintf("Le champ %s doit être au format HH:MM:SS", field)
	case "duree":
		return fmt.Sprintf("Le champ %s doit être au format HH:MM", field)
	case "gtefield", "gtfield":
		return fmt.Sprintf("Le champ %s doit être postérieur à %s", field, fe.Param())
	}
	return fmt.Sprintf("Le champ %s est invalide", field)
}

func typeMessage(e *json.UnmarshalTypeError) string {
	field := e.Field
	if field == "" {
		return "Corps de requête JSON invalide"
	}
	if e.Type == reflect.TypeOf(civil.Date{}) {
		return fmt.Sprintf("Le champ %s doit être une date au format AAAA-MM-JJ", field)
	}
	t := e.Type
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("Le champ %s doit être un nombre entier", field)
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("Le champ %s doit être un nombre", field)
	case reflect.String:
		return fmt.Sprintf("Le champ %s doit être une chaîne de caractères", field)
	case reflect.Bool:
		return fmt.Sprintf("Le champ %s doit être un booléen", field)
	}
	return fmt.Sprintf("Le champ %s a un type invalide", field)
}
