// Package validators holds the request checks shared by the per-area validator
// middlewares.
package validators

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"lingo/middleware"
	"lingo/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct checks the validate tags of v and returns one message per failing field,
// keyed by its json name. It returns an empty map when v is valid.
func Struct(v interface{}) map[string]string {
	errors := make(map[string]string)
	err := validate.Struct(v)
	if err == nil {
		return errors
	}
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["body"] = "Invalid request body!"
		return errors
	}
	top := reflect.Indirect(reflect.ValueOf(v)).Type().Name()
	for _, fe := range fieldErrors {
		errors[fieldKey(top, fe)] = message(fe)
	}
	return errors
}

var indexReplacer = strings.NewReplacer("[", ".", "]", "")

// fieldKey turns "Request.questions[0].text" into "questions.0.text".
func fieldKey(top string, fe validator.FieldError) string {
	ns := fe.Namespace()
	if top != "" {
		ns = strings.TrimPrefix(ns, top+".")
	}
	return indexReplacer.Replace(ns)
}

func message(fe validator.FieldError) string {
	name := label(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required!"
	case "email":
		return "Invalid email!"
	case "url":
		return name + " must be a valid URL!"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long!", name, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s items!", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s!", name, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long!", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s!", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s!", name, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s!", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s!", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s!", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "numeric":
		return name + " must contain digits only!"
	case "len":
		return fmt.Sprintf("%s must be %s characters long!", name, fe.Param())
	}
	return "Invalid " + name + "!"
}

// label turns a json field name into a sentence subject: "basePrice" -> "Base price".
func label(field string) string {
	if field == "" {
		return "Value"
	}
	var b strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		if i == 0 && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Body parses the request body into v and checks its tags. On failure it writes the
// response and returns ok false; the caller returns err.
func Body(c *fiber.Ctx, v interface{}) (ok bool, err error) {
	if err := c.BodyParser(v); err != nil {
		return false, middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request body!", nil)
	}
	if errors := Struct(v); len(errors) > 0 {
		return false, middleware.ValidationErrorResponse(c, errors)
	}
	return true, nil
}

// ParamID reads a positive numeric route parameter.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, services.BadRequest(fmt.Sprintf("Invalid %s!", name))
	}
	return uint(id), nil
}

// Pagination reads page and size from the query string and stores a services.Page
// under "page".
func Pagination() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page int `query:"page" json:"page" validate:"gte=0"`
			Size int `query:"size" json:"size" validate:"gte=0,lte=100"`
		})
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid query parameters!", nil)
		}
		if errors := Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}
		c.Locals("page", services.Page{Page: reqData.Page, Size: reqData.Size})
		return c.Next()
	}
}

// Page returns the page stored by Pagination.
func Page(c *fiber.Ctx) services.Page {
	p, _ := c.Locals("page").(services.Page)
	return p
}
