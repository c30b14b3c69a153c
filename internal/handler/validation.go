package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"nps-explorer/pkg/model"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding rules to gin's validator and
// reports fields by their query or path parameter name.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(paramName)
		_ = v.RegisterValidation("region", func(fl validator.FieldLevel) bool {
			return model.IsValidRegion(fl.Field().String())
		})
	})
}

func paramName(fld reflect.StructField) string {
	for _, tag := range []string{"form", "uri"} {
		if name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]; name != "" && name != "-" {
			return name
		}
	}
	return fld.Name
}

// paramError lists query parameters whose raw value does not parse as the
// field's type. gin would otherwise bind an empty value as the zero value.
type paramError struct {
	details []string
}

func (e *paramError) Error() string {
	return "invalid query parameters: " + strings.Join(e.details, "; ")
}

// bindQuery checks the raw query values against obj's integer and boolean
// fields before handing the request to gin's binder.
func bindQuery(c *gin.Context, obj any) error {
	if err := checkQueryTypes(c, obj); err != nil {
		return err
	}
	return c.ShouldBindQuery(obj)
}

func checkQueryTypes(c *gin.Context, obj any) error {
	query := c.Request.URL.Query()
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	var details []string
	for i := 0; i < t.NumField(); i++ {
		fld := t.Field(i)
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		values, ok := query[name]
		if name == "" || name == "-" || !ok {
			continue
		}

		kind := fld.Type.Kind()
		if kind == reflect.Pointer {
			kind = fld.Type.Elem().Kind()
		}
		switch v := values[0]; kind {
		case reflect.Int, reflect.Int32, reflect.Int64:
			if _, err := strconv.Atoi(v); err != nil {
				details = append(details, name+" must be an integer")
			}
		case reflect.Bool:
			if _, err := strconv.ParseBool(v); err != nil {
				details = append(details, name+" must be a boolean")
			}
		}
	}
	if len(details) > 0 {
		return &paramError{details: details}
	}
	return nil
}

// bindingDetails turns a binding error into one message per bad parameter
func bindingDetails(err error) []string {
	var perr *paramError
	if errors.As(err, &perr) {
		return perr.details
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fieldMessage(fe))
	}
	return details
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "region":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), strings.Join(model.Regions, ", "))
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "alphanum":
		return fmt.Sprintf("%s must be alphanumeric", fe.Field())
	default:
		return fmt.Sprintf("%s failed the %s rule", fe.Field(), fe.Tag())
	}
}
