package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"l2lsales/internal/apierror"
	"l2lsales/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// gt=0 and required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report fields by their wire name.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(key), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
}

// bindAndValidate binds the JSON body and runs validator tags.
// Returns false after writing the error response; the caller returns immediately.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, apierror.New(apierror.KindBadRequest, "invalid JSON: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, apierror.New(apierror.KindBadRequest, "invalid query: "+err.Error()))
		return false
	}
	return validateStruct(c, filter)
}

func validateStruct(c *gin.Context, v interface{}) bool {
	err := validate.Struct(v)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		_ = c.Error(err)
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
	return false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a valid uuid"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

// pathID parses a uuid path parameter, writing a 400 when it is malformed.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, apierror.New(apierror.KindBadRequest, "invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// fail hands err to the ErrorHandler middleware.
func fail(c *gin.Context, err error) { _ = c.Error(err) }

func ok(c *gin.Context, status int, data any) { c.JSON(status, dto.OK(data)) }
