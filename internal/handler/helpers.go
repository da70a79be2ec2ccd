package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/apierror"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/middleware"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/repository"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report fields by their JSON names so clients can map them back.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Amounts go out as JSON numbers, the way the POS clients expect them.
	decimal.MarshalJSONWithoutQuotes = true
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// classify maps a service error to its failure code and the message that is
// safe to show. Unknown errors are store failures and get a generic message.
func classify(err error) (code, msg string) {
	switch {
	case errors.Is(err, service.ErrInsufficientStock):
		return apierror.CodeInsufficientStock, err.Error()
	case errors.Is(err, service.ErrPriceMismatch):
		return apierror.CodePriceMismatch, err.Error()
	case errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrVariantNotFound),
		errors.Is(err, service.ErrSupplierNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrSaleNotFound),
		errors.Is(err, repository.ErrNotFound):
		return apierror.CodeNotFound, err.Error()
	case errors.Is(err, service.ErrInvalidMultiplier),
		errors.Is(err, service.ErrInvalidRecipe),
		errors.Is(err, service.ErrInvalidRequest):
		return apierror.CodeInvalidRequest, err.Error()
	default:
		return apierror.CodeStoreFailure, "internal store failure"
	}
}

// writeWorkflowError answers a failed stock workflow. Every failure keeps the
// 500 status POS clients already handle; the code tells them apart.
func writeWorkflowError(c *gin.Context, workflow string, err error) {
	code, msg := classify(err)
	log.Error().
		Err(err).
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("workflow", workflow).
		Str("code", code).
		Msg("workflow failed")
	c.JSON(http.StatusInternalServerError, apierror.WithCode(msg, code))
}

// writeError answers a failed catalog or read operation with a status that
// matches the failure class.
func writeError(c *gin.Context, err error) {
	code, msg := classify(err)
	status := http.StatusInternalServerError
	switch code {
	case apierror.CodeNotFound:
		status = http.StatusNotFound
	case apierror.CodeInvalidRequest:
		status = http.StatusBadRequest
	default:
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("request failed")
	}
	c.JSON(status, apierror.WithCode(msg, code))
}
