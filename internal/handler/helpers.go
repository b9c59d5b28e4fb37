package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/alceillini1999/Zaad.POS/internal/apierror"
	"github.com/alceillini1999/Zaad.POS/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
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
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps the service error taxonomy onto HTTP status codes.
// Unrecognized errors become opaque 500s — the middleware logs the detail.
func respondError(c *gin.Context, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, apierror.New(ve.Msg))
		return
	}
	var ce *service.ConflictError
	if errors.As(err, &ce) {
		c.JSON(http.StatusConflict, apierror.NewConflict(ce.Msg, ce.OpenID))
		return
	}
	var nf *service.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, apierror.New(nf.Msg))
		return
	}
	var ue *service.UnavailableError
	if errors.As(err, &ue) {
		// A timeout means "unknown", never "not found" — 503 tells the till
		// to retry instead of assuming the record is gone.
		c.JSON(http.StatusServiceUnavailable, apierror.New(ue.Msg))
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
}
