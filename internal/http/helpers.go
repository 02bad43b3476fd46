package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/MuhammadMouostafa/library-management-system/internal/apperr"
	"github.com/MuhammadMouostafa/library-management-system/internal/services"
)

// --- Response Types ---

// ErrorResponse is the error body of every failed API call.
type ErrorResponse struct {
	Errors []apperr.FieldError `json:"errors"`
}

// MessageResponse acknowledges operations that return no entity.
type MessageResponse struct {
	Message string `json:"message"`
}

const internalErrorMessage = "Something went wrong"

func internalErrorResponse() ErrorResponse {
	return ErrorResponse{Errors: []apperr.FieldError{{
		Field:   "server",
		Message: internalErrorMessage,
		Code:    apperr.CodeInternal,
	}}}
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindReferentialIntegrity:
		return http.StatusBadRequest
	case apperr.KindBusinessRule:
		return http.StatusBadRequest
	case apperr.KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// --- Error Response Helpers ---

// respondError writes err in the error envelope. Errors that are not
// *apperr.Error, and INTERNAL ones, are logged and answered with a generic
// message.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		appErr = apperr.Internal(internalErrorMessage, err)
	}

	status := statusFor(appErr.Kind)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed",
			zap.String("request_id", requestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.AbortWithStatusJSON(status, internalErrorResponse())
		return
	}

	fields := appErr.Fields
	if len(fields) == 0 {
		fields = []apperr.FieldError{{Field: "request", Message: appErr.Kind.String(), Code: apperr.Code(appErr.Kind.String())}}
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Errors: fields})
}

func routeNotFound() error {
	return &apperr.Error{Kind: apperr.KindNotFound, Fields: []apperr.FieldError{{
		Field:   "route",
		Message: "Route not found",
		Code:    apperr.CodeNotFound,
	}}}
}

// --- Success Response Helpers ---

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// pageBody renders a page in the list envelope, e.g. for "books":
// totalBooks, limitPerPage, totalPages, pageNumber, booksInPageCount, books.
func pageBody[T any](name string, p services.Page[T]) gin.H {
	title := strings.ToUpper(name[:1]) + name[1:]
	body := gin.H{
		"limitPerPage": p.Limit,
		"totalPages":   p.TotalPages(),
		"pageNumber":   p.Page,
	}
	body["total"+title] = p.Total
	body[name+"InPageCount"] = len(p.Items)
	body[name] = p.Items
	return body
}

// --- Request Parsing ---

func init() {
	binding.EnableDecoderUseNumber = true
	binding.EnableDecoderDisallowUnknownFields = true
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := services.ConfigureValidator(v); err != nil {
			panic(err)
		}
	}
}

func invalidBody(message string) error {
	return apperr.Validation(apperr.FieldError{Field: "body", Message: message, Code: apperr.CodeInvalidFormat})
}

// bindJSON binds and validates the request body into dst. Unknown fields,
// values of the wrong type, trailing data after the JSON value and failed
// field rules are validation errors. An empty body binds as an empty object
// so that the required-field rules report what is missing.
func bindJSON(c *gin.Context, dst any) error {
	body, err := c.GetRawData()
	if err != nil {
		return invalidBody("Request body could not be read")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	if !json.Valid(body) {
		return invalidBody("Request body must be valid JSON")
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	err = c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}

	var failures validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &failures):
		return services.ValidationError(failures)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		if unquoted, uerr := strconv.Unquote(field); uerr == nil {
			field = unquoted
		}
		return apperr.Validation(apperr.FieldError{
			Field:   field,
			Message: "Invalid field: " + field,
			Code:    apperr.CodeInvalidField,
		})
	case errors.As(err, &typeErr) && typeErr.Field == "":
		return invalidBody("Request body must be a JSON object")
	case errors.As(err, &typeErr):
		return apperr.Validation(apperr.FieldError{
			Field:   typeErr.Field,
			Message: "Invalid value for field: " + typeErr.Field,
			Code:    apperr.CodeInvalidFormat,
		})
	}
	return invalidBody(err.Error())
}

// parseIDParam extracts a positive integer ID from URL parameters.
func parseIDParam(c *gin.Context, paramName string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.Validation(apperr.FieldError{
			Field:   paramName,
			Message: "ID must be a positive integer",
			Code:    apperr.CodeInvalidFormat,
		})
	}
	return uint(id), nil
}

// Pagination bounds applied to list endpoints.
type Pagination struct {
	DefaultLimit int
	MaxLimit     int
}

func (p Pagination) parse(c *gin.Context) (services.PageRequest, error) {
	return services.ParsePageRequest(c.Query("page"), c.Query("limit"), p.DefaultLimit, p.MaxLimit)
}
