// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
	"github.com/checks-dashboard/backend/internal/integration/entrypoint/dto"
)

// handleCheckError maps check errors to HTTP responses.
func handleCheckError(ctx *gin.Context, err error) {
	var validationErr *domainerror.ValidationError
	if errors.As(err, &validationErr) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:  "Please fix the errors",
			Code:   string(domainerror.ErrCodeCheckValidation),
			Fields: validationErr.Fields,
		})
		return
	}

	var checkErr *domainerror.CheckError
	if errors.As(err, &checkErr) {
		statusCode := getStatusCodeForCheckError(checkErr.Code)
		if statusCode == http.StatusInternalServerError {
			slog.Error("Check operation failed", "code", checkErr.Code, "error", err)
			ctx.JSON(statusCode, dto.ErrorResponse{
				Error: "An internal error occurred",
				Code:  string(checkErr.Code),
			})
			return
		}
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: checkErr.Message,
			Code:  string(checkErr.Code),
		})
		return
	}

	slog.Error("Unhandled check error", "error", err)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForCheckError maps check error codes to HTTP status codes.
func getStatusCodeForCheckError(code domainerror.CheckErrorCode) int {
	switch code {
	case domainerror.ErrCodeCheckNotFound,
		domainerror.ErrCodeRemovedCheckNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotAuthorizedCheck:
		return http.StatusForbidden
	case domainerror.ErrCodeCheckPaidNotDeletable,
		domainerror.ErrCodeCheckPaidNotEditable,
		domainerror.ErrCodeCheckAlreadyExists:
		return http.StatusConflict
	case domainerror.ErrCodeCheckValidation,
		domainerror.ErrCodeInvalidFilter,
		domainerror.ErrCodeEmptyCheckUpdate:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondUnauthenticated(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: "User not authenticated",
		Code:  string(domainerror.ErrCodeMissingToken),
	})
}
