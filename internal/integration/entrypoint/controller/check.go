package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	checkuc "github.com/checks-dashboard/backend/internal/application/usecase/check"
	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
	"github.com/checks-dashboard/backend/internal/integration/entrypoint/dto"
	"github.com/checks-dashboard/backend/internal/integration/entrypoint/middleware"
)

// CheckController handles check and removed-check endpoints.
type CheckController struct {
	listUseCase    *checkuc.ListChecksUseCase
	createUseCase  *checkuc.CreateCheckUseCase
	updateUseCase  *checkuc.UpdateCheckUseCase
	deleteUseCase  *checkuc.DeleteCheckUseCase
	restoreUseCase *checkuc.RestoreCheckUseCase
}

// NewCheckController creates a new check controller instance.
func NewCheckController(
	listUseCase *checkuc.ListChecksUseCase,
	createUseCase *checkuc.CreateCheckUseCase,
	updateUseCase *checkuc.UpdateCheckUseCase,
	deleteUseCase *checkuc.DeleteCheckUseCase,
	restoreUseCase *checkuc.RestoreCheckUseCase,
) *CheckController {
	return &CheckController{
		listUseCase:    listUseCase,
		createUseCase:  createUseCase,
		updateUseCase:  updateUseCase,
		deleteUseCase:  deleteUseCase,
		restoreUseCase: restoreUseCase,
	}
}

// List handles GET /checks requests.
func (c *CheckController) List(ctx *gin.Context) {
	ownerID, ok := middleware.GetOwnerIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), checkuc.ListChecksInput{
		OwnerID: ownerID,
		Filter:  ctx.Query("filter"),
		Query:   ctx.Query("q"),
	})
	if err != nil {
		handleCheckError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCheckListResponse(output))
}

// ListRemoved handles GET /removed-checks requests.
func (c *CheckController) ListRemoved(ctx *gin.Context) {
	ownerID, ok := middleware.GetOwnerIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), checkuc.ListChecksInput{
		OwnerID: ownerID,
		Filter:  "removed",
		Query:   ctx.Query("q"),
	})
	if err != nil {
		handleCheckError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCheckListResponse(output))
}

// Create handles POST /checks requests.
func (c *CheckController) Create(ctx *gin.Context) {
	ownerID, ok := middleware.GetOwnerIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}
	email, _ := middleware.GetOwnerEmailFromContext(ctx)

	var req dto.CreateCheckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeCheckValidation),
			Details: err.Error(),
		})
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), checkuc.CreateCheckInput{
		OwnerID:    ownerID,
		OwnerEmail: email,
		Form:       req.ToForm(),
	})
	if err != nil {
		handleCheckError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToCheckResponse(output.Check))
}

// Update handles PATCH /checks/:id requests.
func (c *CheckController) Update(ctx *gin.Context) {
	ownerID, ok := middleware.GetOwnerIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}
	email, _ := middleware.GetOwnerEmailFromContext(ctx)

	var req dto.UpdateCheckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Code:    string(domainerror.ErrCodeCheckValidation),
			Details: err.Error(),
		})
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), checkuc.UpdateCheckInput{
		CheckID:    ctx.Param("id"),
		OwnerID:    ownerID,
		OwnerEmail: email,
		Title:      req.Title,
		Amount:     req.AmountPtr(),
		Currency:   req.Currency,
		DueDate:    req.DueDate,
		Priority:   req.Priority,
		Payee:      req.Payee,
		Paid:       req.Paid,
	})
	if err != nil {
		handleCheckError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCheckResponse(output.Check))
}

// Delete handles DELETE /checks/:id requests.
func (c *CheckController) Delete(ctx *gin.Context) {
	ownerID, ok := middleware.GetOwnerIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	err := c.deleteUseCase.Execute(ctx.Request.Context(), checkuc.DeleteCheckInput{
		CheckID: ctx.Param("id"),
		OwnerID: ownerID,
	})
	if err != nil {
		handleCheckError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Restore handles POST /removed-checks/:id/restore requests.
func (c *CheckController) Restore(ctx *gin.Context) {
	ownerID, ok := middleware.GetOwnerIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}
	email, _ := middleware.GetOwnerEmailFromContext(ctx)

	output, err := c.restoreUseCase.Execute(ctx.Request.Context(), checkuc.RestoreCheckInput{
		RemovedID:  ctx.Param("id"),
		OwnerID:    ownerID,
		OwnerEmail: email,
	})
	if err != nil {
		handleCheckError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCheckResponse(output.Check))
}
