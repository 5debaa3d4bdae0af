package controller

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	checkuc "github.com/checks-dashboard/backend/internal/application/usecase/check"
	"github.com/checks-dashboard/backend/internal/integration/entrypoint/dto"
	"github.com/checks-dashboard/backend/internal/integration/entrypoint/middleware"
)

// streamKeepAlive is how often an idle stream sends a comment to keep proxies from closing it.
const streamKeepAlive = 25 * time.Second

// DashboardController handles dashboard endpoints.
type DashboardController struct {
	getUseCase   *checkuc.GetDashboardUseCase
	watchUseCase *checkuc.WatchDashboardUseCase
}

// NewDashboardController creates a new dashboard controller instance.
func NewDashboardController(
	getUseCase *checkuc.GetDashboardUseCase,
	watchUseCase *checkuc.WatchDashboardUseCase,
) *DashboardController {
	return &DashboardController{
		getUseCase:   getUseCase,
		watchUseCase: watchUseCase,
	}
}

// Get handles GET /dashboard requests.
func (c *DashboardController) Get(ctx *gin.Context) {
	ownerID, ok := middleware.GetOwnerIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), checkuc.GetDashboardInput{OwnerID: ownerID})
	if err != nil {
		handleCheckError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDashboardResponse(output))
}

// Stream handles GET /dashboard/stream requests with Server-Sent Events.
// Each store snapshot is sent as one "snapshot" event; a failed subscription
// sends an "error" event and closes the stream.
func (c *DashboardController) Stream(ctx *gin.Context) {
	ownerID, ok := middleware.GetOwnerIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	snapshots := make(chan *checkuc.DashboardSnapshot, 1)
	failures := make(chan error, 1)

	output, err := c.watchUseCase.Execute(ctx.Request.Context(), checkuc.WatchDashboardInput{
		OwnerID: ownerID,
		Filter:  ctx.Query("filter"),
		Query:   ctx.Query("q"),
		OnUpdate: func(snapshot *checkuc.DashboardSnapshot) {
			// Keep only the latest snapshot when the client falls behind.
			select {
			case <-snapshots:
			default:
			}
			snapshots <- snapshot
		},
		OnError: func(err error) {
			select {
			case failures <- err:
			default:
			}
		},
	})
	if err != nil {
		handleCheckError(ctx, err)
		return
	}
	defer output.Unsubscribe()

	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Header("X-Accel-Buffering", "no")

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	ctx.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Request.Context().Done():
			return false
		case snapshot := <-snapshots:
			ctx.SSEvent("snapshot", dto.ToSnapshotResponse(snapshot))
			return true
		case err := <-failures:
			slog.Warn("Dashboard stream closed after subscription error",
				"owner_id", ownerID,
				"error", err,
			)
			ctx.SSEvent("error", dto.ErrorResponse{Error: "Dashboard updates are unavailable"})
			return false
		case <-keepAlive.C:
			_, _ = io.WriteString(w, ": keep-alive\n\n")
			return true
		}
	})
}
