package rest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/studiokawa/proofroom"
	"github.com/studiokawa/proofroom/internal/domain"
	"github.com/studiokawa/proofroom/internal/present/rest/presenter"
	"github.com/studiokawa/proofroom/internal/service"
	"github.com/studiokawa/proofroom/internal/usecase"
)

type Handler struct {
	gallery *usecase.GalleryUsecase
	upload  *usecase.UploadEngine
	review  *usecase.ReviewEngine
	signal  *service.SignalService
}

func NewHandler(
	gallery *usecase.GalleryUsecase,
	upload *usecase.UploadEngine,
	review *usecase.ReviewEngine,
	signal *service.SignalService,
) *Handler {
	return &Handler{
		gallery: gallery,
		upload:  upload,
		review:  review,
		signal:  signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/galleries", h.handleCreateGallery)
	e.GET("/api/v1/galleries", h.handleListGalleries)
	e.GET("/api/v1/galleries/:id", h.handleGetGallery)
	e.POST("/api/v1/galleries/:id/access", h.handleVerifyAccess)
	e.POST("/api/v1/galleries/:id/archive", h.handleArchiveGallery)
	e.DELETE("/api/v1/galleries/:id", h.handleDeleteGallery)
	e.POST("/api/v1/galleries/:id/images", h.handleUploadImages)
	e.POST("/api/v1/galleries/:id/replacements", h.handleReplaceImages)
	e.POST("/api/v1/galleries/:id/proofs/:proofId/status", h.handleUpdateProofStatus)
	e.GET("/api/v1/proofs/:proofId/revisions", h.handleProofRevisions)
	e.GET("/api/v1/galleries/:id/activity", h.handleGalleryActivity)
	e.GET("/realtime", h.handleRealtime)
}

func requesterEmail(c echo.Context) string {
	ctx := c.Request().Context()
	if email, ok := ctx.Value(domain.RequesterEmailCtxKey).(string); ok {
		return email
	}
	if id, ok := ctx.Value(domain.RequesterIdCtxKey).(string); ok {
		return id
	}
	return ""
}

func organizationID(c echo.Context) string {
	if org, ok := c.Request().Context().Value(domain.OrganizationCtxKey).(string); ok {
		return org
	}
	return ""
}

type createGalleryRequest struct {
	Name       string     `json:"name"`
	SchoolID   string     `json:"schoolID"`
	SchoolName string     `json:"schoolName"`
	Password   *string    `json:"password,omitempty"`
	Deadline   *time.Time `json:"deadline,omitempty"`
}

func (h *Handler) handleCreateGallery(c echo.Context) error {
	ctx := c.Request().Context()

	var req createGalleryRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	org := organizationID(c)
	if org == "" {
		return presenter.BadRequestMessage(c, "organization is required")
	}

	gallery, err := h.gallery.Create(ctx, usecase.CreateGalleryInput{
		Name:           req.Name,
		SchoolID:       req.SchoolID,
		SchoolName:     req.SchoolName,
		OrganizationID: org,
		Password:       req.Password,
		Deadline:       req.Deadline,
	}, requesterEmail(c))
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	return presenter.Created(c, gallery)
}

func (h *Handler) handleListGalleries(c echo.Context) error {
	ctx := c.Request().Context()

	org := organizationID(c)
	if org == "" {
		return presenter.BadRequestMessage(c, "organization is required")
	}

	galleries, err := h.gallery.ListByOrganization(ctx, org)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, galleries)
}

func (h *Handler) handleGetGallery(c echo.Context) error {
	ctx := c.Request().Context()

	gallery, proofs, err := h.gallery.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "gallery not found")
		}
		return presenter.InternalError(c, err)
	}

	return presenter.OK(c, echo.Map{
		"gallery": gallery,
		"proofs":  proofs,
	})
}

func (h *Handler) handleVerifyAccess(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	err := h.gallery.VerifyAccess(ctx, c.Param("id"), req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "gallery not found")
		}
		if errors.Is(err, domain.ErrPasswordMismatch) {
			return presenter.Forbidden(c, "invalid password")
		}
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleArchiveGallery(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Archived bool `json:"archived"`
	}
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	err := h.gallery.Archive(ctx, c.Param("id"), req.Archived, requesterEmail(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "gallery not found")
		}
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleDeleteGallery(c echo.Context) error {
	ctx := c.Request().Context()

	err := h.gallery.Delete(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "gallery not found")
		}
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func readMultipartImages(c echo.Context, field string) ([]usecase.ImageFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	headers := form.File[field]
	if len(headers) == 0 {
		return nil, fmt.Errorf("no files in field %q", field)
	}

	files := make([]usecase.ImageFile, 0, len(headers))
	for _, header := range headers {
		src, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, usecase.ImageFile{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}

func (h *Handler) handleUploadImages(c echo.Context) error {
	ctx := c.Request().Context()

	files, err := readMultipartImages(c, "images")
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	result, err := h.upload.UploadGalleryImages(ctx, c.Param("id"), files, requesterEmail(c), nil)
	if err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			// client went away; nothing was committed
			return nil
		}
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "gallery not found")
		}
		return presenter.InternalError(c, err)
	}

	return presenter.OK(c, result)
}

func (h *Handler) handleReplaceImages(c echo.Context) error {
	ctx := c.Request().Context()
	galleryID := c.Param("id")

	form, err := c.MultipartForm()
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	files, err := readMultipartImages(c, "images")
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	proofIDs := form.Value["proofId"]
	if len(proofIDs) != len(files) {
		return presenter.BadRequestMessage(c, "proofId count must match file count")
	}
	studioNotes := form.Value["studioNotes"]

	items := make([]usecase.ReplacementItem, 0, len(files))
	for i, proofID := range proofIDs {
		proof, err := h.gallery.GetProof(ctx, proofID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return presenter.NotFound(c, "proof not found")
			}
			return presenter.InternalError(c, err)
		}
		if proof.GalleryID != galleryID {
			return presenter.BadRequestMessage(c, "proof does not belong to this gallery")
		}

		item := usecase.ReplacementItem{
			ProofID: proofID,
			Proof:   proof,
			File:    files[i],
		}
		if i < len(studioNotes) {
			item.StudioNotes = studioNotes[i]
		}
		items = append(items, item)
	}

	proofs, err := h.upload.ReplaceProofImages(ctx, galleryID, items, requesterEmail(c), nil)
	if err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			return nil
		}
		if errors.Is(err, domain.VersionConflictError{}) {
			return presenter.Conflict(c, err)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "gallery not found")
		}
		return presenter.InternalError(c, err)
	}

	return presenter.OK(c, echo.Map{"replaced": proofs})
}

type updateStatusRequest struct {
	Status proofroom.ProofStatus `json:"status"`
	Notes  *string               `json:"notes,omitempty"`
}

func (h *Handler) handleUpdateProofStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	outcome, err := h.review.UpdateProofStatus(
		ctx, c.Param("id"), c.Param("proofId"), req.Status, req.Notes, requesterEmail(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "proof not found")
		}
		if errors.Is(err, domain.ErrDenialNotesRequired) {
			return presenter.BadRequestMessage(c, "denial requires notes")
		}
		return presenter.InternalError(c, err)
	}

	return presenter.OK(c, echo.Map{
		"proof":   outcome.Proof,
		"gallery": outcome.Gallery,
		"changed": outcome.Changed,
	})
}

func (h *Handler) handleProofRevisions(c echo.Context) error {
	ctx := c.Request().Context()

	revisions, err := h.gallery.Revisions(ctx, c.Param("proofId"))
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, revisions)
}

func (h *Handler) handleGalleryActivity(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 50
	limitStr := c.QueryParam("limit")
	if limitStr != "" {
		limitInt, err := strconv.Atoi(limitStr)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid limit parameter")
		}
		limit = limitInt
	}
	if limit > 200 {
		limit = 200
	}

	activities, err := h.gallery.Activities(ctx, c.Param("id"), limit)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, activities)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Request struct {
	Type      string   `json:"type"`
	Galleries []string `json:"galleries"`
}

func (h *Handler) handleRealtime(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	ctx := c.Request().Context()

	input := make(chan []string)
	defer close(input)
	output := make(chan proofroom.Event)
	defer close(output)

	go h.signal.Realtime(ctx, input, output)

	quit := make(chan struct{})

	go func() {
		for {
			var req Request
			err := ws.ReadJSON(&req)
			if err != nil {

				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}

				quit <- struct{}{}
				break
			}

			switch req.Type {
			case "listen":
				input <- req.Galleries
				slog.DebugContext(
					ctx, fmt.Sprintf("Socket subscribe: %s", req.Galleries),
					slog.String("module", "socket"),
				)
			case "h": // heartbeat
				// do nothing
			default:
				slog.InfoContext(
					ctx, "Unknown request type",
					slog.String("type", req.Type),
					slog.String("module", "socket"),
				)
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event := <-output:
			err := ws.WriteJSON(event)
			if err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
