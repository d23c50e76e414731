package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholarhub-org/scholarhub-api/internal/forms"
	"github.com/scholarhub-org/scholarhub-api/internal/models"
	"github.com/scholarhub-org/scholarhub-api/internal/service"
	"github.com/scholarhub-org/scholarhub-api/pkg/response"
)

type sponsorService interface {
	List(ctx context.Context) ([]models.Sponsor, error)
	Get(ctx context.Context, id string) (*models.Sponsor, error)
	Create(ctx context.Context, form forms.Values, upload *service.ImageUpload) (*models.Sponsor, error)
	Update(ctx context.Context, id string, form forms.Values, upload *service.ImageUpload) (*models.Sponsor, error)
	Delete(ctx context.Context, id string) error
}

// SponsorHandler manages the scholarship collection endpoints.
type SponsorHandler struct {
	service sponsorService
}

// NewSponsorHandler constructs the handler.
func NewSponsorHandler(service sponsorService) *SponsorHandler {
	return &SponsorHandler{service: service}
}

// List godoc
// @Summary List scholarships
// @Tags Sponsors
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sponsors [get]
func (h *SponsorHandler) List(c *gin.Context) {
	sponsors, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sponsors, nil)
}

// Get godoc
// @Summary Get a scholarship
// @Tags Sponsors
// @Produce json
// @Param id path string true "Sponsor ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sponsors/{id} [get]
func (h *SponsorHandler) Get(c *gin.Context) {
	sponsor, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sponsor, nil)
}

// Create godoc
// @Summary Create a scholarship
// @Tags Sponsors
// @Accept multipart/form-data
// @Produce json
// @Param sponsor formData string true "Sponsor name"
// @Param link formData string false "Application link"
// @Param about formData string false "Rich-text description"
// @Param time_start formData string true "Opening date (YYYY-MM-DD or RFC3339)"
// @Param time_end formData string true "Closing date (YYYY-MM-DD or RFC3339)"
// @Param programs formData string true "Degree programs, repeated or comma separated"
// @Param majors_offered formData string true "Offered majors, repeated or comma separated"
// @Param status formData string false "true or false"
// @Param image formData file false "Banner image"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /sponsors [post]
func (h *SponsorHandler) Create(c *gin.Context) {
	values, upload, err := parseRecordForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	sponsor, err := h.service.Create(c.Request.Context(), values, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sponsor)
}

// Update godoc
// @Summary Update a scholarship
// @Description Partial update; only fields present in the form are changed. Send imageAction=remove to clear the image.
// @Tags Sponsors
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Sponsor ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /sponsors/{id} [patch]
func (h *SponsorHandler) Update(c *gin.Context) {
	values, upload, err := parseRecordForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	sponsor, err := h.service.Update(c.Request.Context(), c.Param("id"), values, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sponsor, nil)
}

// Delete godoc
// @Summary Delete a scholarship
// @Tags Sponsors
// @Produce json
// @Param id path string true "Sponsor ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /sponsors/{id} [delete]
func (h *SponsorHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
