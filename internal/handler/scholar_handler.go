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

type scholarService interface {
	List(ctx context.Context) ([]models.Scholar, error)
	Get(ctx context.Context, id string) (*models.Scholar, error)
	Create(ctx context.Context, form forms.Values, upload *service.ImageUpload) (*models.Scholar, error)
	Update(ctx context.Context, id string, form forms.Values, upload *service.ImageUpload) (*models.Scholar, error)
	Delete(ctx context.Context, id string) error
}

// ScholarHandler manages the scholar collection endpoints.
type ScholarHandler struct {
	service scholarService
}

// NewScholarHandler constructs the handler.
func NewScholarHandler(service scholarService) *ScholarHandler {
	return &ScholarHandler{service: service}
}

// List godoc
// @Summary List scholars
// @Tags Scholars
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /scholars [get]
func (h *ScholarHandler) List(c *gin.Context) {
	scholars, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scholars, nil)
}

// Get godoc
// @Summary Get a scholar
// @Tags Scholars
// @Produce json
// @Param id path string true "Scholar ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scholars/{id} [get]
func (h *ScholarHandler) Get(c *gin.Context) {
	scholar, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scholar, nil)
}

// Create godoc
// @Summary Create a scholar
// @Tags Scholars
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name"
// @Param email formData string true "Email"
// @Param ig_acc formData string false "Instagram account"
// @Param about formData string true "Rich-text bio"
// @Param sponsor formData string true "Sponsoring scholarship"
// @Param major formData string true "Majors, repeated or comma separated"
// @Param institution formData string true "Institutions, repeated or comma separated"
// @Param availability formData string false "true or false"
// @Param image formData file false "Profile image"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /scholars [post]
func (h *ScholarHandler) Create(c *gin.Context) {
	values, upload, err := parseRecordForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	scholar, err := h.service.Create(c.Request.Context(), values, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, scholar)
}

// Update godoc
// @Summary Update a scholar
// @Description Partial update; only fields present in the form are changed. Send imageAction=remove to clear the image.
// @Tags Scholars
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Scholar ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /scholars/{id} [patch]
func (h *ScholarHandler) Update(c *gin.Context) {
	values, upload, err := parseRecordForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	scholar, err := h.service.Update(c.Request.Context(), c.Param("id"), values, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scholar, nil)
}

// Delete godoc
// @Summary Delete a scholar
// @Tags Scholars
// @Produce json
// @Param id path string true "Scholar ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /scholars/{id} [delete]
func (h *ScholarHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
