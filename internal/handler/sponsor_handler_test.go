package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarhub-org/scholarhub-api/internal/forms"
	"github.com/scholarhub-org/scholarhub-api/internal/models"
	"github.com/scholarhub-org/scholarhub-api/internal/service"
	appErrors "github.com/scholarhub-org/scholarhub-api/pkg/errors"
)

type sponsorServiceMock struct {
	listResp   []models.Sponsor
	getResp    *models.Sponsor
	getErr     error
	createResp *models.Sponsor
	createErr  error
	updateResp *models.Sponsor
	updateErr  error
	deleteErr  error

	lastForm forms.Values
}

func (m *sponsorServiceMock) List(ctx context.Context) ([]models.Sponsor, error) {
	return m.listResp, nil
}

func (m *sponsorServiceMock) Get(ctx context.Context, id string) (*models.Sponsor, error) {
	return m.getResp, m.getErr
}

func (m *sponsorServiceMock) Create(ctx context.Context, form forms.Values, upload *service.ImageUpload) (*models.Sponsor, error) {
	m.lastForm = form
	return m.createResp, m.createErr
}

func (m *sponsorServiceMock) Update(ctx context.Context, id string, form forms.Values, upload *service.ImageUpload) (*models.Sponsor, error) {
	m.lastForm = form
	return m.updateResp, m.updateErr
}

func (m *sponsorServiceMock) Delete(ctx context.Context, id string) error {
	return m.deleteErr
}

func TestSponsorHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &sponsorServiceMock{createResp: &models.Sponsor{ID: "sp-1", Sponsor: "Chevening"}}
	handler := NewSponsorHandler(mock)

	body, contentType := multipartBody(t, map[string][]string{
		"sponsor":  {"Chevening"},
		"programs": {"Masters, PhD"},
	}, "", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/sponsors", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	list, ok := mock.lastForm.List("programs")
	require.True(t, ok)
	assert.Equal(t, []string{"Masters", "PhD"}, list)
}

func TestSponsorHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &sponsorServiceMock{getErr: appErrors.ErrNotFound}
	handler := NewSponsorHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/sponsors/x", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "x"}}

	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSponsorHandlerUpdateUpstreamStorage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &sponsorServiceMock{updateErr: appErrors.ErrUpstreamStorage}
	handler := NewSponsorHandler(mock)

	body, contentType := multipartBody(t, map[string][]string{"sponsor": {"X"}}, "banner.png", []byte("img"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPatch, "/sponsors/sp-1", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "sp-1"}}

	handler.Update(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
