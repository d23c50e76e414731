package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
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
	"github.com/scholarhub-org/scholarhub-api/pkg/response"
)

type scholarServiceMock struct {
	listResp   []models.Scholar
	listErr    error
	getResp    *models.Scholar
	getErr     error
	createResp *models.Scholar
	createErr  error
	updateResp *models.Scholar
	updateErr  error
	deleteErr  error

	lastForm   forms.Values
	lastUpload *service.ImageUpload
}

func (m *scholarServiceMock) List(ctx context.Context) ([]models.Scholar, error) {
	return m.listResp, m.listErr
}

func (m *scholarServiceMock) Get(ctx context.Context, id string) (*models.Scholar, error) {
	return m.getResp, m.getErr
}

func (m *scholarServiceMock) Create(ctx context.Context, form forms.Values, upload *service.ImageUpload) (*models.Scholar, error) {
	m.lastForm = form
	m.lastUpload = upload
	return m.createResp, m.createErr
}

func (m *scholarServiceMock) Update(ctx context.Context, id string, form forms.Values, upload *service.ImageUpload) (*models.Scholar, error) {
	m.lastForm = form
	m.lastUpload = upload
	return m.updateResp, m.updateErr
}

func (m *scholarServiceMock) Delete(ctx context.Context, id string) error {
	return m.deleteErr
}

func multipartBody(t *testing.T, fields map[string][]string, imageName string, imageContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, values := range fields {
		for _, value := range values {
			require.NoError(t, writer.WriteField(key, value))
		}
	}
	if imageName != "" {
		part, err := writer.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = part.Write(imageContent)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestScholarHandlerCreateParsesMultipart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &scholarServiceMock{createResp: &models.Scholar{ID: "s-1", Name: "Alya"}}
	handler := NewScholarHandler(mock)

	body, contentType := multipartBody(t, map[string][]string{
		"name":  {"Alya"},
		"major": {"CS", "Math"},
	}, "photo.png", []byte("png bytes"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/scholars", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mock.lastUpload)
	assert.Equal(t, "photo.png", mock.lastUpload.Filename)
	content, err := io.ReadAll(mock.lastUpload.Content)
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(content))

	list, ok := mock.lastForm.List("major")
	require.True(t, ok)
	assert.Equal(t, []string{"CS", "Math"}, list)
}

func TestScholarHandlerCreateWithoutImage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &scholarServiceMock{createResp: &models.Scholar{ID: "s-1"}}
	handler := NewScholarHandler(mock)

	body, contentType := multipartBody(t, map[string][]string{"name": {"Alya"}}, "", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/scholars", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Nil(t, mock.lastUpload)
}

func TestScholarHandlerCreateRequiresMultipart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScholarHandler(&scholarServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/scholars", bytes.NewReader([]byte(`{"name":"Alya"}`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, envelope.Error.Code)
}

func TestScholarHandlerCreateServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &scholarServiceMock{createErr: appErrors.Clone(appErrors.ErrValidation, "name is required")}
	handler := NewScholarHandler(mock)

	body, contentType := multipartBody(t, map[string][]string{"email": {"x@y.z"}}, "", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/scholars", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "name is required", envelope.Error.Message)
}

func TestScholarHandlerGetInvalidIdentifier(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &scholarServiceMock{getErr: appErrors.ErrInvalidIdentifier}
	handler := NewScholarHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/scholars/abc", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScholarHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &scholarServiceMock{getErr: appErrors.ErrNotFound}
	handler := NewScholarHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/scholars/00000000-0000-0000-0000-000000000000", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "00000000-0000-0000-0000-000000000000"}}

	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScholarHandlerUpdateNoChanges(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &scholarServiceMock{updateErr: appErrors.ErrNoChanges}
	handler := NewScholarHandler(mock)

	body, contentType := multipartBody(t, map[string][]string{}, "", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPatch, "/scholars/s-1", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "s-1"}}

	handler.Update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrNoChanges.Code, envelope.Error.Code)
}

func TestScholarHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &scholarServiceMock{listResp: []models.Scholar{{ID: "a"}, {ID: "b"}}}
	handler := NewScholarHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/scholars", nil)
	c.Request = req

	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Data)
}

func TestScholarHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScholarHandler(&scholarServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/scholars/s-1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "s-1"}}

	handler.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
}
