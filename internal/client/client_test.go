package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarhub-org/scholarhub-api/internal/models"
	appErrors "github.com/scholarhub-org/scholarhub-api/pkg/errors"
	"github.com/scholarhub-org/scholarhub-api/pkg/response"
)

func validClientScholarForm() ScholarForm {
	return ScholarForm{
		Name:         "Alya Putri",
		Email:        "alya@example.com",
		About:        "<p>Mentor for STEM applicants.</p>",
		Sponsor:      "LPDP",
		Major:        "Computer Science, Mathematics",
		Institution:  "ITB",
		Availability: true,
	}
}

func TestClientCreateScholarMultipartShape(t *testing.T) {
	var gotForm map[string][]string
	var gotImage []byte
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/scholars", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseMultipartForm(10<<20))
		gotForm = r.MultipartForm.Value
		file, _, err := r.FormFile("image")
		require.NoError(t, err)
		gotImage, err = io.ReadAll(file)
		require.NoError(t, err)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(response.Envelope{Data: models.Scholar{ID: "s-1", Name: "Alya Putri"}})
	}))
	defer server.Close()

	c := New(server.URL+"/api/v1", WithToken("tok-123"))
	scholar, err := c.CreateScholar(context.Background(), validClientScholarForm(), &ImageFile{
		Name:   "photo.png",
		Reader: strings.NewReader("png bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "s-1", scholar.ID)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, []string{"Computer Science", "Mathematics"}, gotForm["major"])
	assert.Equal(t, []string{"true"}, gotForm["availability"])
	assert.Equal(t, "png bytes", string(gotImage))
}

func TestClientCreateScholarValidatesLocally(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	c := New(server.URL)
	form := validClientScholarForm()
	form.Name = "   "

	_, err := c.CreateScholar(context.Background(), form, nil)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Zero(t, calls, "invalid forms never reach the server")
}

func validClientSponsorForm() SponsorForm {
	return SponsorForm{
		Sponsor:       "Chevening",
		About:         "<p>Fully funded masters in the UK.</p>",
		TimeStart:     "2026-08-01",
		TimeEnd:       "2026-11-01",
		Programs:      "Masters",
		MajorsOffered: "Any",
		Status:        true,
	}
}

func TestClientCreateSponsorRequiresImage(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.CreateSponsor(context.Background(), validClientSponsorForm(), nil)

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "image")
	assert.Zero(t, calls, "a create without an image never reaches the server")
}

func TestClientCreateSponsorWithImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		_, _, err := r.FormFile("image")
		require.NoError(t, err)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(response.Envelope{Data: models.Sponsor{ID: "sp-1"}})
	}))
	defer server.Close()

	c := New(server.URL)
	sponsor, err := c.CreateSponsor(context.Background(), validClientSponsorForm(), &ImageFile{
		Name:   "banner.png",
		Reader: strings.NewReader("png bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "sp-1", sponsor.ID)
}

func TestClientUpdateScholarSendsOnlyStagedFields(t *testing.T) {
	var gotForm map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.NoError(t, r.ParseMultipartForm(10<<20))
		gotForm = r.MultipartForm.Value
		_ = json.NewEncoder(w).Encode(response.Envelope{Data: models.Scholar{ID: "s-1"}})
	}))
	defer server.Close()

	name := "New Name"
	c := New(server.URL)
	_, err := c.UpdateScholar(context.Background(), "s-1", ScholarDraft{Name: &name, RemoveImage: true}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"New Name"}, gotForm["name"])
	assert.Equal(t, []string{"remove"}, gotForm["imageAction"])
	assert.NotContains(t, gotForm, "email")
	assert.NotContains(t, gotForm, "availability")
}

func TestClientDecodesErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(response.Envelope{Error: appErrors.Clone(appErrors.ErrNotFound, "scholar not found")})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.GetScholar(context.Background(), "missing")

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "scholar not found", appErr.Message)
}

func TestClientListScholars(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(response.Envelope{Data: []models.Scholar{{ID: "a"}, {ID: "b"}}})
	}))
	defer server.Close()

	c := New(server.URL)
	scholars, err := c.ListScholars(context.Background())
	require.NoError(t, err)
	require.Len(t, scholars, 2)
	assert.Equal(t, "a", scholars[0].ID)
}

func TestClientLoginStoresToken(t *testing.T) {
	var sawAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			_ = json.NewEncoder(w).Encode(response.Envelope{Data: models.LoginResponse{AccessToken: "issued-token"}})
		case "/scholars":
			sawAuth = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode(response.Envelope{Data: []models.Scholar{}})
		}
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.Login(context.Background(), "admin@scholarhub.org", "pass")
	require.NoError(t, err)
	assert.Equal(t, "issued-token", resp.AccessToken)

	_, err = c.ListScholars(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer issued-token", sawAuth)
}

func TestClientNonEnvelopeErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.ListScholars(context.Background())

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.Status)
}
