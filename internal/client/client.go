// Package client is a typed Go client for the scholarship directory API.
// It assembles the multipart submissions the server expects, validates
// forms before they leave the machine, and keeps the list view-state
// (filters plus pagination) serializable so front-end tooling can persist
// it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/scholarhub-org/scholarhub-api/internal/forms"
	"github.com/scholarhub-org/scholarhub-api/internal/models"
	appErrors "github.com/scholarhub-org/scholarhub-api/pkg/errors"
	"github.com/scholarhub-org/scholarhub-api/pkg/response"
)

// ImageFile is an image attachment for a create or update call.
type ImageFile struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// Client talks to the directory API.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken attaches a bearer token to every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New constructs a Client rooted at baseURL, e.g. "https://api.example.org/api/v1".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, e.g. after login.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	payload, err := json.Marshal(models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out models.LoginResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	c.token = out.AccessToken
	return &out, nil
}

// ListScholars fetches the full scholar collection.
func (c *Client) ListScholars(ctx context.Context) ([]models.Scholar, error) {
	var out []models.Scholar
	if err := c.get(ctx, "/scholars", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetScholar fetches one scholar by ID.
func (c *Client) GetScholar(ctx context.Context, id string) (*models.Scholar, error) {
	var out models.Scholar
	if err := c.get(ctx, "/scholars/"+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateScholar validates the form locally and submits it as multipart.
func (c *Client) CreateScholar(ctx context.Context, form ScholarForm, image *ImageFile) (*models.Scholar, error) {
	if problems := form.Validate(); len(problems) > 0 {
		return nil, validationError(problems)
	}
	var out models.Scholar
	if err := c.submit(ctx, http.MethodPost, "/scholars", form.fields(), image, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateScholar sends only the fields staged on the draft.
func (c *Client) UpdateScholar(ctx context.Context, id string, draft ScholarDraft, image *ImageFile) (*models.Scholar, error) {
	var out models.Scholar
	if err := c.submit(ctx, http.MethodPatch, "/scholars/"+id, draft.fields(), image, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteScholar removes one scholar.
func (c *Client) DeleteScholar(ctx context.Context, id string) error {
	return c.del(ctx, "/scholars/"+id)
}

// ListSponsors fetches the full scholarship collection.
func (c *Client) ListSponsors(ctx context.Context) ([]models.Sponsor, error) {
	var out []models.Sponsor
	if err := c.get(ctx, "/sponsors", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSponsor fetches one scholarship by ID.
func (c *Client) GetSponsor(ctx context.Context, id string) (*models.Sponsor, error) {
	var out models.Sponsor
	if err := c.get(ctx, "/sponsors/"+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSponsor validates the form locally and submits it as multipart.
// New scholarships must carry a banner image; only edits may omit it.
func (c *Client) CreateSponsor(ctx context.Context, form SponsorForm, image *ImageFile) (*models.Sponsor, error) {
	problems := form.Validate()
	if image == nil {
		problems["image"] = "image is required"
	}
	if len(problems) > 0 {
		return nil, validationError(problems)
	}
	var out models.Sponsor
	if err := c.submit(ctx, http.MethodPost, "/sponsors", form.fields(), image, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSponsor sends only the fields staged on the draft.
func (c *Client) UpdateSponsor(ctx context.Context, id string, draft SponsorDraft, image *ImageFile) (*models.Sponsor, error) {
	var out models.Sponsor
	if err := c.submit(ctx, http.MethodPatch, "/sponsors/"+id, draft.fields(), image, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSponsor removes one scholarship.
func (c *Client) DeleteSponsor(ctx context.Context, id string) error {
	return c.del(ctx, "/sponsors/"+id)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) del(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// submit assembles the multipart body. List fields go out as repeated keys,
// booleans as the literal strings "true" and "false".
func (c *Client) submit(ctx context.Context, method, path string, fields map[string][]string, image *ImageFile, out interface{}) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, values := range fields {
		for _, value := range values {
			if err := writer.WriteField(key, value); err != nil {
				return err
			}
		}
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", image.Name)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, image.Reader); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req, out)
}

// do executes the request and decodes the response envelope. Non-2xx
// responses come back as *errors.Error so callers can branch on the code
// and keep their form state for a retry.
func (c *Client) do(req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var envelope response.Envelope
	envelope.Data = out
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &envelope); err != nil {
			if resp.StatusCode >= 400 {
				return appErrors.New(appErrors.ErrInternal.Code, resp.StatusCode, fmt.Sprintf("unexpected response: %s", http.StatusText(resp.StatusCode)))
			}
			return err
		}
	}

	if resp.StatusCode >= 400 {
		if envelope.Error != nil {
			return envelope.Error
		}
		return appErrors.New(appErrors.ErrInternal.Code, resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return nil
}

func validationError(problems map[string]string) error {
	parts := make([]string, 0, len(problems))
	for field, msg := range problems {
		parts = append(parts, field+": "+msg)
	}
	return appErrors.Clone(appErrors.ErrValidation, strings.Join(parts, "; "))
}

func listFields(raw string) []string {
	return forms.NormalizeList([]string{raw})
}
