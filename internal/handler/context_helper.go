package handler

import (
	"bytes"
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/scholarhub-org/scholarhub-api/internal/forms"
	"github.com/scholarhub-org/scholarhub-api/internal/middleware"
	"github.com/scholarhub-org/scholarhub-api/internal/models"
	"github.com/scholarhub-org/scholarhub-api/internal/service"
	appErrors "github.com/scholarhub-org/scholarhub-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// parseRecordForm reads the multipart body of a create or update request and
// splits it into text fields plus the optional image part.
func parseRecordForm(c *gin.Context) (forms.Values, *service.ImageUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return forms.Values{}, nil, appErrors.Clone(appErrors.ErrValidation, "expected a multipart form body")
	}
	values := forms.FromMultipart(form)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return values, nil, nil
	}

	src, err := fileHeader.Open()
	if err != nil {
		return forms.Values{}, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open image")
	}
	defer src.Close()

	// Buffer the whole part so the upload outlives this parse. The size cap
	// keeps this bounded.
	buf, err := io.ReadAll(src)
	if err != nil {
		return forms.Values{}, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to buffer image")
	}

	upload := &service.ImageUpload{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		MimeType: contentTypeOf(fileHeader),
		Content:  bytes.NewReader(buf),
	}
	return values, upload, nil
}

func contentTypeOf(header *multipart.FileHeader) string {
	if header == nil {
		return ""
	}
	return header.Header.Get("Content-Type")
}
