package v1

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"employee-onboarding-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// readUpload reads one multipart file field, refusing bodies above maxSize
// before they are fully buffered.
func readUpload(c *gin.Context, field string, maxSize int64) (string, []byte, error) {
	// Leave room for the multipart envelope around the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+1<<20)

	fh, err := c.FormFile(field)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return "", nil, apperror.TooLarge(fmt.Sprintf("file exceeds the %d MB limit", maxSize>>20))
		}
		return "", nil, apperror.BadRequest(fmt.Sprintf("multipart field %q is required", field))
	}
	if fh.Size > maxSize {
		return "", nil, apperror.TooLarge(fmt.Sprintf("file exceeds the %d MB limit", maxSize>>20))
	}

	f, err := fh.Open()
	if err != nil {
		return "", nil, apperror.BadRequest("could not read uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return "", nil, apperror.BadRequest("could not read uploaded file")
	}
	return fh.Filename, data, nil
}
