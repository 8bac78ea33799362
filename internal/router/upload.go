package router

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	photoField   = "photo"
	uploadPrefix = "/uploads/"
)

// savePhoto stores a multipart "photo" file under the upload directory as
// "<unix-millis>-<name>" and returns its public path. Requests without a file
// return "".
func (r *Router) savePhoto(c *gin.Context) (string, error) {
	if !strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm) {
		return "", nil
	}

	file, err := c.FormFile(photoField)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if r.uploadDir == "" {
		return "", errors.New("uploads are not configured")
	}

	name := fmt.Sprintf("%d-%s", r.now().UnixMilli(), sanitizeFilename(file.Filename))
	if err := os.MkdirAll(r.uploadDir, 0o755); err != nil {
		return "", err
	}
	if err := c.SaveUploadedFile(file, filepath.Join(r.uploadDir, name)); err != nil {
		return "", err
	}
	return uploadPrefix + name, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if r == ' ' || r == '/' || r < 0x20 {
			return '_'
		}
		return r
	}, name)
	if name == "." || name == "" {
		return "photo"
	}
	return name
}
