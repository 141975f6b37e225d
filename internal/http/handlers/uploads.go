package handlers

import (
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type signUploadRequest struct {
	Filename string `json:"filename"`
}

// SignUpload hands the client a unique storage key for its direct blob upload.
// The key comes back to us later inside the booking payload's images list.
//
// POST /api/uploads/sign
func (h *Handlers) SignUpload(c *gin.Context) {
	var req signUploadRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	key := uuid.NewString()
	if ext := sanitizeExt(path.Ext(req.Filename)); ext != "" {
		key += ext
	}

	resp := gin.H{"ok": true, "key": key}
	if base := strings.TrimRight(h.Env.BlobPublicBaseURL, "/"); base != "" {
		resp["url"] = base + "/" + key
	}
	c.JSON(http.StatusOK, resp)
}

func sanitizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" || len(ext) > 5 {
		return ""
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return "." + ext
}
