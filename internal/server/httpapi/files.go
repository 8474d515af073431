package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// files serves GET /api/files/*path. The path may also come from ?path=.
// With download=true the target is streamed as an attachment.
func (h *handler) files(c *gin.Context) {
	p := c.Param("path")
	if q, ok := c.GetQuery("path"); ok {
		p = q
	}

	if c.Query("download") == "true" {
		h.download(c, p)
		return
	}

	entries, err := h.Files.List(p)
	if err != nil {
		h.writeError(c, err, map[int]string{http.StatusNotFound: "Directory not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": entries})
}

func (h *handler) download(c *gin.Context, p string) {
	d, err := h.Files.Open(p)
	if err != nil {
		h.writeError(c, err, map[int]string{http.StatusNotFound: "File not found"})
		return
	}
	defer d.Close()

	c.DataFromReader(http.StatusOK, d.Size, "application/octet-stream", d.Reader(c.Request.Context()),
		map[string]string{"Content-Disposition": contentDisposition(d.Name)})
}

var dispositionEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r", "", "\n", "")

func contentDisposition(name string) string {
	return `attachment; filename="` + dispositionEscaper.Replace(name) + `"`
}
