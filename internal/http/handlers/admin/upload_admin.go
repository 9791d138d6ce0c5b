package admin

import (
	"github.com/Umair-Web/BTOBPortal/internal/http/response"
	"github.com/Umair-Web/BTOBPortal/internal/service"

	"github.com/gin-gonic/gin"
)

// UploadImages 批量上传商品图片（multipart 字段 files）
func (h *Handler) UploadImages(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		respondServiceError(c, service.ErrUploadNoFiles)
		return
	}
	urls, err := h.UploadService.SaveImages(c.Request.Context(), actor, form.File["files"])
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"urls": urls})
}

// AcquirePreview 暂存单张图片并返回预览句柄（multipart 字段 file）
func (h *Handler) AcquirePreview(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		respondServiceError(c, service.ErrUploadNoFiles)
		return
	}
	handle, err := h.UploadService.AcquirePreview(c.Request.Context(), actor, file)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, handle)
}

// CommitPreview 将预览图片转为正式图片
func (h *Handler) CommitPreview(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	url, err := h.UploadService.CommitPreview(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"url": url})
}

// ReleasePreview 放弃预览，删除暂存文件
func (h *Handler) ReleasePreview(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	if err := h.UploadService.ReleasePreview(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"released": true})
}
