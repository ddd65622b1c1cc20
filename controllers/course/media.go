package courseController

import (
	"context"
	"io"

	"lingo/logger"
	"lingo/middleware"
	"lingo/utils"

	"github.com/gofiber/fiber/v2"
)

// Uploader stores a file and returns the URL it is served from.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Media is the media service client. When nil, uploads are kept on local disk.
var Media Uploader

// UploadMedia accepts a multipart "file" field and answers with its URL.
func UploadMedia(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"file": "File is required!"})
	}
	if err := utils.CheckUpload(file); err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"file": err.Error()})
	}

	if Media == nil {
		name, err := utils.SaveUploadedFile(file, utils.UploadDir)
		if err != nil {
			logger.Log.Error("save upload", "filename", file.Filename, "error", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, "Failed to upload file!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusCreated, "File uploaded successfully.", fiber.Map{"url": utils.GetFileURL(name)})
	}

	src, err := file.Open()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, "Failed to read file!", nil)
	}
	defer src.Close()

	url, err := Media.Upload(c.UserContext(), file.Filename, src)
	if err != nil {
		logger.Log.Error("media upload", "filename", file.Filename, "error", err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, "Media service is unavailable, please try again!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, "File uploaded successfully.", fiber.Map{"url": url})
}
