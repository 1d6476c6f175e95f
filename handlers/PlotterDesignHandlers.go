package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"backend/models"
	"backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultDataDir = "/var/www/matbixx/"

// MaxDesignUploadSize caps a single uploaded design file at 50MB.
const MaxDesignUploadSize = 50 << 20

// DataDir returns the directory design files and generated PDFs live in.
func DataDir() string {
	if dir := os.Getenv("MATBIXX_DATA_DIR"); dir != "" {
		return dir
	}
	return defaultDataDir
}

// allowedDesignType reports whether the uploaded file is one of the design
// formats the plotter pipeline accepts (PDF, SVG, EPS).
func allowedDesignType(header *multipart.FileHeader) bool {
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".pdf", ".svg", ".eps":
	default:
		return false
	}

	contentType := header.Header.Get("Content-Type")
	switch contentType {
	case "application/pdf", "image/svg+xml", "application/postscript", "application/eps", "image/eps":
		return true
	case "":
		// Some browsers omit the content type; the extension check above
		// already passed.
		return true
	}
	return false
}

// saveDesignToDirectory writes one uploaded design under a unique name and
// returns the stored path.
func saveDesignToDirectory(file *multipart.FileHeader, uploadDir string) (string, error) {
	filename := filepath.Base(file.Filename)
	if filename == "" || filename == "." {
		return "", fmt.Errorf("invalid file name")
	}

	if file.Size > MaxDesignUploadSize {
		return "", fmt.Errorf("file size exceeds the allowed limit")
	}

	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("unable to create directory %s: %w", uploadDir, err)
	}

	uniqueName := fmt.Sprintf("%s-%s", uuid.NewString(), filename)
	dstPath := filepath.Join(uploadDir, uniqueName)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("unable to create the file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("unable to save the file: %w", err)
	}

	return dstPath, nil
}

// UploadDesigns godoc
// @Summary      Upload plotter designs
// @Description  Upload one or more design files (multipart form, field name: designs). Optional widths/heights form fields carry the measured dimensions in millimeters, aligned by index.
// @Tags         automation
// @Accept       multipart/form-data
// @Produce      json
// @Param        designs  formData  file  true  "Design files (PDF/SVG/EPS, max 50MB each)"
// @Success      200      {object}  object
// @Failure      400      {object}  object
// @Failure      500      {object}  object
// @Router       /api/automation/plotter/upload-designs [post]
func UploadDesigns(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*models.User)

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid multipart form: " + err.Error()})
			return
		}

		files := form.File["designs"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "at least one design file required"})
			return
		}

		widths := form.Value["widths"]
		heights := form.Value["heights"]

		uploadDir := filepath.Join(DataDir(), "designs")
		uploaded := make([]models.DesignListItem, 0, len(files))

		for i, file := range files {
			if !allowedDesignType(file) {
				c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("unsupported file type: %s (PDF, SVG and EPS only)", file.Filename)})
				return
			}

			storedPath, err := saveDesignToDirectory(file, uploadDir)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}

			design := models.DesignFile{
				ID:         uuid.NewString(),
				OwnerID:    user.ID,
				FileName:   filepath.Base(file.Filename),
				StoredPath: storedPath,
				FileType:   strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), "."),
				FileSize:   file.Size,
			}

			// Dimensions are measured client-side when the file is parsed;
			// designs without them fall back to the plotter label size.
			if i < len(widths) && i < len(heights) {
				if w, errW := strconv.ParseFloat(widths[i], 64); errW == nil {
					if h, errH := strconv.ParseFloat(heights[i], 64); errH == nil && w > 0 && h > 0 {
						design.WidthMM = &w
						design.HeightMM = &h
					}
				}
			}

			if err := storage.SaveDesignFile(gdb, &design); err != nil {
				os.Remove(storedPath)
				c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
				return
			}

			uploaded = append(uploaded, models.DesignListItem{
				ID:         design.ID,
				FileName:   design.FileName,
				FileType:   design.FileType,
				FileSize:   design.FileSize,
				Dimensions: design.Size(),
				UploadedAt: design.UploadedAt,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Designs uploaded successfully",
			"designs": uploaded,
		})
	}
}

// ListDesigns godoc
// @Summary      List uploaded plotter designs
// @Tags         automation
// @Produce      json
// @Success      200  {array}   models.DesignListItem
// @Failure      500  {object}  object
// @Router       /api/automation/plotter/designs [get]
func ListDesigns(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*models.User)

		rows, err := storage.ListDesignFiles(gdb, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}

		designs := make([]models.DesignListItem, 0, len(rows))
		for _, row := range rows {
			designs = append(designs, models.DesignListItem{
				ID:         row.ID,
				FileName:   row.FileName,
				FileType:   row.FileType,
				FileSize:   row.FileSize,
				Dimensions: row.Size(),
				UploadedAt: row.UploadedAt,
			})
		}

		c.JSON(http.StatusOK, designs)
	}
}

// ClearDesigns godoc
// @Summary      Remove all uploaded plotter designs
// @Tags         automation
// @Produce      json
// @Success      200  {object}  object
// @Failure      500  {object}  object
// @Router       /api/automation/plotter/designs/clear [delete]
func ClearDesigns(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*models.User)

		paths, err := storage.ClearDesignFiles(gdb, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}

		removed := 0
		for _, path := range paths {
			if path == "" {
				continue
			}
			if err := os.Remove(path); err == nil {
				removed++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Designs cleared",
			"cleared": len(paths),
			"removed": removed,
		})
	}
}

// ServeFile godoc
// @Summary      Serve file
// @Description  Serve a stored file by name from query param ?file=filename
// @Tags         upload
// @Produce      application/octet-stream
// @Param        file  query     string  true  "File name (path relative to storage)"
// @Success      200   {file}   file    "File content"
// @Failure      400   {object}  object
// @Failure      403   {object}  object
// @Failure      404   {object}  object
// @Failure      500   {object}  object
// @Router       /api/get-file [get]
func ServeFile(c *gin.Context) {
	fileName := c.Query("file")
	if fileName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file parameter is required"})
		return
	}

	// Secure the file path to prevent directory traversal attacks
	cleanFileName := filepath.Clean(fileName)
	if cleanFileName != fileName || strings.Contains(cleanFileName, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file path"})
		return
	}

	absoluteDataDir, err := filepath.Abs(DataDir())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	filePath := filepath.Join(absoluteDataDir, cleanFileName)
	if !strings.HasPrefix(filePath, absoluteDataDir+string(os.PathSeparator)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) || (err == nil && info.IsDir()) {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	file, err := os.Open(filePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	defer file.Close()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	contentType := http.DetectContentType(buffer[:n])
	c.Writer.Header().Set("Content-Type", contentType)

	c.File(filePath)
}
