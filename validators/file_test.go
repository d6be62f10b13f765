package validators

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestValidateUpload(t *testing.T) {
	viper.Set("upload.max_size", int64(1<<20))

	assert.NoError(t, ValidateUpload("report.pdf", 512))
	assert.ErrorIs(t, ValidateUpload("", 512), ErrNoFile)
	assert.ErrorIs(t, ValidateUpload("   ", 512), ErrNoFile)
	assert.ErrorIs(t, ValidateUpload("malware.exe", 512), ErrFileTypeUnsupported)
	assert.ErrorIs(t, ValidateUpload("report.pdf", 2<<20), ErrFileTooLarge)

	long := strings.Repeat("a", 300) + ".txt"
	assert.ErrorIs(t, ValidateUpload(long, 512), ErrFileNameTooLong)
}

func TestAllowedFile(t *testing.T) {
	allowed := []string{"a.txt", "a.pdf", "a.PNG", "a.Jpg", "a.jpeg", "a.gif", "a.zip", "a.doc", "a.docx", "a.xls", "a.xlsx"}
	for _, name := range allowed {
		assert.True(t, AllowedFile(name), name)
	}

	denied := []string{"a.exe", "a.sh", "a", "a.", "a.tar.gz", "a.webp"}
	for _, name := range denied {
		assert.False(t, AllowedFile(name), name)
	}
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("photo.png"))
	assert.True(t, IsImage("photo.WEBP"))
	assert.True(t, IsImage("photo.bmp"))
	assert.False(t, IsImage("doc.pdf"))
	assert.False(t, IsImage("archive.zip"))
}
