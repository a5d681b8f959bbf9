package util

import (
	"campus_lms_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileTypeOf(t *testing.T) {
	tests := []struct {
		filename string
		want     model.ResourceType
	}{
		{"photo.jpg", model.FileImage},
		{"photo.JPEG", model.FileImage},
		{"lecture.mp4", model.FileVideo},
		{"podcast.mp3", model.FileAudio},
		{"syllabus.pdf", model.FilePDF},
		{"slides.PPTX", model.FileOffice},
		{"grades.xlsx", model.FileOffice},
		{"notes.txt", model.FileDocument},
		{"bundle.zip", model.FileDocument},
		// 未知扩展名兜底为 document（白名单校验在别处拦）
		{"weird.xyz", model.FileDocument},
		{"archive.tar.gz", model.FileDocument},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FileTypeOf(tt.filename), tt.filename)
	}
}

func TestIsAllowedExtension(t *testing.T) {
	allowed := []string{"a.jpg", "a.jpeg", "a.png", "a.gif", "a.pdf", "a.doc", "a.docx",
		"a.ppt", "a.pptx", "a.xls", "a.xlsx", "a.txt", "a.mp3", "a.mp4", "a.wav", "a.zip",
		"UPPER.PDF", "spaced name.docx"}
	for _, name := range allowed {
		assert.True(t, IsAllowedExtension(name), name)
	}

	denied := []string{"tool.exe", "script.sh", "page.html", "noext", "trailingdot.", "a.pdf.exe"}
	for _, name := range denied {
		assert.False(t, IsAllowedExtension(name), name)
	}
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "week-1-notes", SanitizeFilename("week 1 notes"))
	assert.Equal(t, "plain", SanitizeFilename("plain"))
	// 路径组件被剥掉，只留文件名
	assert.Equal(t, "escape", SanitizeFilename("../../escape"))
}
