package util

import (
	"path/filepath"
	"strings"

	"campus_lms_backend/internal/model"
)

// MaxUploadSize 上传文件大小上限（10MB）
const MaxUploadSize = 10 << 20

// extensionTypes 扩展名到资源类型的固定映射，未命中的按 document 处理
var extensionTypes = map[string]model.ResourceType{
	".jpg":  model.FileImage,
	".jpeg": model.FileImage,
	".png":  model.FileImage,
	".gif":  model.FileImage,
	".mp4":  model.FileVideo,
	".mp3":  model.FileAudio,
	".wav":  model.FileAudio,
	".pdf":  model.FilePDF,
	".doc":  model.FileOffice,
	".docx": model.FileOffice,
	".ppt":  model.FileOffice,
	".pptx": model.FileOffice,
	".xls":  model.FileOffice,
	".xlsx": model.FileOffice,
	".txt":  model.FileDocument,
	".zip":  model.FileDocument,
}

// FileTypeOf 按扩展名（小写）推导资源类型
func FileTypeOf(filename string) model.ResourceType {
	ext := strings.ToLower(filepath.Ext(filename))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return model.FileDocument
}

// IsAllowedExtension 扩展名白名单校验，任何存储写入之前调用
func IsAllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	_, ok := extensionTypes[ext]
	return ok
}

// SanitizeFilename 替换文件名中的空格，避免 URL 转义问题
func SanitizeFilename(name string) string {
	return strings.ReplaceAll(filepath.Base(name), " ", "-")
}
