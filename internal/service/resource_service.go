package service

import (
	"campus_lms_backend/internal/model"
	"campus_lms_backend/internal/repository"
	"campus_lms_backend/internal/util"
	"campus_lms_backend/pkg/logger"
	"campus_lms_backend/pkg/monitoring"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const uploadProgressKeyPrefix = "upload_progress:"
const uploadProgressTTL = 30 * time.Minute

// ResourceService 上传文件的元数据 + 二进制内容。一次上传/删除中，
// Resource 行和存储对象要么都生效要么都不生效，失败不留可见残骸。
type ResourceService struct {
	ResourceRepo *repository.ResourceRepository
	CourseRepo   *repository.CourseRepository
	Storage      *StorageService
	Redis        *redis.Client
}

func NewResourceService(
	resourceRepo *repository.ResourceRepository,
	courseRepo *repository.CourseRepository,
	storage *StorageService,
	rdb *redis.Client,
) *ResourceService {
	return &ResourceService{
		ResourceRepo: resourceRepo,
		CourseRepo:   courseRepo,
		Storage:      storage,
		Redis:        rdb,
	}
}

// ResourceMeta 上传时的元数据字段
type ResourceMeta struct {
	Title       string
	Description string
	CourseID    uint
}

func (s *ResourceService) setProgress(ctx context.Context, token, state string) {
	if s.Redis == nil || token == "" {
		return
	}
	if err := s.Redis.Set(ctx, uploadProgressKeyPrefix+token, state, uploadProgressTTL).Err(); err != nil {
		logger.Log.Warn("set upload progress failed", zap.Error(err))
	}
}

// UploadProgress 查询一次上传的进度状态（uploading/done/failed）
func (s *ResourceService) UploadProgress(ctx context.Context, token string) (string, error) {
	if s.Redis == nil {
		return "", util.NotFound("upload progress not found")
	}
	state, err := s.Redis.Get(ctx, uploadProgressKeyPrefix+token).Result()
	if err == redis.Nil {
		return "", util.NotFound("upload progress not found")
	}
	if err != nil {
		return "", util.WrapStorage("get upload progress", err)
	}
	return state, nil
}

// Upload 校验（大小上限、扩展名白名单、课程存在）全部通过后才碰存储；
// 对象先写入，元数据行插入失败时补偿删除对象。返回上传进度 token。
func (s *ResourceService) Upload(ctx context.Context, file *multipart.FileHeader, meta ResourceMeta, caller *model.Caller) (*model.Resource, string, error) {
	if err := RequireRole(caller, model.Instructor, model.Admin); err != nil {
		return nil, "", err
	}

	if meta.Title == "" {
		return nil, "", util.Invalid("title is required")
	}
	if file.Size > util.MaxUploadSize {
		return nil, "", util.Invalid("file exceeds the 10MB size limit")
	}
	if !util.IsAllowedExtension(file.Filename) {
		return nil, "", util.Invalid("file extension is not allowed")
	}

	if _, err := s.CourseRepo.FindByID(meta.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", util.NotFound("course not found")
		}
		return nil, "", util.WrapStorage("find course", err)
	}

	fileType := util.FileTypeOf(file.Filename)
	ext := strings.ToLower(filepath.Ext(file.Filename))
	base := util.SanitizeFilename(strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename)))
	filename := fmt.Sprintf("courses/%d/%s-%s-%s%s",
		meta.CourseID, time.Now().Format("20060102150405"), util.GenerateRandomString(6), base, ext)

	token := uuid.NewString()
	s.setProgress(ctx, token, "uploading")

	src, err := file.Open()
	if err != nil {
		s.setProgress(ctx, token, "failed")
		return nil, token, util.WrapStorage("open upload", err)
	}
	defer src.Close()

	resource := &model.Resource{
		Title:       meta.Title,
		Description: meta.Description,
		FileURL:     filename,
		FileType:    fileType,
		CourseID:    meta.CourseID,
		UploadedBy:  caller.ID,
		Size:        file.Size,
	}

	if fileType == model.FileVideo {
		// 视频先落临时文件以便探测时长，再从临时文件上传
		if err := s.uploadVideo(ctx, src, file, filename, resource); err != nil {
			s.setProgress(ctx, token, "failed")
			monitoring.ResourceUploads.WithLabelValues(string(fileType), "error").Inc()
			return nil, token, err
		}
	} else {
		if err := s.Storage.Upload(ctx, filename, src, file.Size, file.Header.Get("Content-Type")); err != nil {
			s.setProgress(ctx, token, "failed")
			monitoring.ResourceUploads.WithLabelValues(string(fileType), "error").Inc()
			return nil, token, util.WrapStorage("upload file", err)
		}
	}

	if err := s.ResourceRepo.Create(resource); err != nil {
		// 元数据落库失败，补偿删除已写入的对象，避免只见其一
		if delErr := s.Storage.Delete(ctx, filename); delErr != nil {
			logger.Log.Error("compensating blob delete failed",
				zap.String("file", filename), zap.Error(delErr))
		}
		s.setProgress(ctx, token, "failed")
		monitoring.ResourceUploads.WithLabelValues(string(fileType), "error").Inc()
		return nil, token, util.WrapStorage("create resource", err)
	}

	s.setProgress(ctx, token, "done")
	monitoring.ResourceUploads.WithLabelValues(string(fileType), "ok").Inc()
	return resource, token, nil
}

func (s *ResourceService) uploadVideo(ctx context.Context, src multipart.File, file *multipart.FileHeader, filename string, resource *model.Resource) error {
	tmp, err := os.CreateTemp("", "upload_video_*"+filepath.Ext(file.Filename))
	if err != nil {
		return util.WrapStorage("create temp file", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, src); err != nil {
		return util.WrapStorage("buffer video", err)
	}

	// 时长探测失败不阻断上传
	if info, err := util.GetVideoInfo(tmp.Name()); err == nil {
		resource.Duration = info.Duration
	} else {
		logger.Log.Warn("probe video failed", zap.Error(err))
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return util.WrapStorage("rewind temp file", err)
	}
	if err := s.Storage.Upload(ctx, filename, tmp, file.Size, file.Header.Get("Content-Type")); err != nil {
		return util.WrapStorage("upload file", err)
	}
	return nil
}

// GetByID 资源元数据
func (s *ResourceService) GetByID(id uint) (*model.Resource, error) {
	resource, err := s.ResourceRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFound("resource not found")
		}
		return nil, util.WrapStorage("find resource", err)
	}
	return resource, nil
}

// ResourcePatch 元数据更新字段
type ResourcePatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Update 更新元数据，上传者本人或管理员可操作
func (s *ResourceService) Update(id uint, patch ResourcePatch, caller *model.Caller) (*model.Resource, error) {
	resource, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := RequireSelfOrRole(caller, resource.UploadedBy, model.Admin); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		resource.Title = *patch.Title
	}
	if patch.Description != nil {
		resource.Description = *patch.Description
	}

	if err := s.ResourceRepo.Save(resource); err != nil {
		return nil, util.WrapStorage("update resource", err)
	}
	return resource, nil
}

// Delete 先删对象（对象已缺失视为空操作），再删元数据行
func (s *ResourceService) Delete(ctx context.Context, id uint, caller *model.Caller) error {
	resource, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if err := RequireSelfOrRole(caller, resource.UploadedBy, model.Admin); err != nil {
		return err
	}

	if err := s.Storage.Delete(ctx, resource.FileURL); err != nil && !isBlobMissing(err) {
		return util.WrapStorage("delete file", err)
	}

	if err := s.ResourceRepo.Delete(id); err != nil {
		return util.WrapStorage("delete resource", err)
	}
	return nil
}

// Download 打开存储对象。元数据存在而对象缺失是可检测的不一致，
// 返回 not_found 而不是崩溃。
func (s *ResourceService) Download(ctx context.Context, id uint) (*model.Resource, io.ReadCloser, error) {
	resource, err := s.GetByID(id)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.Storage.Download(ctx, resource.FileURL)
	if err != nil {
		if isBlobMissing(err) {
			logger.Log.Warn("resource blob missing",
				zap.Uint("resource", resource.ID), zap.String("file", resource.FileURL))
			return nil, nil, util.NotFound("resource file is missing")
		}
		return nil, nil, util.WrapStorage("download file", err)
	}

	return resource, reader, nil
}

// ListByCourse 课程下全部资源，最新上传在前
func (s *ResourceService) ListByCourse(courseID uint) ([]model.Resource, error) {
	resources, err := s.ResourceRepo.FindByCourse(courseID)
	if err != nil {
		return nil, util.WrapStorage("list resources", err)
	}
	return resources, nil
}

// ListByType 按文件类型精确过滤
func (s *ResourceService) ListByType(courseID uint, fileType model.ResourceType) ([]model.Resource, error) {
	resources, err := s.ResourceRepo.FindByCourseAndType(courseID, fileType)
	if err != nil {
		return nil, util.WrapStorage("list resources", err)
	}
	return resources, nil
}

// Search 标题/描述子串搜索
func (s *ResourceService) Search(courseID uint, term string) ([]model.Resource, error) {
	resources, err := s.ResourceRepo.SearchInCourse(courseID, term)
	if err != nil {
		return nil, util.WrapStorage("search resources", err)
	}
	return resources, nil
}

// isBlobMissing 判断存储层错误是否为“对象不存在”
func isBlobMissing(err error) bool {
	if os.IsNotExist(err) {
		return true
	}
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
}
