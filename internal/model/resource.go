package model

type ResourceType string

const (
	FileImage    ResourceType = "image"
	FileVideo    ResourceType = "video"
	FileAudio    ResourceType = "audio"
	FilePDF      ResourceType = "pdf"
	FileOffice   ResourceType = "office"
	FileDocument ResourceType = "document"
)

// Resource 课程下的上传文件元数据，二进制内容由存储提供方保存
// swagger:model Resource
type Resource struct {
	BaseModel
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	FileURL     string       `gorm:"size:255;not null" json:"fileUrl"`
	FileType    ResourceType `gorm:"size:20;not null" json:"fileType"`
	CourseID    uint         `gorm:"index;not null" json:"courseId"`
	UploadedBy  uint         `gorm:"index;not null" json:"uploadedBy"`
	Size        int64        `gorm:"default:0" json:"size"`
	Duration    float64      `gorm:"default:0" json:"duration"` // 视频时长（秒），非视频为 0
}

func (Resource) TableName() string {
	return "resources"
}
