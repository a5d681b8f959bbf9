package database

import (
	"campus_lms_backend/internal/config"
	"campus_lms_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate 建表与索引。(user_id, course_id) 和课程 code、person email 的
// 唯一索引在这里落到存储层，应用层的预检查只是补充。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Person{},
		&model.User{},
		&model.Course{},
		&model.Enrollment{},
		&model.Resource{},
	)
}
