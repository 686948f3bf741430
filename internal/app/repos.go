package app

import (
	"gorm.io/gorm"

	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/logger"
	"github.com/ajaypanchal761/createbharat-sub003/internal/repos"
)

type Repos struct {
	User                repos.UserRepo
	Course              repos.CourseRepo
	CourseModule        repos.CourseModuleRepo
	Topic               repos.TopicRepo
	CertificateProgress repos.CertificateProgressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:                repos.NewUserRepo(db, log),
		Course:              repos.NewCourseRepo(db, log),
		CourseModule:        repos.NewCourseModuleRepo(db, log),
		Topic:               repos.NewTopicRepo(db, log),
		CertificateProgress: repos.NewCertificateProgressRepo(db, log),
	}
}
