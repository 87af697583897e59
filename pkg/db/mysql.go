package db

import (
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func ConnectMySQL() (*gorm.DB, error) {
	dsn := GetMySQLDSN()

	gormDB, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Error().Msgf("Failed to connect to MySQL: %v", err)
		return nil, err
	}

	log.Info().Msg("Connected to MySQL")
	return gormDB, nil
}
