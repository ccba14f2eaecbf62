package service

import (
	"os"
	"sms-relay-api/config"
	"sms-relay-api/logger"
	"testing"
)

func TestMain(m *testing.M) {
	logger.Init()
	config.AppConfig.JWT.SecretKey = "test-secret-key"
	config.AppConfig.JWT.AccessTokenExpiresMinutes = 60
	config.AppConfig.JWT.RefreshTokenExtensionHours = 720

	os.Exit(m.Run())
}
