package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "gestaofinanceira/internal/errors"
	"gestaofinanceira/internal/models"
)

const (
	linkCodeLength = 6
	linkCodeExpiry = 15 * time.Minute
)

// telegramService handles Telegram linking business logic.
type telegramService struct {
	db *gorm.DB
}

// NewTelegramService creates a new TelegramServicer.
func NewTelegramService(db *gorm.DB) TelegramServicer {
	return &telegramService{db: db}
}

// GetLinkByUserID retrieves the Telegram link of a user
func (s *telegramService) GetLinkByUserID(userID string) (*models.TelegramLink, error) {
	var link models.TelegramLink
	if err := s.db.Where("user_id = ?", userID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTelegramNotLinked
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &link, nil
}

// GetLinkByTelegramID retrieves an active link by Telegram user ID
func (s *telegramService) GetLinkByTelegramID(telegramUserID int64) (*models.TelegramLink, error) {
	var link models.TelegramLink
	if err := s.db.Where("telegram_user_id = ? AND is_active = ?", telegramUserID, true).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTelegramNotLinked
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &link, nil
}

// GenerateLinkCode issues a fresh link code for a user, creating the
// pending link on first use.
func (s *telegramService) GenerateLinkCode(userID string) (*models.TelegramLink, error) {
	var existingLink models.TelegramLink
	dbErr := s.db.Where("user_id = ?", userID).First(&existingLink).Error

	code, err := generateRandomCode(linkCodeLength)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	expiresAt := time.Now().Add(linkCodeExpiry)

	if dbErr != nil {
		if errors.Is(dbErr, gorm.ErrRecordNotFound) {
			link := &models.TelegramLink{
				UserID:            userID,
				LinkCode:          code,
				LinkCodeExpiresAt: &expiresAt,
				IsActive:          false,
			}

			if err := s.db.Create(link).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}

			return link, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, dbErr)
	}

	existingLink.LinkCode = code
	existingLink.LinkCodeExpiresAt = &expiresAt

	if err := s.db.Save(&existingLink).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &existingLink, nil
}

// CompleteLink redeems a link code on behalf of a Telegram user
func (s *telegramService) CompleteLink(linkCode string, telegramUserID int64, username, firstName string) (*models.TelegramLink, error) {
	linkCode = strings.ToLower(strings.TrimSpace(linkCode))
	if linkCode == "" {
		return nil, apperrors.ErrInvalidLinkCode
	}

	var link models.TelegramLink
	if err := s.db.Where("link_code = ?", linkCode).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidLinkCode
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if link.LinkCodeExpiresAt == nil || time.Now().After(*link.LinkCodeExpiresAt) {
		return nil, apperrors.ErrLinkCodeExpired
	}

	// A Telegram account may only be linked to one user.
	var existingLink models.TelegramLink
	err := s.db.Where("telegram_user_id = ? AND user_id <> ?", telegramUserID, link.UserID).First(&existingLink).Error
	if err == nil {
		return nil, apperrors.ErrTelegramAlreadyLinked
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	link.TelegramUserID = &telegramUserID
	link.TelegramUsername = username
	link.TelegramFirstName = firstName
	link.LinkCode = ""
	link.LinkCodeExpiresAt = nil
	link.IsActive = true

	if err := s.db.Save(&link).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &link, nil
}

// UnlinkAccount removes the Telegram link of a user
func (s *telegramService) UnlinkAccount(userID string) error {
	result := s.db.Where("user_id = ?", userID).Delete(&models.TelegramLink{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.ErrTelegramNotLinked
	}

	return nil
}

// RecordActivity updates the last message timestamp and increments message count
func (s *telegramService) RecordActivity(telegramUserID int64) error {
	now := time.Now()
	result := s.db.Model(&models.TelegramLink{}).
		Where("telegram_user_id = ?", telegramUserID).
		Updates(map[string]interface{}{
			"last_message_at": now,
			"message_count":   gorm.Expr("message_count + 1"),
		})

	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}

	return nil
}

// generateRandomCode generates a random hex code of the given length
func generateRandomCode(length int) (string, error) {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes)[:length], nil
}
