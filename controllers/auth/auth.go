package authController

import (
	"errors"
	"time"

	"lingo/config"
	"lingo/database"
	"lingo/logger"
	"lingo/middleware"
	"lingo/models"
	"lingo/utils"
	"lingo/validators"
	authValidator "lingo/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedLogins = 3
	blockDuration   = 15 * time.Minute
)

func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.SignupRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request data!", nil)
	}

	db := database.Database.Db.WithContext(c.UserContext())

	// Check if email already exists
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", reqData.Email).Count(&count).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if count > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, "Email is already registered!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		logger.Log.Error("hash password", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:           reqData.Name,
		Email:          reqData.Email,
		Mobile:         reqData.Mobile,
		Role:           reqData.Role,
		NativeLanguage: reqData.NativeLanguage,
		Password:       string(hashedPassword),
	}
	if err := db.Create(&newUser).Error; err != nil {
		logger.Log.Error("create user", "email", newUser.Email, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, "Failed to Signup user!", nil)
	}

	utils.SendWelcomeEmail(newUser.Email, newUser.Name)

	return middleware.JsonResponse(c, fiber.StatusCreated, "User registered successfully.", newUser)
}

func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request data!", nil)
	}

	db := database.Database.Db.WithContext(c.UserContext())

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, "Invalid credentials!", nil)
		}
		return middleware.ErrorResponse(c, err)
	}

	now := time.Now()
	if user.IsBlocked && user.BlockedUntil != nil && user.BlockedUntil.After(now) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, "Your account is temporarily blocked. Try again later.", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		updates := map[string]interface{}{"failed_login_attempts": user.FailedLoginAttempts + 1}
		if user.FailedLoginAttempts+1 >= maxFailedLogins {
			updates["is_blocked"] = true
			updates["blocked_until"] = now.Add(blockDuration)
			updates["failed_login_attempts"] = 0
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			logger.Log.Error("record failed login", "userId", user.ID, "error", err)
		}
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, "Invalid credentials!", nil)
	}

	if err := db.Model(&user).Updates(map[string]interface{}{
		"last_login":            now,
		"failed_login_attempts": 0,
		"is_blocked":            false,
		"blocked_until":         nil,
	}).Error; err != nil {
		logger.Log.Error("save last login", "userId", user.ID, "error", err)
	}
	user.LastLogin = &now

	device := c.Get(fiber.HeaderUserAgent)
	if len(device) > 255 {
		device = device[:255]
	}
	if err := db.Create(&models.LoginTracking{
		UserID:    user.ID,
		IPAddress: c.IP(),
		Device:    device,
		Timestamp: now,
	}).Error; err != nil {
		logger.Log.Error("track login", "userId", user.ID, "error", err)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, "Failed to generate token", nil)
	}

	logger.Log.Info("user logged in", "userId", user.ID, "ip", c.IP())
	return middleware.JsonResponse(c, fiber.StatusOK, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}

// LoginHistory lists the caller's logins, newest first.
func LoginHistory(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, "Unauthorized!", nil)
	}
	page := validators.Page(c).Normalized()

	db := database.Database.Db.WithContext(c.UserContext()).
		Model(&models.LoginTracking{}).
		Where("user_id = ? AND is_deleted = ?", userId, false)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	history := []models.LoginTracking{}
	if err := db.Order("timestamp DESC").Offset(page.Offset()).Limit(page.Size).Find(&history).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Login history.", fiber.Map{
		"items": history,
		"total": total,
		"page":  page.Page,
		"size":  page.Size,
	})
}

// Me returns the authenticated user's profile.
func Me(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.WithContext(c.UserContext()).
		Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, "User not found!", nil)
		}
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Profile.", user)
}

func ChangeLoginPassword(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, "Invalid user session!", nil)
	}
	reqData, ok := c.Locals("validatedPassword").(*authValidator.ChangePasswordRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request data!", nil)
	}

	db := database.Database.Db.WithContext(c.UserContext())

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, "User not found!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.CurrentPassword)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, "Current password is incorrect!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, "Failed to hash password!", nil)
	}

	if err := db.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		logger.Log.Error("update password", "userId", user.ID, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, "Failed to update password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Password changed successfully.", nil)
}
