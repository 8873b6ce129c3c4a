package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/wishfund/wishfund-backend/app/models"
	"github.com/wishfund/wishfund-backend/app/queries"
	"github.com/wishfund/wishfund-backend/pkg/config"
	"github.com/wishfund/wishfund-backend/pkg/database"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

const otpDigits = 6

func UserSignUp(c *fiber.Ctx) error {
	signUp := &models.SignUp{}
	if err := c.BodyParser(signUp); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := validate.Struct(signUp); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	ctx := c.UserContext()
	userQueries := queries.UserQueries{DB: database.DB}
	existing, err := userQueries.GetUserByEmail(ctx, signUp.Email)
	if err == nil {
		if existing.Verified {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already registered"})
		}
		otp, err := utils.GenerateOTP(otpDigits)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate OTP"})
		}
		if err := userQueries.UpdateOTPByEmail(ctx, signUp.Email, otp); err != nil {
			zap.L().Error("update otp", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update OTP"})
		}
		if err := utils.SendOTPEmail(signUp.Email, otp); err != nil {
			zap.L().Error("send otp email", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send OTP email"})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "OTP resent to email"})
	}
	if !errors.Is(err, queries.ErrNotFound) {
		return queryError(c, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(signUp.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	otp, err := utils.GenerateOTP(otpDigits)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate OTP"})
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New(),
		Email:        signUp.Email,
		Username:     utils.SanitizeText(signUp.Username),
		PasswordHash: string(hashedPassword),
		AccountType:  signUp.AccountType,
		SchoolName:   utils.SanitizeText(signUp.SchoolName),
		Verified:     false,
		OTP:          otp,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := userQueries.CreateUser(ctx, user); err != nil {
		return queryError(c, err)
	}

	if err := utils.SendOTPEmail(signUp.Email, otp); err != nil {
		zap.L().Error("send otp email", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send OTP email"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User registered. OTP sent to email"})
}

func UserVerifyOTP(c *fiber.Ctx) error {
	payload := &models.VerifyOTP{}
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	if err := userQueries.VerifyOTPByEmail(c.UserContext(), payload.Email, payload.OTP); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Account verified successfully"})
}

func UserSignIn(c *fiber.Ctx) error {
	signIn := &models.SignIn{}
	if err := c.BodyParser(signIn); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := validate.Struct(signIn); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	user, err := userQueries.GetUserByEmail(c.UserContext(), signIn.Email)
	if err != nil {
		if !errors.Is(err, queries.ErrNotFound) {
			zap.L().Error("sign in lookup", zap.Error(err))
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}

	if !user.Verified {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Account not verified. Please verify your account before signing in",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(signIn.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}

	tokens, err := issueTokens(c.UserContext(), user)
	if err != nil {
		zap.L().Error("issue tokens", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	tokens["message"] = "Sign in successful"
	tokens["user"] = fiber.Map{
		"id":          user.ID,
		"email":       user.Email,
		"accountType": user.AccountType,
	}
	return c.Status(fiber.StatusOK).JSON(tokens)
}

// issueTokens signs an access token and stores a fresh refresh token for the user.
func issueTokens(ctx context.Context, user models.User) (fiber.Map, error) {
	cfg := config.AppConfig
	accessTTL := time.Duration(cfg.AccessTokenMinutes) * time.Minute
	tokenString, err := utils.GenerateAccessToken(cfg.JWTSecret, user.ID, user.Email, user.AccountType, accessTTL)
	if err != nil {
		return nil, err
	}

	rtStr, err := utils.GenerateRandomToken(32)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var expiresAt *time.Time
	if cfg.RefreshTokenHours > 0 {
		t := now.Add(time.Duration(cfg.RefreshTokenHours) * time.Hour)
		expiresAt = &t
	}
	rt := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     rtStr,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	rtQueries := queries.RefreshTokenQueries{DB: database.DB}
	if err := rtQueries.CreateRefreshToken(ctx, rt); err != nil {
		return nil, err
	}

	return fiber.Map{
		"access_token":       tokenString,
		"expires_in":         int(accessTTL.Seconds()),
		"refresh_token":      rtStr,
		"refresh_expires_at": expiresAt,
	}, nil
}

// RefreshToken exchanges a live refresh token for a new pair and revokes the old one.
func RefreshToken(c *fiber.Ctx) error {
	payload := &models.RefreshRequest{}
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctx := c.UserContext()
	rtQueries := queries.RefreshTokenQueries{DB: database.DB}
	rt, err := rtQueries.GetRefreshTokenByToken(ctx, payload.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid refresh token"})
	}
	if rt.Expired(time.Now()) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Refresh token expired or revoked"})
	}

	userQueries := queries.UserQueries{DB: database.DB}
	user, err := userQueries.GetUserByID(ctx, rt.UserID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
	}

	if err := rtQueries.RevokeRefreshToken(ctx, rt.ID); err != nil {
		return queryError(c, err)
	}

	tokens, err := issueTokens(ctx, user)
	if err != nil {
		zap.L().Error("issue tokens", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate access token"})
	}
	return c.Status(fiber.StatusOK).JSON(tokens)
}

func UserLogout(c *fiber.Ctx) error {
	userID, _, err := utils.CurrentUser(c)
	if err != nil {
		return unauthorized(c, err)
	}

	body := struct {
		RefreshToken string `json:"refreshToken"`
	}{}
	_ = c.BodyParser(&body)

	rtQueries := queries.RefreshTokenQueries{DB: database.DB}
	if body.RefreshToken != "" {
		if err := rtQueries.RevokeRefreshTokenByToken(c.UserContext(), userID, body.RefreshToken); err != nil {
			return queryError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Refresh token revoked"})
	}

	if err := rtQueries.RevokeRefreshTokensByUser(c.UserContext(), userID); err != nil {
		return queryError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Logged out"})
}
