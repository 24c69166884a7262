package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	verificationTokenTTL = 24 * time.Hour
	resetTokenTTL        = time.Hour
)

// Signup handles POST /api/auth/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username, email, and password are required"))
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewValidationError("User already exists"))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     models.RoleUser,
	}
	if createErr := s.userRepo.Create(ctx, user); createErr != nil {
		return respondAppError(c, createErr)
	}

	if err := s.issueVerification(c, user.ID, user.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created, check your email to verify your address",
		"user":    user,
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	if user.EmailVerifiedAt == nil {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Email address is not verified"))
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// OAuthLogin handles POST /api/auth/oauth
// The frontend completes the provider flow and posts the verified identity
// here; we upsert the account link and issue our own token.
func (s *Server) OAuthLogin(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Provider          string `json:"provider"`
		ProviderAccountID string `json:"provider_account_id"`
		Email             string `json:"email"`
		Username          string `json:"username"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Provider == "" || req.ProviderAccountID == "" || req.Email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Provider, provider account ID, and email are required"))
	}

	account, err := s.accountRepo.GetByProvider(ctx, req.Provider, req.ProviderAccountID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	var user *models.User
	if account != nil {
		user, err = s.userRepo.GetByID(ctx, account.UserID)
		if err != nil {
			return respondAppError(c, err)
		}
	} else {
		// Link to an existing user by email, or provision a new one.
		user, err = s.userRepo.GetByEmail(ctx, req.Email)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if user == nil {
			user, err = s.provisionOAuthUser(c, req.Email, req.Username)
			if err != nil {
				return respondAppError(c, err)
			}
		}
		if createErr := s.accountRepo.Create(ctx, &models.Account{
			UserID:            user.ID,
			Provider:          req.Provider,
			ProviderAccountID: req.ProviderAccountID,
		}); createErr != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, createErr)
		}
	}

	// Provider identities arrive with the email already verified.
	if user.EmailVerifiedAt == nil {
		now := time.Now()
		user.EmailVerifiedAt = &now
		if updateErr := s.userRepo.Update(ctx, user); updateErr != nil {
			return respondAppError(c, updateErr)
		}
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// provisionOAuthUser creates a user for a first-time OAuth sign-in. The
// password is random and unusable for credential login.
func (s *Server) provisionOAuthUser(c *fiber.Ctx, email, username string) (*models.User, error) {
	ctx := c.Context()

	if username == "" {
		username = "writer_" + uuid.New().String()[:8]
	}
	if existing, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		username = username + "_" + uuid.New().String()[:8]
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	now := time.Now()
	user := &models.User{
		Username:        username,
		Email:           email,
		Password:        string(hashed),
		Role:            models.RoleUser,
		EmailVerifiedAt: &now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyEmail handles GET /api/auth/verify?token=...
func (s *Server) VerifyEmail(c *fiber.Ctx) error {
	ctx := c.Context()

	tokenValue := c.Query("token")
	if tokenValue == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Verification token is required"))
	}

	token, err := s.tokenRepo.GetVerification(ctx, tokenValue)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if token == nil || token.Expired() {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid or expired verification token"))
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		return respondAppError(c, err)
	}

	now := time.Now()
	user.EmailVerifiedAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return respondAppError(c, err)
	}

	if err := s.tokenRepo.DeleteVerification(ctx, token.ID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"message": "Email verified",
		"user":    user,
	})
}

// ResendVerification handles POST /api/auth/verify/resend
func (s *Server) ResendVerification(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email is required"))
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	// Do not reveal whether the address exists.
	if user != nil && user.EmailVerifiedAt == nil {
		if err := s.issueVerification(c, user.ID, user.Email); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "If the address needs verification, a new link has been sent",
	})
}

// ForgotPassword handles POST /api/auth/password/forgot
func (s *Server) ForgotPassword(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email is required"))
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	// Do not reveal whether the address exists.
	if user != nil {
		reset := &models.PasswordResetToken{
			Token:     uuid.New().String(),
			UserID:    user.ID,
			Email:     user.Email,
			ExpiresAt: time.Now().Add(resetTokenTTL),
		}
		if err := s.tokenRepo.CreateReset(ctx, reset); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		// A send failure must not break the uniform response below.
		if err := s.mailer.SendPasswordReset(user.Email, reset.Token); err != nil {
			middleware.Logger.WarnContext(c.UserContext(),
				"failed to send password reset email", "error", err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "If the address exists, a reset link has been sent",
	})
}

// ResetPassword handles POST /api/auth/password/reset
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil || req.Token == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Token and password are required"))
	}

	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	token, err := s.tokenRepo.GetReset(ctx, req.Token)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if token == nil || token.Expired() {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid or expired reset token"))
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		return respondAppError(c, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	user.Password = string(hashed)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return respondAppError(c, err)
	}

	if err := s.tokenRepo.DeleteReset(ctx, token.ID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"message": "Password updated",
	})
}

// Refresh handles POST /api/auth/refresh
// Exchanges a still-valid token for a fresh one and revokes the old JTI.
func (s *Server) Refresh(c *fiber.Ctx) error {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
	}

	claims, err := s.parseToken(tokenString)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError(err.Error()))
	}

	userID, err := userIDFromClaims(claims)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError(err.Error()))
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Unknown user"))
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	s.blacklistClaims(c, claims)

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout handles POST /api/auth/logout
func (s *Server) Logout(c *fiber.Ctx) error {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
	}

	claims, err := s.parseToken(tokenString)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError(err.Error()))
	}

	s.blacklistClaims(c, claims)

	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}

// blacklistClaims revokes the token's JTI in Redis until the token would
// have expired on its own.
func (s *Server) blacklistClaims(c *fiber.Ctx, claims jwt.MapClaims) {
	if s.redis == nil {
		return
	}
	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return
	}

	ttl := tokenLifetime
	if exp, ok := claims["exp"].(float64); ok {
		if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
			ttl = remaining
		}
	}
	if err := s.redis.Set(c.Context(), cache.BlacklistKey(jti), "1", ttl).Err(); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to blacklist token", "error", err)
	}
}

// issueVerification creates a fresh verification token and mails it.
func (s *Server) issueVerification(c *fiber.Ctx, userID uint, email string) error {
	token := &models.VerificationToken{
		Token:     uuid.New().String(),
		UserID:    userID,
		Email:     email,
		ExpiresAt: time.Now().Add(verificationTokenTTL),
	}
	if err := s.tokenRepo.CreateVerification(c.Context(), token); err != nil {
		return err
	}
	// Delivery is fire and forget; the token row already exists, so the
	// user can still request a resend.
	if err := s.mailer.SendVerification(email, token.Token); err != nil {
		middleware.Logger.WarnContext(c.UserContext(),
			"failed to send verification email", "error", err)
	}
	return nil
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// generateToken creates a JWT token for the given user ID and username
func (s *Server) generateToken(userID uint, username string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      tokenIssuer,
		"aud":      tokenAudience,
		"exp":      now.Add(tokenLifetime).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      s.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
