package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"voicehub/internal/model"
	"voicehub/internal/store"
	"voicehub/internal/tenant"
	"voicehub/pkg/database"
	"voicehub/pkg/jwtutil"
	"voicehub/pkg/logger"
	"voicehub/prometheus"
)

// Login authenticates a user and issues a JWT. When the user holds
// memberships, the token carries the active organization resolved from the
// preference cookie and the live membership list; with zero memberships the
// response flags that onboarding is still pending.
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	result := database.GetDB().Where("email = ?", req.Email).First(&user)
	if result.Error != nil {
		log.Warn("User not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	memberships := store.NewMembershipStore(database.GetDB())
	list, err := memberships.MembershipsForUser(c.Request().Context(), user.ID)
	if err != nil {
		log.Error("Failed to load memberships", zap.Error(err))
		prometheus.RecordAuthError("membership_lookup_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load memberships"})
	}

	resolution, err := tenant.ResolveActiveOrganization(list, tenant.ReadPreference(c))
	if err != nil {
		// Zero memberships: authenticated but not onboarded yet.
		token, tokenErr := jwtutil.GenerateToken(user.Email, user.ID)
		if tokenErr != nil {
			log.Error("Failed to generate token", zap.Error(tokenErr))
			prometheus.RecordAuthError("token_generation_failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
		}
		prometheus.IncreaseActiveTokens()
		log.Info("User logged in without organization", zap.String("email", user.Email))
		return c.JSON(http.StatusOK, echo.Map{
			"token":            token,
			"needs_onboarding": true,
			"user": map[string]interface{}{
				"id":    user.ID,
				"email": user.Email,
			},
		})
	}

	active := resolution.Membership
	orgID := active.OrganizationID
	token, err := jwtutil.GenerateTokenWithOrg(user.Email, user.ID, &orgID, active.OrganizationName, active.Role.String())
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.IncreaseActiveTokens()
	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.Uint("org_id", orgID),
		zap.String("role", active.Role.String()),
		zap.String("provenance", string(resolution.Provenance)))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
		},
		"organization": map[string]interface{}{
			"id":   active.OrganizationID,
			"name": active.OrganizationName,
			"role": active.Role.String(),
		},
	})
}

// Register creates a new user account. Accounts start in the "invited"
// status until the first organization membership exists.
func Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Email == "" || req.Password == "" {
		log.Warn("Invalid registration data",
			zap.String("email", req.Email),
			zap.Bool("password_provided", req.Password != ""))
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var existingUser model.User
	result := database.GetDB().Where("email = ?", req.Email).First(&existingUser)
	if result.Error == nil {
		log.Warn("User already exists", zap.String("email", req.Email))
		prometheus.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	user := model.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		Name:     req.Name,
		Status:   model.UserStatusInvited,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&user); result.Error != nil {
		log.Error("Failed to create user", zap.Error(result.Error))
		prometheus.RecordAuthError("user_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	log.Info("User registered", zap.String("email", user.Email))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user": map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

// GetProfile returns the authenticated user's profile.
func GetProfile(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if result := database.GetDB().First(&user, userID); result.Error != nil {
		log.Error("User not found", zap.Uint("user_id", userID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the authenticated user's display name.
func UpdateProfile(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse profile update", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Model(&model.User{}).Where("id = ?", userID).Update("name", req.Name).Error; err != nil {
		log.Error("Failed to update profile", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update profile"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Profile updated successfully"})
}

// ChangePassword verifies the current password and stores a new hash.
func ChangePassword(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse password change", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new_password is required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if result := database.GetDB().First(&user, userID); result.Error != nil {
		log.Error("User not found", zap.Uint("user_id", userID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		log.Warn("Invalid current password", zap.Uint("user_id", userID))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "current password is incorrect"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to change password"})
	}

	if err := database.GetDB().Model(&user).Update("password", string(hashed)).Error; err != nil {
		log.Error("Failed to update password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to change password"})
	}

	log.Info("Password changed", zap.Uint("user_id", userID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Password changed successfully"})
}

// MetricsHandler serves the Prometheus metrics endpoint.
func MetricsHandler(c echo.Context) error {
	handler := prometheus.GetPrometheusHandler()
	handler.ServeHTTP(c.Response(), c.Request())
	return nil
}
