package handler

import (
	"net/http"
	"time"

	"bangazon-api/internal/model"
	"bangazon-api/pkg/database"
	"bangazon-api/pkg/jwtutil"
	"bangazon-api/pkg/logger"
	"bangazon-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Register creates a user plus its customer profile and issues a token
func Register(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.AuthAttemptsCounter.Inc()

	var req struct {
		Username    string `json:"username"`
		Password    string `json:"password"`
		Email       string `json:"email"`
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		Address     string `json:"address"`
		PhoneNumber string `json:"phone_number"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Username == "" || req.Password == "" || req.Email == "" {
		log.Error("Invalid registration data",
			zap.String("username", req.Username),
			zap.Bool("password_provided", req.Password != ""))
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username, email and password are required"})
	}

	// Check if user already exists
	defer prometheus.TrackDBOperation("query")(time.Now())
	var existing model.User
	result := database.GetDB().Where("email = ? OR username = ?", req.Email, req.Username).First(&existing)
	if result.Error == nil {
		log.Error("User already exists", zap.String("email", req.Email))
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusConflict, echo.Map{"error": "username or email already registered"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	user := model.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	customer := model.Customer{
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if result := tx.Create(&user); result.Error != nil {
			return result.Error
		}
		customer.UserID = user.ID
		if result := tx.Create(&customer); result.Error != nil {
			return result.Error
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to create user", zap.Error(err))
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	token, err := jwtutil.GenerateToken(user.Email, user.ID, customer.ID)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User registered",
		zap.String("username", user.Username),
		zap.Uint("customer_id", customer.ID))
	return c.JSON(http.StatusCreated, echo.Map{
		"token": token,
		"user": map[string]interface{}{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
		},
		"customer_id": customer.ID,
	})
}

// Login verifies credentials and issues a token. /api-token-auth routes here
// as well.
func Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.AuthAttemptsCounter.Inc()

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	query := database.GetDB()
	if req.Email != "" {
		query = query.Where("email = ?", req.Email)
	} else {
		query = query.Where("username = ?", req.Username)
	}
	if result := query.First(&user); result.Error != nil {
		log.Error("User not found", zap.String("email", req.Email), zap.String("username", req.Username))
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Error("Invalid password", zap.String("username", user.Username))
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	var customer model.Customer
	if result := database.GetDB().Where("user_id = ?", user.ID).First(&customer); result.Error != nil {
		log.Error("Customer profile not found", zap.Uint("user_id", user.ID), zap.Error(result.Error))
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusNotFound, echo.Map{"error": "customer profile not found"})
	}

	token, err := jwtutil.GenerateToken(user.Email, user.ID, customer.ID)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.AuthErrorsCounter.Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in", zap.String("username", user.Username))
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": map[string]interface{}{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
		"customer_id": customer.ID,
	})
}
