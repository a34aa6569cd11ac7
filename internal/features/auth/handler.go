package auth

import (
	"context"
	"errors"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/platewise/platewise/internal/config"
	"github.com/platewise/platewise/internal/pkg/jwt"
	"github.com/platewise/platewise/internal/pkg/logger"
	"github.com/platewise/platewise/internal/pkg/response"
)

// MessageService is what account deletion needs from the message store.
type MessageService interface {
	DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) error
}

// FavoriteService is what account deletion needs from favorites.
type FavoriteService interface {
	DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) error
}

// RestaurantService is what owner deletion needs from the listing side.
type RestaurantService interface {
	DeleteAllForOwner(ctx context.Context, ownerID primitive.ObjectID) error
}

type Handler struct {
	repo        *Repository
	cfg         *config.Config
	fb          *firebaseauth.Client
	messages    MessageService
	favorites   FavoriteService
	restaurants RestaurantService
}

func NewHandler(repo *Repository, cfg *config.Config, fb *firebaseauth.Client, messages MessageService, favorites FavoriteService, restaurants RestaurantService) *Handler {
	return &Handler{
		repo:        repo,
		cfg:         cfg,
		fb:          fb,
		messages:    messages,
		favorites:   favorites,
		restaurants: restaurants,
	}
}

func (h *Handler) issueToken(accountID primitive.ObjectID, role string) (string, error) {
	expire := time.Duration(h.cfg.JWTExpireHours) * time.Hour
	return jwt.GenerateToken(accountID.Hex(), role, h.cfg.JWTSecret, expire)
}

// RegisterUser godoc
// @Summary Register a diner account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterUserRequest true "Registration data"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} response.ErrorBody
// @Router /user/register [post]
func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	if err := ValidateRegisterUser(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	existing, err := h.repo.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Internal(c, "internal server error")
		return
	}
	if existing != nil {
		response.BadRequest(c, "email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.Internal(c, "internal server error")
		return
	}

	user := &User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
	if err := h.repo.CreateUser(c.Request.Context(), user); err != nil {
		response.Internal(c, "internal server error")
		return
	}

	token, err := h.issueToken(user.ID, RoleUser)
	if err != nil {
		response.Internal(c, "internal server error")
		return
	}
	if err := h.repo.SetUserToken(c.Request.Context(), user.ID, token); err != nil {
		response.Internal(c, "internal server error")
		return
	}

	response.OK(c, AuthResponse{Token: token, User: user})
}

// LoginUser godoc
// @Summary Log in a diner
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} response.ErrorBody
// @Router /user/login [post]
func (h *Handler) LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}

	user, err := h.repo.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Internal(c, "internal server error")
		return
	}
	if user == nil {
		response.Unauthorized(c, "invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	// A fresh token replaces the stored one; earlier sessions stop validating.
	token, err := h.issueToken(user.ID, RoleUser)
	if err != nil {
		response.Internal(c, "internal server error")
		return
	}
	if err := h.repo.SetUserToken(c.Request.Context(), user.ID, token); err != nil {
		response.Internal(c, "internal server error")
		return
	}

	user.Token = token
	response.OK(c, AuthResponse{Token: token, User: user})
}

// GoogleSignIn godoc
// @Summary Sign in a diner with a Google ID token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body GoogleAuthRequest true "Google ID token"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} response.ErrorBody
// @Router /user/google [post]
func (h *Handler) GoogleSignIn(c *gin.Context) {
	var req GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}

	googleUser, err := h.verifyGoogle(c, req.GoogleIDToken)
	if err != nil {
		response.Unauthorized(c, "invalid google token")
		return
	}

	user, err := h.repo.GetUserByGoogleID(c.Request.Context(), googleUser.UID)
	if err != nil {
		response.Internal(c, "internal server error")
		return
	}
	if user == nil {
		// First sign-in creates the account.
		first, last := splitName(googleUser.Name)
		user = &User{
			Email:     googleUser.Email,
			GoogleID:  googleUser.UID,
			FirstName: first,
			LastName:  last,
			AvatarURL: googleUser.Picture,
		}
		if err := h.repo.CreateUser(c.Request.Context(), user); err != nil {
			response.Internal(c, "internal server error")
			return
		}
	}

	token, err := h.issueToken(user.ID, RoleUser)
	if err != nil {
		response.Internal(c, "internal server error")
		return
	}
	if err := h.repo.SetUserToken(c.Request.Context(), user.ID, token); err != nil {
		response.Internal(c, "internal server error")
		return
	}

	user.Token = token
	response.OK(c, AuthResponse{Token: token, User: user})
}

func (h *Handler) verifyGoogle(c *gin.Context, idToken string) (*GoogleUser, error) {
	if h.cfg.GoogleClientID != "" {
		return VerifyGoogleToken(c.Request.Context(), idToken, h.cfg.GoogleClientID)
	}

	// No client ID configured: verify through the Firebase Admin SDK instead.
	if h.fb == nil {
		return nil, errors.New("google sign-in is not configured")
	}
	decoded, err := h.fb.VerifyIDToken(c.Request.Context(), idToken)
	if err != nil {
		return nil, err
	}
	gu := &GoogleUser{UID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		gu.Email = email
	}
	if name, ok := decoded.Claims["name"].(string); ok {
		gu.Name = name
	}
	if picture, ok := decoded.Claims["picture"].(string); ok {
		gu.Picture = picture
	}
	return gu, nil
}

// Me godoc
// @Summary Current diner profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} User
// @Router /user/me [get]
func (h *Handler) Me(c *gin.Context) {
	user := c.MustGet("user").(*User)
	response.OK(c, user)
}

// BanUser godoc
// @Summary Ban or unban a diner
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Param uid path string true "User ID"
// @Param banned query bool false "Ban state, defaults to true"
// @Success 200 {object} map[string]string
// @Failure 404 {object} response.ErrorBody
// @Router /user/ban/{uid} [put]
func (h *Handler) BanUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("uid"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	banned := c.DefaultQuery("banned", "true") == "true"
	if err := h.repo.SetUserBanned(c.Request.Context(), id, banned); err != nil {
		response.NotFound(c, "user not found")
		return
	}
	response.Confirm(c, "user updated")
}

// DeleteUser godoc
// @Summary Delete a diner account and everything it authored
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Param uid path string true "User ID"
// @Success 200 {object} map[string]string
// @Router /user/{uid} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("uid"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	if err := h.messages.DeleteAllForUser(c.Request.Context(), id); err != nil {
		response.Internal(c, "internal server error")
		return
	}
	if err := h.favorites.DeleteAllForUser(c.Request.Context(), id); err != nil {
		response.Internal(c, "internal server error")
		return
	}
	if err := h.repo.DeleteUser(c.Request.Context(), id); err != nil {
		response.Internal(c, "internal server error")
		return
	}

	logger.Info("deleted user %s and cascaded messages/favorites", id.Hex())
	response.Confirm(c, "user deleted")
}

// RegisterOwner godoc
// @Summary Register an owner account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterOwnerRequest true "Registration data"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} response.ErrorBody
// @Router /owner/register [post]
func (h *Handler) RegisterOwner(c *gin.Context) {
	var req RegisterOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	if err := ValidateRegisterOwner(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	existing, err := h.repo.GetOwnerByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Internal(c, "internal server error")
		return
	}
	if existing != nil {
		response.BadRequest(c, "email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.Internal(c, "internal server error")
		return
	}

	owner := &Owner{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
	}
	if err := h.repo.CreateOwner(c.Request.Context(), owner); err != nil {
		response.Internal(c, "internal server error")
		return
	}

	token, err := h.issueToken(owner.ID, RoleOwner)
	if err != nil {
		response.Internal(c, "internal server error")
		return
	}
	if err := h.repo.SetOwnerToken(c.Request.Context(), owner.ID, token); err != nil {
		response.Internal(c, "internal server error")
		return
	}

	response.OK(c, AuthResponse{Token: token, User: owner})
}

// LoginOwner godoc
// @Summary Log in an owner
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} response.ErrorBody
// @Router /owner/login [post]
func (h *Handler) LoginOwner(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}

	owner, err := h.repo.GetOwnerByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Internal(c, "internal server error")
		return
	}
	if owner == nil {
		response.Unauthorized(c, "invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(req.Password)); err != nil {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	token, err := h.issueToken(owner.ID, RoleOwner)
	if err != nil {
		response.Internal(c, "internal server error")
		return
	}
	if err := h.repo.SetOwnerToken(c.Request.Context(), owner.ID, token); err != nil {
		response.Internal(c, "internal server error")
		return
	}

	owner.Token = token
	response.OK(c, AuthResponse{Token: token, User: owner})
}

// DeleteOwner godoc
// @Summary Delete an owner and all of their restaurants
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Param uid path string true "Owner ID"
// @Success 200 {object} map[string]string
// @Router /owner/{uid} [delete]
func (h *Handler) DeleteOwner(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("uid"))
	if err != nil {
		response.BadRequest(c, "invalid owner id")
		return
	}

	// Restaurant cascade also removes each restaurant's messages, reports
	// and favorites.
	if err := h.restaurants.DeleteAllForOwner(c.Request.Context(), id); err != nil {
		response.Internal(c, "internal server error")
		return
	}
	if err := h.repo.DeleteOwner(c.Request.Context(), id); err != nil {
		response.Internal(c, "internal server error")
		return
	}

	logger.Info("deleted owner %s and cascaded restaurants", id.Hex())
	response.Confirm(c, "owner deleted")
}

// LoginAdmin godoc
// @Summary Log in an admin
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} response.ErrorBody
// @Router /admin/login [post]
func (h *Handler) LoginAdmin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}

	admin, err := h.repo.GetAdminByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Internal(c, "internal server error")
		return
	}
	if admin == nil {
		response.Unauthorized(c, "invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	token, err := h.issueToken(admin.ID, RoleAdmin)
	if err != nil {
		response.Internal(c, "internal server error")
		return
	}
	if err := h.repo.SetAdminToken(c.Request.Context(), admin.ID, token); err != nil {
		response.Internal(c, "internal server error")
		return
	}

	admin.Token = token
	response.OK(c, AuthResponse{Token: token, User: admin})
}

func splitName(full string) (string, string) {
	for i := len(full) - 1; i >= 0; i-- {
		if full[i] == ' ' {
			return full[:i], full[i+1:]
		}
	}
	return full, ""
}
