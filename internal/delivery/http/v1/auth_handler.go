package v1

import (
	"net/http"

	"employee-onboarding-backend/internal/delivery/http/response"
	"employee-onboarding-backend/internal/domain"
	"employee-onboarding-backend/pkg/apperror"
	"employee-onboarding-backend/pkg/storage"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC    domain.AuthUsecase
	profileUC domain.ProfileUsecase
}

// NewAuthHandler registers identity and profile routes. Sign-up and sign-in
// happen against the hosted auth service; this API only sees its tokens.
func NewAuthHandler(protected, admin *gin.RouterGroup, authUC domain.AuthUsecase, profileUC domain.ProfileUsecase) {
	handler := &AuthHandler{authUC: authUC, profileUC: profileUC}

	protected.GET("/auth/me", handler.Me)

	profile := protected.Group("/profile")
	{
		profile.GET("", handler.GetProfile)
		profile.PATCH("", handler.UpdateProfile)
		profile.POST("/avatar", handler.UploadAvatar)
		profile.GET("/avatar", handler.AvatarURL)
	}

	admin.PUT("/users/:id/role", handler.SetRole)
}

// Me godoc
// @Summary      Current user
// @Description  Returns the profile and role of the authenticated caller
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Current user", user)
}

// GetProfile godoc
// @Summary      Get my profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Router       /profile [get]
// @Security     BearerAuth
func (h *AuthHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileUC.GetMe(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile", profile)
}

// UpdateProfile godoc
// @Summary      Update my profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      domain.UpdateProfileRequest  true  "Name and phone"
// @Success      200   {object}  response.Response{data=domain.Profile}
// @Failure      400   {object}  response.Response
// @Router       /profile [patch]
// @Security     BearerAuth
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}
	profile, err := h.profileUC.UpdateMe(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", profile)
}

// UploadAvatar godoc
// @Summary      Upload profile photo
// @Description  JPG, PNG or WEBP up to 2 MB; stored re-encoded as JPEG
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Photo"
// @Success      200   {object}  response.Response{data=domain.Profile}
// @Failure      400   {object}  response.Response
// @Failure      413   {object}  response.Response
// @Router       /profile/avatar [post]
// @Security     BearerAuth
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	filename, data, err := readUpload(c, "file", storage.PhotoRules.MaxSize)
	if err != nil {
		c.Error(err)
		return
	}
	profile, err := h.profileUC.UploadAvatar(c.Request.Context(), filename, data)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Avatar updated", profile)
}

// AvatarURL godoc
// @Summary      Signed URL of my profile photo
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profile/avatar [get]
// @Security     BearerAuth
func (h *AuthHandler) AvatarURL(c *gin.Context) {
	url, err := h.profileUC.AvatarURL(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Avatar URL", gin.H{"url": url})
}

// SetRole godoc
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "User ID"
// @Param        body  body      domain.SetRoleRequest   true  "Role"
// @Success      200   {object}  response.Response{data=domain.Profile}
// @Failure      403   {object}  response.Response
// @Router       /admin/users/{id}/role [put]
// @Security     BearerAuth
func (h *AuthHandler) SetRole(c *gin.Context) {
	var req domain.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("role must be 'candidate' or 'admin'"))
		return
	}
	profile, err := h.authUC.AssignRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Role updated", profile)
}
