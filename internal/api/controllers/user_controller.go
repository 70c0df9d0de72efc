package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"yoplan/internal/models/request_models"
	"yoplan/internal/services"
	"yoplan/pkg/middleware"
	"yoplan/pkg/utils"
)

type UserController struct {
	userService services.UserServiceInterface
}

func NewUserController(userService services.UserServiceInterface) *UserController {
	return &UserController{
		userService: userService,
	}
}

// GetUser godoc
// @Summary Public profile by nickname
// @Tags Users
// @Produce json
// @Param nickname path string true "Nickname"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/users/{nickname} [get]
func (u *UserController) GetUser(c *gin.Context) {
	nickname := c.Param("nickname")
	if nickname == "" {
		utils.RespondError(c, http.StatusBadRequest, "Nickname is required")
		return
	}

	user, err := u.userService.GetByNickname(c.Request.Context(), nickname)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, user, "")
}

// UpdateUser godoc
// @Summary Update the current user's nickname or password
// @Tags Users
// @Accept json
// @Produce json
// @Param request body request_models.UpdateUserRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/users/update [put]
func (u *UserController) UpdateUser(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrUnauthorized)
		return
	}

	var req request_models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	user, err := u.userService.UpdateUser(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, user, "회원 정보가 수정되었습니다.")
}

func (u *UserController) GetUserBookmarks(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrUnauthorized)
		return
	}

	bookmarks, err := u.userService.BookmarksOf(c.Request.Context(), userID, c.Param("nickname"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, bookmarks, "")
}
