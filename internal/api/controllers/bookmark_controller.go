package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"yoplan/internal/models/request_models"
	"yoplan/internal/services"
	"yoplan/pkg/middleware"
	"yoplan/pkg/utils"
)

type BookmarkController struct {
	bookmarkService services.BookmarkServiceInterface
}

func NewBookmarkController(bookmarkService services.BookmarkServiceInterface) *BookmarkController {
	return &BookmarkController{
		bookmarkService: bookmarkService,
	}
}

// AddBookmark godoc
// @Summary Bookmark a plan
// @Tags Bookmarks
// @Accept json
// @Produce json
// @Param request body request_models.BookmarkRequest true "Plan to bookmark"
// @Success 201 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/bookmarks [post]
func (b *BookmarkController) AddBookmark(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrUnauthorized)
		return
	}

	var req request_models.BookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	bookmark, err := b.bookmarkService.AddBookmark(c.Request.Context(), userID, req.PlanID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, bookmark, "북마크에 추가되었습니다.")
}

// RemoveBookmark godoc
// @Summary Remove a bookmark
// @Tags Bookmarks
// @Param planId path string true "Plan id"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/bookmarks/{planId} [delete]
func (b *BookmarkController) RemoveBookmark(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrUnauthorized)
		return
	}

	if err := b.bookmarkService.RemoveBookmark(c.Request.Context(), userID, c.Param("planId")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "북마크가 삭제되었습니다.")
}

func (b *BookmarkController) ListBookmarks(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrUnauthorized)
		return
	}

	bookmarks, err := b.bookmarkService.ListBookmarks(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, bookmarks, "")
}
