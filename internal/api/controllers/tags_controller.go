package controllers

import (
	"github.com/gin-gonic/gin"

	"mealforge/internal/services"
	"mealforge/pkg/utils"
)

type TagController struct {
	tagService services.TagServiceInterface
}

func NewTagController(tagService services.TagServiceInterface) *TagController {
	return &TagController{
		tagService: tagService,
	}
}

// ListAllTagsHandler godoc
// @Summary List dietary preference tags
// @Tags Tags
// @Produce json
// @Router /tags [get]
func (tc *TagController) ListAllTagsHandler(c *gin.Context) {
	page, pageSize, ok := pageParams(c)
	if !ok {
		return
	}

	tags, err := tc.tagService.GetAllTags(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, tags, "Fetched tags successfully")
}
