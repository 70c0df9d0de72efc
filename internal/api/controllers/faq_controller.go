package controllers

import (
	"github.com/gin-gonic/gin"

	"yoplan/internal/services"
	"yoplan/pkg/utils"
)

type FaqController struct {
	faqService services.FaqServiceInterface
}

func NewFaqController(faqService services.FaqServiceInterface) *FaqController {
	return &FaqController{
		faqService: faqService,
	}
}

func (f *FaqController) ListFaqs(c *gin.Context) {
	faqs, err := f.faqService.ListFaqs(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, faqs, "")
}
