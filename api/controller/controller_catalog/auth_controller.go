package controller_catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/listny/listny-backend/api/controller"
	"github.com/listny/listny-backend/domain"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_interface"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
)

type AuthController struct {
	UserUsecase catalog_interface.UserUsecase
}

func NewAuthController(uc catalog_interface.UserUsecase) *AuthController {
	return &AuthController{UserUsecase: uc}
}

// Callback 登录回调：首次登录的用户建档
func (c *AuthController) Callback(ctx *gin.Context) {
	var input catalog_models.AuthCallbackInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		controller.ErrorResponse(ctx, http.StatusBadRequest, string(domain.KindValidation), err.Error())
		return
	}

	if _, err := c.UserUsecase.SyncUser(ctx.Request.Context(), input); err != nil {
		controller.HandleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
