package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aptigenius-backend/internal/service"
)

type UserController struct {
	UserService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{UserService: userService}
}

func (uc *UserController) GetAllUsers(c *gin.Context) {
	users, err := uc.UserService.GetAllUsers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// DeleteUser removes the account only; the user's results are kept.
func (uc *UserController) DeleteUser(c *gin.Context) {
	if err := uc.UserService.DeleteUser(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
