package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"inno-quiz-service/internal/domain"
)

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Scope    string `form:"scope"`
}

func (h *Handler) register(c *gin.Context) {
	var draft domain.UserDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		abortWithError(c, h.log, bindingError(err))
		return
	}
	user, err := h.services.Users.Register(c.Request.Context(), draft)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		abortWithError(c, h.log, bindingError(err))
		return
	}
	token, err := h.services.Users.Login(c.Request.Context(), form.Username, form.Password, strings.Fields(form.Scope))
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

func (h *Handler) me(c *gin.Context) {
	user, _ := currentUser(c)
	c.JSON(http.StatusOK, user)
}

func (h *Handler) listUsers(c *gin.Context) {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	limit, err := queryInt(c, "limit", 100)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	users, err := h.services.Users.ListUsers(c.Request.Context(), actor(c), skip, limit)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) getUser(c *gin.Context) {
	id, err := pathID(c, "user_id")
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	user, err := h.services.Users.GetUser(c.Request.Context(), actor(c), id)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) updateUser(c *gin.Context) {
	id, err := pathID(c, "user_id")
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	var patch domain.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		abortWithError(c, h.log, bindingError(err))
		return
	}
	user, err := h.services.Users.UpdateUser(c.Request.Context(), actor(c), id, patch)
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, err := pathID(c, "user_id")
	if err != nil {
		abortWithError(c, h.log, err)
		return
	}
	if err := h.services.Users.DeleteUser(c.Request.Context(), actor(c), id); err != nil {
		abortWithError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
