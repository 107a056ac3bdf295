package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *HTTPServer) root(c *gin.Context) {
	c.String(http.StatusOK, "Todo API root")
}

func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *HTTPServer) signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidEmail),
			errors.Is(err, common.ErrInvalidPassword),
			errors.Is(err, common.ErrorAlreadyExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			s.logger.Error(c.Request.Context(), "signup failed", "error", err)
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, user.Public())
}

func (s *HTTPServer) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	user, token, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			c.Status(http.StatusUnauthorized)
			return
		}
		s.logger.Error(c.Request.Context(), "login failed", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header(s.tokenHeader, token)
	c.JSON(http.StatusOK, user.Public())
}

func (s *HTTPServer) logout(c *gin.Context) {
	_, token := identity(c)

	if err := s.gate.Logout(c.Request.Context(), token); err != nil {
		s.logger.Error(c.Request.Context(), "logout failed", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) logoutAll(c *gin.Context) {
	user, _ := identity(c)

	n, err := s.gate.LogoutAll(c.Request.Context(), user.ID)
	if err != nil {
		s.logger.Error(c.Request.Context(), "logout everywhere failed", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	s.logger.Info(c.Request.Context(), "sessions revoked", "user_id", user.ID, "count", n)
	c.Status(http.StatusNoContent)
}
