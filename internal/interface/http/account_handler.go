package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/pkg/response"
	"github.com/oksasatya/go-account-service/pkg/validation"
)

const (
	MsgUpdated  = "User info updated successfully."
	MsgDeleted  = "User Info deleted successfully"
	msgInternal = "internal server error"
)

type AccountHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewAccountHandler(svc *userapp.Service, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{Svc: svc, Logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Mobile   string `json:"mobile"`
}

type updateRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
	Mobile   *string `json:"mobile"`
}

type deleteResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// bindJSON decodes the body into dst. An empty body leaves dst zero so that
// required-field checks report the missing field.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		response.Abort(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return false
	}
	return true
}

// fail maps service errors onto HTTP statuses.
func (h *AccountHandler) fail(c *gin.Context, err error) {
	var verr *userapp.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Abort(c, http.StatusBadRequest, verr.Message, map[string]string{verr.Field: verr.Message})
	case errors.Is(err, userapp.ErrConflict):
		response.Abort(c, http.StatusConflict, userapp.MsgConflict, nil)
	case errors.Is(err, userapp.ErrNotFound):
		response.Abort(c, http.StatusBadRequest, userapp.MsgNotFound, nil)
	case errors.Is(err, userapp.ErrInvalidCredentials):
		response.Abort(c, http.StatusBadRequest, userapp.MsgInvalidCredentials, nil)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).WithFields(logrus.Fields{
				"path":       c.FullPath(),
				"request_id": c.GetString("request_id"),
			}).Error("request failed")
		}
		response.Abort(c, http.StatusInternalServerError, msgInternal, nil)
	}
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Mobile:   req.Mobile,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// List returns raw account records, optionally filtered by ?id=.
func (h *AccountHandler) List(c *gin.Context) {
	var id *string
	if v, ok := c.GetQuery("id"); ok && v != "" {
		id = &v
	}
	accounts, err := h.Svc.List(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *AccountHandler) Update(c *gin.Context) {
	var req updateRequest
	if !bindJSON(c, &req) {
		return
	}
	patch := entity.AccountPatch{FullName: req.FullName, Email: req.Email, Mobile: req.Mobile}
	if _, err := h.Svc.Update(c.Request.Context(), c.Param("id"), patch); err != nil {
		h.fail(c, err)
		return
	}
	c.String(http.StatusOK, MsgUpdated)
}

func (h *AccountHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, deleteResponse{Status: true, Message: MsgDeleted})
}

// Search runs a full-text query over accounts: ?q=<text>&size=<n>.
func (h *AccountHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, hits)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
