package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-account-service/internal/interface/http"
	"github.com/oksasatya/go-account-service/internal/interface/middleware"
)

// AccountModule wires account HTTP handlers and bearer auth into routes.
// Public: POST /login, POST /user
// Protected: GET /user, GET /user/search, PUT /user/:id, DELETE /user/:id
type AccountModule struct {
	Handler *handlers.AccountHandler
	Tokens  middleware.TokenVerifier
}

func NewAccountModule(h *handlers.AccountHandler, tokens middleware.TokenVerifier) *AccountModule {
	return &AccountModule{Handler: h, Tokens: tokens}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	rg.POST("/login", m.Handler.Login)
	rg.POST("/user", m.Handler.Register)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Tokens))
	{
		auth.GET("/user", m.Handler.List)
		auth.GET("/user/search", m.Handler.Search)
		auth.PUT("/user/:id", m.Handler.Update)
		auth.DELETE("/user/:id", m.Handler.Delete)
	}
}
