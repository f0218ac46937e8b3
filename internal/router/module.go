package router

import "github.com/gin-gonic/gin"

// Module registers its routes on the group it is given: the /api/v1 group for
// Registry.Add, the engine root for Registry.AddRoot.
type Module interface {
	Register(rg *gin.RouterGroup)
}
