package router

import (
	"net/http"

	"dunar/controllers"
	"dunar/models"

	"github.com/gin-gonic/gin"
)

// Permissioner blocks access when the logged admin's role lacks the
// capability. Unknown roles have no permissions at all.
func Permissioner(capability models.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, ok := controllers.GetAdminLogged(c)
		if !ok {
			controllers.RespondError(c, "não autenticado", http.StatusUnauthorized)
			c.Abort()
			return
		}
		if !models.HasPermission(admin.Role, capability) {
			controllers.RespondError(c, "sem permissão para esta ação", http.StatusForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
