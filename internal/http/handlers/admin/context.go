package admin

import (
	handlershared "github.com/diecast-shop/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getAdminUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}
