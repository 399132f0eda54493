package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/atlastrek/tours-api/internal/domain/entity"
	"github.com/atlastrek/tours-api/pkg/apierror"
)

// RestrictTo allows only principals whose role is in the permitted set.
// Must run after Protect.
func RestrictTo(logger *logrus.Logger, env string, roles ...entity.Role) gin.HandlerFunc {
	permitted := make(map[entity.Role]bool, len(roles))
	for _, r := range roles {
		permitted[r] = true
	}
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			apierror.Respond(c, logger, env, apierror.New(apierror.Unauthenticated, "you are not logged in, please log in to get access"))
			return
		}
		if !permitted[u.Role] {
			apierror.Respond(c, logger, env, apierror.New(apierror.Forbidden, "you do not have permission to perform this action"))
			return
		}
		c.Next()
	}
}
