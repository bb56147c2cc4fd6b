package httputil

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// RequiredParam extracts a required parameter and returns an error if missing
func RequiredParam(c *gin.Context, param string) (string, error) {
	value := c.Param(param)
	if value == "" {
		return "", fmt.Errorf("required parameter '%s' is missing", param)
	}
	return value, nil
}
