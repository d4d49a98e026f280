package handlers

import (
	"net/http"

	"tap2serve_backend/internal/middleware"
	"tap2serve_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// requireTenant pulls the restaurant scope from the token claims and responds
// with 403 when it is missing. Callers must return immediately on !ok.
func requireTenant(c *gin.Context) (int64, bool) {
	restaurantID, ok := middleware.RestaurantID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Token is not scoped to a restaurant.", ""))
		return 0, false
	}
	return restaurantID, true
}

// pathID parses a path parameter as an int64 id and responds with 400 when it
// is malformed.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := utils.StrToInt64(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+name+" format.", err.Error()))
		return 0, false
	}
	return id, true
}

// optionalBranchID reads the branch_id query parameter, if present.
func optionalBranchID(c *gin.Context) (*int64, bool) {
	branchStr := c.Query("branch_id")
	if branchStr == "" {
		return nil, true
	}
	branchID, err := utils.StrToInt64(branchStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid branch_id format.", err.Error()))
		return nil, false
	}
	return &branchID, true
}
