package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	restaurantID := int64(3)
	branchID := int64(9)

	token, err := GenerateAccessToken(42, "Aigerim", "manager", &restaurantID, &branchID)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "Aigerim", claims.Name)
	require.Equal(t, "manager", claims.Role)
	require.Equal(t, restaurantID, *claims.RestaurantID)
	require.Equal(t, branchID, *claims.BranchID)
}

func TestAccessTokenWithoutTenantScope(t *testing.T) {
	token, err := GenerateAccessToken(1, "Root", "admin", nil, nil)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	require.Nil(t, claims.RestaurantID)
	require.Nil(t, claims.BranchID)
}

func TestValidateToken_RejectsTamperedToken(t *testing.T) {
	token, err := GenerateAccessToken(42, "Aigerim", "manager", nil, nil)
	require.NoError(t, err)

	tampered := token[:len(token)-3] + "xyz"
	_, err = ValidateToken(tampered)
	require.Error(t, err)

	_, err = ValidateToken("not.a.token")
	require.Error(t, err)
}

func TestIsValidEmail(t *testing.T) {
	require.True(t, IsValidEmail("staff@tap2serve.io"))
	require.True(t, IsValidEmail("Staff.Name+tag@Example.COM"))
	require.False(t, IsValidEmail("no-at-sign"))
	require.False(t, IsValidEmail("missing@tld"))
	require.False(t, IsValidEmail(""))
}
