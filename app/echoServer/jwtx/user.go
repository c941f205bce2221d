package jwtx

import "github.com/labstack/echo/v4"

// UserID returns the authenticated user id placed in context by the claims
// middleware, 0 when unauthenticated.
func UserID(c echo.Context) int64 {
	uid, _ := c.Get("user_id").(int64)
	return uid
}

// IsAdmin reports the role claim; authorization decisions in services
// re-check against the database.
func IsAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "admin"
}
