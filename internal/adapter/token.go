package adapter

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenExpired reports whether token is a JWT whose exp claim has already
// passed. Tokens are treated as opaque by contract, so anything that does
// not parse as a JWT, or parses without an exp claim, is assumed still
// valid: the backend remains the authority. The claim is read without
// signature verification; this is a local heuristic used to skip doomed
// who-am-I calls, never a security decision.
func TokenExpired(token string, now time.Time) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(now)
}

// newEmployeeID synthesizes the employee_id the registration endpoint
// requires but the registration form does not collect.
func newEmployeeID() string {
	return "EMP-" + uuid.NewString()[:8]
}
