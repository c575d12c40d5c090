package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/staff"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, staff.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, staff.ErrInvalidToken)
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, staff.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// RequireManager requires manager or owner role
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := ActorFromRequest(r)
		if err != nil {
			response.HandleError(w, staff.ErrInvalidToken)
			return
		}

		if !actor.CanManageAttendance() {
			response.HandleError(w, staff.ErrNotPermitted)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ActorFromRequest builds the acting identity from the verified token
// claims. Handlers call this after AuthRequired has run.
func ActorFromRequest(r *http.Request) (staff.Actor, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return staff.Actor{}, staff.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return staff.Actor{}, staff.ErrInvalidToken
	}

	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return staff.Actor{}, staff.ErrInvalidToken
	}

	return staff.Actor{UserID: userID, Role: staff.Role(role)}, nil
}
