package router

import (
	"net/http"

	"github.com/bank-suite/cards-service/internal/adapter/http/controller"
	"github.com/bank-suite/cards-service/internal/adapter/http/middleware"
	"github.com/bank-suite/cards-service/internal/domain"
	"github.com/gorilla/mux"
)

type Controllers struct {
	Auth     *controller.AuthController
	User     *controller.UserController
	Card     *controller.CardController
	Transfer *controller.TransferController
}

// New assembles the HTTP surface. Two middleware chains cover every
// protected route: auth for any authenticated user, admin for routes
// that additionally demand the ADMIN role.
func New(parser middleware.TokenParser, c Controllers) *mux.Router {
	r := mux.NewRouter()

	auth := middleware.BearerAuth(parser)
	requireAdmin := middleware.RequireRole(domain.RoleAdmin)
	admin := func(next http.Handler) http.Handler {
		return auth(requireAdmin(next))
	}

	r.HandleFunc("/health", health).Methods(http.MethodGet)

	c.Auth.RegisterRoutes(r)
	c.User.RegisterRoutes(r, admin)
	c.Card.RegisterRoutes(r, auth, admin)
	c.Transfer.RegisterRoutes(r, auth)

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
