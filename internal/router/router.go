package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pony-express/internal/config"
	"pony-express/internal/handler"
	"pony-express/internal/middleware"
	"pony-express/internal/websocket"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Account *handler.AccountHandler
	Chat    *handler.ChatHandler
	Request *handler.RequestHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers, hub *websocket.Hub) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// The websocket route stays outside the timeout group: TimeoutHandler
	// does not support hijacking.
	if hub != nil {
		r.With(authMiddleware.RequireAuth).Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			websocket.ServeWS(hub, w, r)
		})
	}

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/registration", h.Auth.Register)
			auth.Post("/token", h.Auth.Token)
			auth.Post("/web/login", h.Auth.WebLogin)
			auth.With(authMiddleware.RequireAuth).Post("/web/logout", h.Auth.WebLogout)
		})

		api.Route("/accounts", func(accounts chi.Router) {
			accounts.Get("/", h.Account.List)
			accounts.With(authMiddleware.RequireAuth).Get("/me", h.Account.Me)
			accounts.With(authMiddleware.RequireAuth).Put("/me", h.Account.UpdateMe)
			accounts.With(authMiddleware.RequireAuth).Put("/me/password", h.Account.UpdatePassword)
			accounts.With(authMiddleware.RequireAuth).Delete("/me", h.Account.DeleteMe)
			accounts.Get("/{account_id}", h.Account.GetByID)
		})

		api.Route("/chats", func(chats chi.Router) {
			chats.Get("/", h.Chat.List)
			chats.With(authMiddleware.RequireAuth).Post("/", h.Chat.Create)
			chats.Get("/{chat_id}", h.Chat.GetByID)
			chats.Put("/{chat_id}", h.Chat.Update)
			chats.Delete("/{chat_id}", h.Chat.Delete)
			chats.Get("/{chat_id}/messages", h.Chat.Messages)
			chats.With(authMiddleware.RequireAuth).Post("/{chat_id}/messages", h.Chat.PostMessage)
			chats.Put("/{chat_id}/messages/{message_id}", h.Chat.UpdateMessage)
			chats.Delete("/{chat_id}/messages/{message_id}", h.Chat.DeleteMessage)
			chats.Get("/{chat_id}/accounts", h.Chat.Members)
			chats.Post("/{chat_id}/accounts", h.Chat.AddMember)
			chats.Delete("/{chat_id}/accounts/{account_id}", h.Chat.RemoveMember)
		})

		api.Route("/requests", func(requests chi.Router) {
			requests.With(authMiddleware.RequireAuth).Post("/create/{chat_id}", h.Request.Create)
		})
	})

	return r
}
