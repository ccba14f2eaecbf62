package router

import (
	"net/http"

	"sms-relay-api/handler"
	"sms-relay-api/service"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter(
	authService *service.AuthService,
	authHandler *handler.AuthHandler,
	gatewayHandler *handler.GatewayHandler,
	wsHandler *handler.WSHandler,
	messageHandler *handler.MessageHandler,
	lineHandler *handler.LineHandler,
	userHandler *handler.UserHandler,
) http.Handler {
	mux := http.NewServeMux()

	authMW := handler.AuthMiddleware(authService)

	// Public endpoints.
	mux.Handle("POST /register", handler.ErrorHandlingMiddleware(authHandler.Register))
	mux.Handle("POST /login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.Handler())

	// Upstream gateway ingestion. Gateway authenticity is enforced at the
	// network boundary, not here.
	mux.Handle("POST /gateway/message", handler.ErrorHandlingMiddleware(gatewayHandler.ProcessMessage))

	// Realtime delivery channel; the handler does its own token check
	// during the websocket handshake.
	mux.HandleFunc("GET /ws", wsHandler.Connect)

	// Authenticated endpoints.
	mux.Handle("POST /refresh-token", authMW(handler.ErrorHandlingMiddleware(authHandler.RefreshToken)))
	mux.Handle("POST /logout", authMW(handler.ErrorHandlingMiddleware(authHandler.Logout)))
	mux.Handle("GET /messages", authMW(handler.ErrorHandlingMiddleware(messageHandler.ListMessages)))

	// Admin endpoints.
	admin := func(h http.Handler) http.Handler {
		return authMW(handler.AdminMiddleware(h))
	}
	mux.Handle("PATCH /messages/{id}", admin(handler.ErrorHandlingMiddleware(messageHandler.UpdateMessage)))
	mux.Handle("DELETE /messages/{id}", admin(handler.ErrorHandlingMiddleware(messageHandler.DeleteMessage)))
	mux.Handle("GET /lines", admin(handler.ErrorHandlingMiddleware(lineHandler.ListLines)))
	mux.Handle("POST /lines", admin(handler.ErrorHandlingMiddleware(lineHandler.CreateLine)))
	mux.Handle("PATCH /lines/{id}", admin(handler.ErrorHandlingMiddleware(lineHandler.UpdateLine)))
	mux.Handle("DELETE /lines/{id}", admin(handler.ErrorHandlingMiddleware(lineHandler.DeleteLine)))
	mux.Handle("GET /user-lines", admin(handler.ErrorHandlingMiddleware(lineHandler.ListAssignments)))
	mux.Handle("POST /user-lines", admin(handler.ErrorHandlingMiddleware(lineHandler.AssignLine)))
	mux.Handle("PATCH /user-lines/{id}", admin(handler.ErrorHandlingMiddleware(lineHandler.UpdateAssignment)))
	mux.Handle("GET /users", admin(handler.ErrorHandlingMiddleware(userHandler.ListUsers)))
	mux.Handle("PUT /users/{id}/role", admin(handler.ErrorHandlingMiddleware(userHandler.UpdateRole)))

	return mux
}
