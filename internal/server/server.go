// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"github.com/dricdias/telegram-bot/internal/database"
	"github.com/dricdias/telegram-bot/internal/organizer"
	"github.com/dricdias/telegram-bot/internal/ws"
)

// MyServer bundles everything the route handlers need.
type MyServer struct {
	DB      *database.DBinstanceStruct
	Service *organizer.Service
	Hub     *ws.Hub
}

// NewServer construct new http.Server serving the dashboard on PORT
// (default 8080, the port the platform exposes).
func NewServer(db *database.DBinstanceStruct, svc *organizer.Service, hub *ws.Hub) *http.Server {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port <= 0 {
		port = 8080
	}

	s := &MyServer{DB: db, Service: svc, Hub: hub}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
