package main

import (
	"log"
	"net/http"

	"github.com/andrewpaige1/studydesk/apiclient"
	"github.com/andrewpaige1/studydesk/auth"
	"github.com/andrewpaige1/studydesk/conceptmap"
	"github.com/andrewpaige1/studydesk/config"
	"github.com/andrewpaige1/studydesk/handlers"
	"github.com/andrewpaige1/studydesk/logger"
	"github.com/andrewpaige1/studydesk/middleware"
	"github.com/andrewpaige1/studydesk/store"
	"github.com/andrewpaige1/studydesk/views"
	"github.com/rs/cors"
)

func main() {
	env, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	lg, err := logger.New(env.LogMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer lg.Sync()

	db, err := config.Connect(env)
	if err != nil {
		lg.Error("database connection failed", "error", err)
		return
	}

	api := apiclient.New(env.APIBaseURL, apiclient.WithLogger(lg))
	authClient := apiclient.New(env.AuthURL,
		apiclient.WithHeader("apikey", env.AuthAnonKey),
		apiclient.WithLogger(lg),
	)
	sessions := auth.NewSessionStore()

	var subjects store.SubjectRepository = store.NewSubjectDB(db)
	if env.SubjectStore == "api" {
		subjects = store.NewSubjectAPI(api)
	}

	renderer, err := conceptmap.NewRenderer()
	if err != nil {
		lg.Warn("concept map renderer unavailable, using approximate layout", "error", err)
		renderer = nil
	}

	app := views.NewApp(views.Deps{
		Auth:      auth.NewService(auth.NewGoTrue(authClient), sessions, lg, auth.WithTokenSecret(env.AuthJWTSecret)),
		Subjects:  subjects,
		Lectures:  store.NewLectureAPI(api),
		Materials: store.NewMaterialsAPI(api),
		Settings:  store.NewSettingsAPI(api),
		Calendar:  store.NewCalendarDB(db),
		Assistant: store.NewAssistantAPI(api),
		Tools:     store.NewSubjectToolsAPI(api),
		Renderer:  renderer,
		Log:       lg,
	})
	defer app.Close()

	authMiddleware, err := middleware.EnsureValidToken(env, lg)
	if err != nil {
		lg.Error("failed to set up token validation", "error", err)
		return
	}

	mux := http.NewServeMux()
	appHandler := &handlers.AppHandler{App: app, Log: lg}
	appHandler.Routes(mux, middleware.RequireSession(sessions, lg))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   env.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "X-Request-ID", "Accept", "Origin"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(middleware.RequestLogger(lg)(authMiddleware(mux)))

	serverAddr := "0.0.0.0:" + env.Port
	lg.Info("server listening", "addr", serverAddr, "api", env.APIBaseURL)
	if err := http.ListenAndServe(serverAddr, corsHandler); err != nil {
		lg.Error("server stopped", "error", err)
	}
}
