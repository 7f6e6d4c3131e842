package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/evnul000/StudyShelf/internal/auth"
	"github.com/evnul000/StudyShelf/internal/config"
	"github.com/evnul000/StudyShelf/internal/handlers"
	"github.com/evnul000/StudyShelf/internal/middleware"
	"github.com/evnul000/StudyShelf/internal/storage"
	"github.com/evnul000/StudyShelf/internal/store"
	"github.com/evnul000/StudyShelf/internal/tree"
	"github.com/evnul000/StudyShelf/internal/utils"
)

func SetupRouter(client *mongo.Client, cfg config.Config, files storage.Files, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Server is healthy"))
	}).Methods("GET")

	tokens := auth.New(cfg.JWTSecret)
	mailer := utils.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)

	semesters := store.NewMongoSemesters(client, cfg.DatabaseName)
	controller := tree.NewController(semesters, files, logger)

	userHandler := handlers.NewUserHandler(client, cfg.DatabaseName, tokens, mailer, cfg.BaseURL)
	semesterHandler := handlers.NewSemesterHandler(controller)
	examHandler := handlers.NewExamHandler(controller)
	uploadHandler := handlers.NewUploadHandler(files)
	studySetHandler := handlers.NewStudySetHandler(client, cfg.DatabaseName)
	eventHandler := handlers.NewEventHandler(client, cfg.DatabaseName)

	router.HandleFunc("/api/users/signup", userHandler.Signup).Methods("POST")
	router.HandleFunc("/api/users/verify", userHandler.VerifyEmail).Methods("GET")
	router.HandleFunc("/api/users/signin", userHandler.Signin).Methods("POST")
	router.HandleFunc("/api/users/signout", userHandler.Signout).Methods("POST")
	router.HandleFunc("/api/users/forgot-password", userHandler.ForgotPassword).Methods("POST")
	router.HandleFunc("/api/users/reset-password", userHandler.ResetPassword).Methods("POST")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(tokens))

	api.HandleFunc("/users/me", userHandler.Me).Methods("GET")
	api.HandleFunc("/users/me", userHandler.UpdateProfile).Methods("PUT")

	api.HandleFunc("/semesters", semesterHandler.ListSemesters).Methods("GET")
	api.HandleFunc("/semesters", semesterHandler.CreateSemester).Methods("POST")
	api.HandleFunc("/semesters/{id}", semesterHandler.GetSemester).Methods("GET")
	api.HandleFunc("/semesters/{id}", semesterHandler.RenameSemester).Methods("PUT")
	api.HandleFunc("/semesters/{id}", semesterHandler.DeleteSemester).Methods("DELETE")

	api.HandleFunc("/semesters/{id}/classes", semesterHandler.CreateClass).Methods("POST")
	api.HandleFunc("/semesters/{id}/classes/{classId}", semesterHandler.GetClass).Methods("GET")
	api.HandleFunc("/semesters/{id}/classes/{classId}", semesterHandler.RenameClass).Methods("PUT")
	api.HandleFunc("/semesters/{id}/classes/{classId}", semesterHandler.DeleteClass).Methods("DELETE")

	api.HandleFunc("/semesters/{id}/classes/{classId}/sections", semesterHandler.CreateSection).Methods("POST")
	api.HandleFunc("/semesters/{id}/classes/{classId}/sections/{section}", semesterHandler.DeleteSection).Methods("DELETE")

	api.HandleFunc("/semesters/{id}/classes/{classId}/sections/{section}/items", semesterHandler.CreateItem).Methods("POST")
	api.HandleFunc("/semesters/{id}/classes/{classId}/sections/{section}/items/{itemId}", semesterHandler.UpdateItem).Methods("PUT")
	api.HandleFunc("/semesters/{id}/classes/{classId}/sections/{section}/items/{itemId}", semesterHandler.DeleteItem).Methods("DELETE")

	api.HandleFunc("/semesters/{id}/drop", semesterHandler.DropItem).Methods("POST")
	api.HandleFunc("/semesters/{id}/classes/{classId}/exams", examHandler.CreateExam).Methods("POST")

	api.HandleFunc("/uploads/pdf", uploadHandler.UploadPDF).Methods("POST")
	api.HandleFunc("/uploads/profile-pic", uploadHandler.UploadProfilePic).Methods("POST")
	api.HandleFunc("/documents", uploadHandler.CreateDocument).Methods("POST")

	api.HandleFunc("/studysets", studySetHandler.GetStudySets).Methods("GET")
	api.HandleFunc("/studysets", studySetHandler.CreateStudySet).Methods("POST")
	api.HandleFunc("/studysets/{setId}", studySetHandler.GetStudySetByID).Methods("GET")
	api.HandleFunc("/studysets/{setId}", studySetHandler.DeleteStudySet).Methods("DELETE")
	api.HandleFunc("/studysets/{setId}/cards", studySetHandler.AddCard).Methods("POST")
	api.HandleFunc("/studysets/{setId}/cards", studySetHandler.RemoveCard).Methods("DELETE")

	api.HandleFunc("/events", eventHandler.GetEvents).Methods("GET")
	api.HandleFunc("/events", eventHandler.CreateEvent).Methods("POST")
	api.HandleFunc("/events/{eventId}/toggle", eventHandler.ToggleEvent).Methods("PUT")
	api.HandleFunc("/events/{eventId}", eventHandler.DeleteEvent).Methods("DELETE")

	return router
}
