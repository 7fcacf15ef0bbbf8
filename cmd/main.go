package main

import (
	"context"
	"net/http"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v4"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sendgrid/sendgrid-go"
	twilio "github.com/twilio/twilio-go"

	"github.com/justatarek/ergodnc/internal/app"
	"github.com/justatarek/ergodnc/internal/config"
	"github.com/justatarek/ergodnc/internal/constants"
	"github.com/justatarek/ergodnc/internal/controllers"
	"github.com/justatarek/ergodnc/internal/middleware"
	"github.com/justatarek/ergodnc/internal/repositories"
	"github.com/justatarek/ergodnc/internal/routes"
	"github.com/justatarek/ergodnc/internal/services"
	"github.com/justatarek/ergodnc/internal/storage"
	"github.com/justatarek/ergodnc/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize ergodnc:", err)
	}
	defer application.Close()

	officeRepo := repositories.NewOfficeRepository(application.DB)
	reservationRepo := repositories.NewReservationRepository(application.DB, cfg.DBEncryptionKey)
	tagRepo := repositories.NewTagRepository(application.DB)
	imageRepo := repositories.NewImageRepository(application.DB)
	userRepo := repositories.NewUserRepository(application.DB)
	locker := repositories.NewAdvisoryLocker(application.DB, constants.BookingLockRetry)

	blobs, err := storage.NewLocalStorage(cfg.StorageDir, cfg.StorageBaseURL)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize blob storage:", err)
	}

	twClient := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	sgClient := sendgrid.NewSendClient(cfg.SendGridAPIKey)
	notifier := services.NewNotificationService(cfg, sgClient, twClient)

	runTx := func(ctx context.Context, fn func(tx pgx.Tx) error) error {
		return repositories.InTx(ctx, application.DB, fn)
	}

	officeService := services.NewOfficeService(
		officeRepo,
		reservationRepo,
		tagRepo,
		imageRepo,
		userRepo,
		blobs,
		notifier,
		runTx,
	)
	reservationService := services.NewReservationService(
		officeRepo,
		reservationRepo,
		userRepo,
		locker,
		notifier,
	)
	reminderService := services.NewReservationReminderService(
		reservationRepo,
		officeRepo,
		userRepo,
		notifier,
	)

	officesController := controllers.NewOfficesController(officeService)
	officeImagesController := controllers.NewOfficeImagesController(officeService, blobs)
	reservationsController := controllers.NewReservationsController(reservationService)
	tagsController := controllers.NewTagsController(officeService)
	healthController := controllers.NewHealthController(application.DB)

	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, healthController.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Tags, tagsController.IndexHandler).Methods(http.MethodGet)

	// Public listings still honor a bearer token when one is sent, so
	// hosts browsing their own listings see hidden and pending offices.
	public := router.NewRoute().Subrouter()
	public.Use(middleware.OptionalAuthMiddleware(cfg.RSAPublicKey))
	public.HandleFunc(routes.Offices, officesController.ListHandler).Methods(http.MethodGet)
	public.HandleFunc(routes.Office, officesController.ShowHandler).Methods(http.MethodGet)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))

	secured.HandleFunc(routes.Offices, officesController.StoreHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Office, officesController.UpdateHandler).Methods(http.MethodPut, http.MethodPatch)
	secured.HandleFunc(routes.Office, officesController.DestroyHandler).Methods(http.MethodDelete)
	secured.HandleFunc(routes.OfficeImages, officeImagesController.StoreHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.OfficeImage, officeImagesController.DestroyHandler).Methods(http.MethodDelete)

	secured.HandleFunc(routes.HostReservations, reservationsController.HostIndexHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Reservations, reservationsController.IndexHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Reservations, reservationsController.StoreHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Reservation, reservationsController.CancelHandler).Methods(http.MethodDelete)

	// Uploaded office photos.
	router.PathPrefix("/storage/").Handler(
		http.StripPrefix("/storage/", http.FileServer(http.Dir(cfg.StorageDir))),
	).Methods(http.MethodGet)

	c := cron.New()
	_, cronErr := c.AddFunc("0 8 * * *", func() {
		if e := reminderService.SendDueReservationNotifications(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Daily reservation reminders failed")
		}
	})
	if cronErr != nil {
		utils.Logger.WithError(cronErr).Fatal("Failed to schedule reservation reminder cron")
	}
	c.Start()

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", config.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("ergodnc failed to start:", err)
	}
}
