package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/sves-app/vehicle-entry-api/api"
	"github.com/sves-app/vehicle-entry-api/api/scheduler"
	"github.com/sves-app/vehicle-entry-api/config"
	"github.com/sves-app/vehicle-entry-api/databases"
	"github.com/sves-app/vehicle-entry-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	dbHelper  databases.DatabaseHelper
	client    databases.ClientHelper
	scheduler *scheduler.Scheduler
	feed      *Feed
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for the admin middleware
	m := api.MiddlewareDB{DB: databases.NewAdminDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()
	r.Use(api.RequestLogger)

	a.feed = NewFeed()

	udb := databases.NewUserDatabase(a.dbHelper)
	vdb := databases.NewVehicleDatabase(a.dbHelper)
	ldb := databases.NewAccessLogDatabase(a.dbHelper)
	adb := databases.NewAdminDatabase(a.dbHelper)
	sdb := databases.NewSettingsDatabase(a.dbHelper)

	reg := Registration{UDB: udb, VDB: vdb, LDB: ldb, Feed: a.feed}
	adm := Admin{DB: adb, Secret: a.Config.JWTSecret}
	u := User{UDB: udb, VDB: vdb, LDB: ldb, Mailer: NewSendgridMailer()}
	v := Vehicle{VDB: vdb, UDB: udb, LDB: ldb, Feed: a.feed}
	s := Settings{DB: sdb}
	rep := Reports{LDB: ldb, UDB: udb}

	r.HandleFunc("/api/health", a.healthCheckHandler).Methods("GET")

	apiCreate := r.PathPrefix("/api").Subrouter()

	apiCreate.Handle("/register", http.HandlerFunc(reg.RegisterHandler)).Methods("POST")

	apiCreate.Handle("/admin/register", http.HandlerFunc(adm.AdminRegisterHandler)).Methods("POST")
	apiCreate.Handle("/admin/login", http.HandlerFunc(adm.AdminLoginHandler)).Methods("POST")

	apiCreate.Handle("/admin/users", api.Middleware(http.HandlerFunc(u.ListUsersHandler))).Methods("GET")
	apiCreate.Handle("/admin/users", api.Middleware(http.HandlerFunc(u.CreateUserHandler))).Methods("POST")
	apiCreate.Handle("/admin/users/{user_id}", api.Middleware(http.HandlerFunc(u.UserByIDHandler))).Methods("GET")
	apiCreate.Handle("/admin/users/{user_id}", api.Middleware(http.HandlerFunc(u.UpdateUserHandler))).Methods("PUT")
	apiCreate.Handle("/admin/users/{user_id}", api.Middleware(http.HandlerFunc(u.DeleteUserHandler))).Methods("DELETE")

	apiCreate.Handle("/admin/vehicles", api.Middleware(http.HandlerFunc(v.CreateVehicleHandler))).Methods("POST")

	apiCreate.Handle("/admin/settings", api.Middleware(http.HandlerFunc(s.GetSettingsHandler))).Methods("GET")
	apiCreate.Handle("/admin/settings", api.Middleware(http.HandlerFunc(s.UpdateSettingsHandler))).Methods("PUT")

	apiCreate.Handle("/admin/reports/stats", api.Middleware(http.HandlerFunc(rep.StatsHandler))).Methods("GET")
	apiCreate.Handle("/admin/reports/charts", api.Middleware(http.HandlerFunc(rep.ChartsHandler))).Methods("GET")
	apiCreate.Handle("/admin/reports/table", api.Middleware(http.HandlerFunc(rep.TableHandler))).Methods("GET")

	apiCreate.Handle("/admin/feed", api.Middleware(http.HandlerFunc(a.feed.FeedHandler))).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.client = client
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("vehicle-entry-api has connected to the database")

	a.scheduler = scheduler.New(
		databases.NewSettingsDatabase(a.dbHelper),
		databases.NewUserDatabase(a.dbHelper),
		databases.NewVehicleDatabase(a.dbHelper),
		databases.NewAccessLogDatabase(a.dbHelper),
	)
	a.scheduler.Start()

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// Shutdown stops the background scheduler
func (a *App) Shutdown() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
}

func (a *App) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := a.client.Ping(ctx); err != nil {
		config.ErrorStatus("database not connected", http.StatusInternalServerError, w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.HealthCheckResponse{
		Status:  "OK",
		Message: "database connection successful",
	})
}
