package controllers

import (
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/saifgs/sheetbridge/app/repository"
	"github.com/saifgs/sheetbridge/internal/pkg/adapters"
	"github.com/saifgs/sheetbridge/internal/pkg/google"
	"github.com/saifgs/sheetbridge/internal/pkg/googleauth"
	"github.com/saifgs/sheetbridge/internal/pkg/metrics/counter"
	"github.com/saifgs/sheetbridge/internal/pkg/uploads"
)

var (
	servicesOnce sync.Once
	authManager  *googleauth.Manager
	googleClient *google.Client
	syncer       *adapters.Syncer
	uploadStore  *uploads.Store
	validate     = validator.New()
)

// initServices wires the controller-level services once the repositories
// exist. Handlers call the getters lazily so tests can inject their own
// wiring first via SetServices.
func initServices() {
	servicesOnce.Do(func() {
		if authManager != nil {
			return
		}
		repos := repository.GetGlobalRepositories()
		authManager = googleauth.NewManager(googleauth.NewSettingStore(repos.Setting))
		googleClient = google.NewClient(authManager)
		syncer = adapters.NewSyncer(repos.Integration, repos.IntegrationRow, repos.Plugin, googleClient).
			WithCounter(counter.AddSyncedRow)
		uploadStore = uploads.NewStore()
	})
}

// SetServices replaces the controller wiring. Tests use this to substitute
// fakes before any handler runs.
func SetServices(m *googleauth.Manager, g *google.Client, s *adapters.Syncer, u *uploads.Store) {
	authManager = m
	googleClient = g
	syncer = s
	uploadStore = u
	servicesOnce.Do(func() {})
}

func getAuthManager() *googleauth.Manager {
	initServices()
	return authManager
}

func getGoogleClient() *google.Client {
	initServices()
	return googleClient
}

func getSyncer() *adapters.Syncer {
	initServices()
	return syncer
}

func getUploadStore() *uploads.Store {
	initServices()
	return uploadStore
}

// jsonError writes the error envelope all admin endpoints share.
func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

// pagination reads page/per_page query params into an offset/limit pair.
func pagination(c *fiber.Ctx, defaultPerPage, maxPerPage int) (offset, limit, page int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.Query("per_page", strconv.Itoa(defaultPerPage)))
	if limit < 1 {
		limit = defaultPerPage
	}
	if limit > maxPerPage {
		limit = maxPerPage
	}
	offset = (page - 1) * limit
	return offset, limit, page
}
