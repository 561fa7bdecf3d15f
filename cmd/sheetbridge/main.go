package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/saifgs/sheetbridge/app/models"
	"github.com/saifgs/sheetbridge/app/repository"
	"github.com/saifgs/sheetbridge/internal/pkg/cache"
	"github.com/saifgs/sheetbridge/internal/pkg/database"
	"github.com/saifgs/sheetbridge/internal/pkg/env"
	"github.com/saifgs/sheetbridge/internal/pkg/metrics/counter"
	"github.com/saifgs/sheetbridge/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "0.0.0.0"), env.GetEnv("APP_PORT", "8080")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	repository.InitializeFactory(database.GetDB())
	seedPluginCatalog()
	startCounterFlusher()

	// Find the project root whether we run from the root or from cmd/.
	basePath := ""
	for _, path := range []string{"./", "../../", "../../../"} {
		if _, err := os.Stat(path + "public"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}
	if basePath == "" {
		basePath = "./"
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", monitor.New())

	// relocated form attachments
	app.Static("/uploads", basePath+"uploads", fiber.Static{
		CacheDuration: 10 * time.Second,
		MaxAge:        604800, // 7 days
	})

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	return app
}

// startCounterFlusher drains the pending synced-row counters to the
// database once a minute.
func startCounterFlusher() {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if err := counter.FlushAll(); err != nil {
				log.Printf("synced-row counter flush failed: %v", err)
			}
		}
	}()
}

// seedPluginCatalog inserts the supported source plugins on first start.
// Existing rows keep their admin-set usability flags.
func seedPluginCatalog() {
	plugins := []models.SupportedPlugin{
		{Title: "Contact Form 7", Key: models.PluginCF7, AvailabilityStatus: true, URL: "https://wordpress.org/plugins/contact-form-7/", Description: "Contact Form 7 form submissions"},
		{Title: "WPForms", Key: models.PluginWPForms, AvailabilityStatus: true, URL: "https://wpforms.com/", Description: "WPForms form submissions"},
		{Title: "Gravity Forms", Key: models.PluginGravityForms, AvailabilityStatus: true, URL: "https://www.gravityforms.com/", Description: "Gravity Forms entries"},
		{Title: "WooCommerce", Key: models.PluginWooCommerce, AvailabilityStatus: true, URL: "https://woocommerce.com/", Description: "WooCommerce order events"},
	}
	if err := repository.GetGlobalFactory().GetPluginRepository().Seed(plugins); err != nil {
		log.Printf("plugin catalog seed failed: %v", err)
	}
}
