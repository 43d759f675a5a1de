package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"

	"github.com/Maximus-Ay/GoLocal/internal/api"
	appctrl "github.com/Maximus-Ay/GoLocal/internal/app"
	"github.com/Maximus-Ay/GoLocal/internal/config"
	"github.com/Maximus-Ay/GoLocal/internal/manager"
	"github.com/Maximus-Ay/GoLocal/internal/models"
	"github.com/Maximus-Ay/GoLocal/internal/storage"
	"github.com/Maximus-Ay/GoLocal/internal/ui"
	"github.com/Maximus-Ay/GoLocal/pkg/logger"
)

func main() {
	// Initialize logging
	log := logger.New()
	log.Info("GoLocal storage dashboard starting...")

	// Load configuration with environment overrides
	cfg := config.Load()
	log.InfoWithFields("Configuration loaded", map[string]interface{}{
		"api_base_url": cfg.APIBaseURL,
	})

	// Open the local store for session and settings
	db, err := storage.NewSQLiteDatabase(cfg.DatabasePath)
	if err != nil {
		log.ErrorWithError("Failed to open local database", err)
		fmt.Fprintf(os.Stderr, "failed to open local database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// Backend client
	client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)

	// Managers
	sessionManager := manager.NewSessionManager(db)
	settingsManager := manager.NewSettingsManager(db)
	quotaManager := manager.NewQuotaManager(client)
	fileRegistry := manager.NewFileRegistry(client)
	uploadManager := manager.NewUploadManager(client, quotaManager, fileRegistry, cfg.ProgressTick)
	purchaseManager := manager.NewPurchaseManager(client)

	session := resolveSession(sessionManager, log)
	if !session.Authenticated() {
		log.Error("No session available; set GOLOCAL_USERNAME or sign in through the web client first")
		fmt.Fprintln(os.Stderr, "no session available: set GOLOCAL_USERNAME and GOLOCAL_SESSION_TOKEN")
		os.Exit(1)
	}

	// Create Fyne application and the dashboard window
	fyneApp := app.New()
	mainWindow := ui.NewDashboardWindow(fyneApp, session)

	controller := appctrl.NewController(
		session,
		quotaManager,
		fileRegistry,
		uploadManager,
		purchaseManager,
		settingsManager,
		sessionManager,
		mainWindow,
		cfg.PollInterval,
	)

	if err := controller.Start(); err != nil {
		log.ErrorWithError("Controller start reported an error", err)
	}
	defer controller.Stop()

	log.Info("Application UI initialized")
	mainWindow.Show()
}

// resolveSession restores the stored session, falling back to environment
// credentials so the dashboard can run against a session issued elsewhere
func resolveSession(sessions manager.SessionManager, log *logger.Logger) models.SessionContext {
	session := sessions.Restore()
	if session.Authenticated() {
		log.InfoWithFields("Session restored", map[string]interface{}{
			"username": session.Username,
			"role":     string(session.Role),
		})
		return session
	}

	username := os.Getenv("GOLOCAL_USERNAME")
	if username == "" {
		return models.SessionContext{}
	}

	session = models.SessionContext{
		Username: username,
		Token:    os.Getenv("GOLOCAL_SESSION_TOKEN"),
	}
	if err := sessions.Save(session); err != nil {
		log.WarnWithError("Failed to persist environment session", err)
	}
	// Re-read so the role claim is resolved the same way as a stored session
	return sessions.Restore()
}
