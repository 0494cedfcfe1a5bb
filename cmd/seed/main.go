package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"promptdeck/internal/config"
	"promptdeck/internal/domain/models"
	"promptdeck/internal/domain/services"
	"promptdeck/internal/repository/postgres"
	"promptdeck/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed demo data")
	clearData := flag.Bool("clear-data", false, "Clear the demo user's components and presets (keep schema)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *clearData {
		log.Printf("🧹 Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	// Exit early if schema-only mode
	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	demoUserID := os.Getenv("SEED_USER_ID")
	if demoUserID == "" {
		demoUserID = "00000000-0000-0000-0000-000000000001"
	}

	// Exit early if clear-data mode (just clear and exit)
	if *clearData {
		log.Println("🧹 Clearing existing components and presets...")
		if err := clearUserData(ctx, pool, tables, demoUserID); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	componentRepo := postgres.NewComponentRepository(repoConfig)
	presetRepo := postgres.NewPresetRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Create services
	validator := service.NewValidator(componentRepo)
	componentService := service.NewComponentService(componentRepo, presetRepo, txManager, validator, logger)
	presetService := service.NewPresetService(presetRepo, componentRepo, txManager, validator, logger)

	// Clear existing data
	log.Println("⚠️  Clearing existing components and presets...")
	if err := clearUserData(ctx, pool, tables, demoUserID); err != nil {
		log.Printf("Warning: Could not clear data: %v", err)
	}

	// Seed components
	log.Println("📝 Seeding components...")
	created := make(map[models.ComponentKind]*models.Component)
	for i, req := range getSeedComponents(demoUserID) {
		component, err := componentService.CreateComponent(ctx, req)
		if err != nil {
			log.Printf("❌ Failed to create component '%s': %v", req.Name, err)
			continue
		}
		created[component.Kind] = component
		log.Printf("✅ Created component %d: %s (%s, ID: %s)", i+1, component.Name, component.Kind, component.ID)
	}

	// Seed presets referencing the created components
	log.Println("🔗 Seeding presets...")
	for i, seed := range getSeedPresets(demoUserID, created) {
		preset, err := presetService.CreatePreset(ctx, seed)
		if err != nil {
			log.Printf("❌ Failed to create preset '%s': %v", seed.Name, err)
			continue
		}
		log.Printf("✅ Created preset %d: %s (ID: %s)", i+1, preset.Name, preset.ID)
	}

	log.Println("🎉 Seeding complete!")
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	// Enable UUID extension
	_, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"")
	if err != nil {
		return err
	}

	// Create components table
	createComponents := `
		CREATE TABLE IF NOT EXISTS ` + tables.Components + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL,
			kind TEXT NOT NULL CHECK (kind IN ('role', 'style', 'context', 'mode')),
			name TEXT NOT NULL,
			content TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			tags TEXT[] NOT NULL DEFAULT '{}',
			usage_count BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createComponents); err != nil {
		return err
	}

	// Create presets table. Slot columns use ON DELETE SET NULL as a
	// database-level backstop; the service clears slots in the same
	// transaction as the component delete.
	createPresets := `
		CREATE TABLE IF NOT EXISTS ` + tables.Presets + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			role_id UUID REFERENCES ` + tables.Components + `(id) ON DELETE SET NULL,
			style_id UUID REFERENCES ` + tables.Components + `(id) ON DELETE SET NULL,
			context_id UUID REFERENCES ` + tables.Components + `(id) ON DELETE SET NULL,
			mode_id UUID REFERENCES ` + tables.Components + `(id) ON DELETE SET NULL,
			usage_count BIGINT NOT NULL DEFAULT 0,
			last_used_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createPresets); err != nil {
		return err
	}

	// Create indexes
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `components_user_kind ON ` + tables.Components + `(user_id, kind)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `components_user_updated ON ` + tables.Components + `(user_id, updated_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `presets_user ON ` + tables.Presets + `(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `presets_role ON ` + tables.Presets + `(role_id) WHERE role_id IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `presets_style ON ` + tables.Presets + `(style_id) WHERE style_id IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `presets_context ON ` + tables.Presets + `(context_id) WHERE context_id IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `presets_mode ON ` + tables.Presets + `(mode_id) WHERE mode_id IS NOT NULL`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Presets,
		tables.Components,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}

	return nil
}

// clearUserData clears all components and presets for a user
func clearUserData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, userID string) error {
	// Delete presets first so slot references don't dangle
	_, err := pool.Exec(ctx, "DELETE FROM "+tables.Presets+" WHERE user_id = $1", userID)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, "DELETE FROM "+tables.Components+" WHERE user_id = $1", userID)
	if err != nil {
		return err
	}

	return nil
}

func getSeedComponents(userID string) []*services.CreateComponentRequest {
	return []*services.CreateComponentRequest{
		{
			UserID:      userID,
			Kind:        models.KindRole,
			Name:        "Marketing Expert",
			Content:     "You are a senior marketing strategist with a decade of experience running campaigns for consumer brands. You think in terms of positioning, audience segments and conversion funnels.",
			Description: "Persona for campaign and copy work",
			Tags:        []string{"marketing", "persona"},
		},
		{
			UserID:      userID,
			Kind:        models.KindRole,
			Name:        "Staff Engineer",
			Content:     "You are a staff-level software engineer. You weigh trade-offs explicitly, cite failure modes and prefer boring technology.",
			Description: "Persona for technical reviews",
			Tags:        []string{"engineering", "persona"},
		},
		{
			UserID:      userID,
			Kind:        models.KindStyle,
			Name:        "Warm and Direct",
			Content:     "Write in a warm, direct voice. Short sentences. No filler phrases, no hedging.",
			Tags:        []string{"tone"},
		},
		{
			UserID:      userID,
			Kind:        models.KindContext,
			Name:        "Bakery Business",
			Content:     "The user runs a small neighborhood bakery with three employees. Revenue comes mostly from weekend foot traffic and a modest wholesale contract.",
			Description: "Standing business context",
			Tags:        []string{"business"},
		},
		{
			UserID:      userID,
			Kind:        models.KindMode,
			Name:        "Concise Answers",
			Content:     "Answer in at most three short paragraphs. Lead with the recommendation, then the reasoning.",
			Tags:        []string{"format"},
		},
	}
}

func getSeedPresets(userID string, components map[models.ComponentKind]*models.Component) []*services.CreatePresetRequest {
	slots := make(map[models.ComponentKind]*uuid.UUID, len(components))
	for kind, component := range components {
		id := component.ID
		slots[kind] = &id
	}

	var presets []*services.CreatePresetRequest
	if len(slots) > 0 {
		presets = append(presets, &services.CreatePresetRequest{
			UserID:      userID,
			Name:        "Everything On",
			Description: "All four slots filled",
			Slots:       slots,
		})
	}
	if roleID := slots[models.KindRole]; roleID != nil {
		presets = append(presets, &services.CreatePresetRequest{
			UserID:      userID,
			Name:        "Just the Persona",
			Description: "Role only, default everything else",
			Slots:       map[models.ComponentKind]*uuid.UUID{models.KindRole: roleID},
		})
	}
	return presets
}
