package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MuhammadMouostafa/library-management-system/internal/config"
	"github.com/MuhammadMouostafa/library-management-system/internal/entities"
	"github.com/MuhammadMouostafa/library-management-system/internal/entrypoint"
	"github.com/MuhammadMouostafa/library-management-system/internal/services"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.Database{
			Driver:   config.DriverSQLite,
			Path:     filepath.Join(t.TempDir(), "library.db"),
			LogLevel: "silent",
		},
		Log: config.Log{Env: "prod", Level: "error"},
	}
}

func TestSeed_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	db, err := entrypoint.OpenDatabase(cfg, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	svc := entrypoint.NewServices(db, cfg, zap.NewNop(), nil)

	seeded, err := Seed(ctx, svc)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = Seed(ctx, svc)
	require.NoError(t, err)
	assert.False(t, seeded)

	page, err := svc.Books.List(ctx, services.PageRequest{Page: 1, Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(len(demoBooks)), page.Total)

	var borrowers int64
	require.NoError(t, db.DB.Model(&entities.Borrower{}).Count(&borrowers).Error)
	assert.Equal(t, int64(len(demoBorrowers)), borrowers)
}

func TestMigrateCommand(t *testing.T) {
	cfg := testConfig(t)
	root := NewRootCommand("test", func() *config.Config { return cfg })
	root.SetArgs([]string{"migrate"})
	root.SetOut(&bytes.Buffer{})

	require.NoError(t, root.Execute())
	assert.FileExists(t, cfg.Database.Path)
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand("1.2.3", func() *config.Config { return testConfig(t) })

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])
	assert.True(t, names["seed"])
	assert.Equal(t, "1.2.3", root.Version)
}
