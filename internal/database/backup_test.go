package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fasilitas/internal/config"
	"fasilitas/internal/models"
)

func TestPerformBackup(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.CreateResource(ctx, &models.Resource{Kind: models.KindRoom, Name: "Aula"}))

	dbPath := dbFilePath(t, db)
	backupDir := filepath.Join(t.TempDir(), "backups")
	logger := zerolog.Nop()

	svc := NewBackupService(dbPath, config.BackupConfig{StoragePath: backupDir}, &logger)
	target, err := svc.PerformBackup()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(target), backupFilePrefix))

	// The backup is a usable database.
	backup, err := NewDB(target, &logger)
	require.NoError(t, err)
	defer backup.Close()

	rooms, err := backup.ListResourcesByKind(ctx, models.KindRoom)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
}

func TestCleanupOldBackups_NoRetention(t *testing.T) {
	backupDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(backupDir, backupFilePrefix+"old.db"), []byte("x"), 0o644))

	logger := zerolog.Nop()
	svc := NewBackupService("unused.db", config.BackupConfig{StoragePath: backupDir}, &logger)
	assert.Zero(t, svc.CleanupOldBackups())

	entries, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCleanupOldBackups_OnlyTouchesOwnFiles(t *testing.T) {
	backupDir := t.TempDir()
	stale := filepath.Join(backupDir, backupFilePrefix+"stale.db")
	other := filepath.Join(backupDir, "keep.db")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	old := time.Now().AddDate(0, 0, -10)
	require.NoError(t, os.Chtimes(stale, old, old))
	require.NoError(t, os.Chtimes(other, old, old))

	logger := zerolog.Nop()
	svc := NewBackupService("unused.db", config.BackupConfig{StoragePath: backupDir, RetentionDays: 7}, &logger)
	assert.Equal(t, 1, svc.CleanupOldBackups())

	assert.NoFileExists(t, stale)
	assert.FileExists(t, other)
}

func dbFilePath(t *testing.T, db *DB) string {
	t.Helper()
	var seq int
	var name, path string
	require.NoError(t, db.QueryRow(`PRAGMA database_list`).Scan(&seq, &name, &path))
	return path
}
