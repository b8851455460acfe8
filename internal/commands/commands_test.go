package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finviz/internal/commands"
)

func setupStore(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "finviz.db"))
	t.Setenv("CURRENCY", "USD")
	t.Setenv("LOG_LEVEL", "error")

	return dir
}

func runFinviz(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := commands.NewRootCommand()
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.Execute()

	return out.String(), err
}

func TestMigrate(t *testing.T) {
	setupStore(t)

	out, err := runFinviz(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite schema is up to date")

	out, err = runFinviz(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")
}

func TestMigrate_MemoryStore(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	out, err := runFinviz(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "no schema to migrate")
}

func TestAddListDelete(t *testing.T) {
	setupStore(t)

	out, err := runFinviz(t, "add", "--amount", "1250.5", "--date", "2024-03-05",
		"--description", "Laptop repair", "--type", "expense")
	require.NoError(t, err)
	assert.Contains(t, out, `Added expense $1,250.50 "Laptop repair"`)

	out, err = runFinviz(t, "list", "--json")
	require.NoError(t, err)

	var txs []struct {
		ID          string  `json:"id"`
		Amount      float64 `json:"amount"`
		Date        string  `json:"date"`
		Description string  `json:"description"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &txs))
	require.Len(t, txs, 1)
	assert.Equal(t, "Laptop repair", txs[0].Description)
	assert.Equal(t, 1250.5, txs[0].Amount)
	assert.Equal(t, "2024-03-05", txs[0].Date)
	assert.Contains(t, out, `"amount": 1250.5,`)

	out, err = runFinviz(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Laptop repair")
	assert.Contains(t, out, "-$1,250.50")

	_, err = runFinviz(t, "delete", txs[0].ID)
	require.NoError(t, err)

	out, err = runFinviz(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No transactions.")
}

func TestAdd_Invalid(t *testing.T) {
	setupStore(t)

	_, err := runFinviz(t, "add", "--amount", "0", "--description", "nothing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Amount must be greater than 0")
}

func TestDelete_Unknown(t *testing.T) {
	setupStore(t)

	for _, id := range []string{"not-a-uuid", "4a7c9d2e-1111-4c55-9c59-0d6c3c1f1a01"} {
		_, err := runFinviz(t, "delete", id)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "transaction not found")
	}
}

func TestImportExportSummary(t *testing.T) {
	dir := setupStore(t)

	csvPath := filepath.Join(dir, "bank.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"Date;Description;Amount\n2024-01-05;Salary;2.000,00\n2024-02-10;Rent;-800,00\n"), 0o644))

	out, err := runFinviz(t, "import", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 transactions (signed format)")

	out, err = runFinviz(t, "export")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "date,description,amount,type"))
	assert.True(t, strings.HasPrefix(lines[1], "2024-02-10,Rent,800.00,expense"))

	out, err = runFinviz(t, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Jan 2024")
	assert.Contains(t, out, "Feb 2024")
	assert.Contains(t, out, "$1,200.00")

	outDir := filepath.Join(dir, "exports")
	out, err = runFinviz(t, "export", "--dir", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, outDir)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
