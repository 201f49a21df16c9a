package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/phpdave11/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmicflow/tagsheet"
	"github.com/cosmicflow/tagsheet/grid"
	"github.com/cosmicflow/tagsheet/overlay"
)

const inventory = "sku,category,subtitle,title,price,quantity\n" +
	"AC0101,candles,Hand-poured soy candle,Lavender,120,4\n" +
	"AC0102,candles,Beeswax taper,Honey,85,2\n"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// workdir switches to an empty directory holding the inventory export.
func workdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("inventory.csv", []byte(inventory), 0o644))
	return dir
}

func writeBackingTemplates(t *testing.T, dir string) {
	t.Helper()
	tdir := filepath.Join(dir, "assets", "templates")
	require.NoError(t, os.MkdirAll(tdir, 0o755))
	for _, name := range []string{"backing-cards-front.pdf", "backing-cards-back.pdf"} {
		pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "mm", Size: gofpdf.SizeType{Wd: grid.A4.W, Ht: grid.A4.H}})
		pdf.AddPage()
		require.NoError(t, pdf.OutputFileAndClose(filepath.Join(tdir, name)))
	}
}

func TestGridCommand(t *testing.T) {
	workdir(t)

	out, err := execute(t, "grid", "--cell", "30x52", "--margin", "10")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`columns\s+6\n`), out)
	assert.Regexp(t, regexp.MustCompile(`rows\s+5\n`), out)
	assert.Regexp(t, regexp.MustCompile(`capacity\s+30\n`), out)
	assert.Regexp(t, regexp.MustCompile(`origin\s+15\.00, 18\.50 mm`), out)
}

func TestGridCommandCapacity(t *testing.T) {
	workdir(t)

	_, err := execute(t, "grid", "--cell", "300x52")
	var capErr *tagsheet.LayoutCapacityError
	require.ErrorAs(t, err, &capErr)
}

func TestGridCommandRequiresCell(t *testing.T) {
	workdir(t)

	_, err := execute(t, "grid")
	assert.Error(t, err)
}

func TestPriceTagsCommand(t *testing.T) {
	dir := workdir(t)
	out := filepath.Join(dir, "tags.pdf")

	stdout, err := execute(t, "price-tags", "inventory.csv", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, out)

	n, err := overlay.PageCount(out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPriceTagsDefaultOutput(t *testing.T) {
	workdir(t)

	_, err := execute(t, "price-tags", "inventory.csv")
	require.NoError(t, err)
	assert.FileExists(t, "price-tags.pdf")
}

func TestPriceTagsArgs(t *testing.T) {
	workdir(t)

	_, err := execute(t, "price-tags")
	assert.Error(t, err)

	_, err = execute(t, "price-tags", "a.csv", "b.csv")
	assert.Error(t, err)
}

func TestPriceTagsMissingCSV(t *testing.T) {
	workdir(t)

	_, err := execute(t, "price-tags", "missing.csv")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoFileExists(t, "price-tags.pdf")
}

func TestBackingCardsMissingTemplates(t *testing.T) {
	workdir(t)

	_, err := execute(t, "backing-cards", "inventory.csv")
	var le *tagsheet.AssetLoadError
	require.ErrorAs(t, err, &le)
	assert.NoFileExists(t, "backing-cards.pdf")
}

func TestBackingCardsCommand(t *testing.T) {
	dir := workdir(t)
	writeBackingTemplates(t, dir)

	_, err := execute(t, "backing-cards", "inventory.csv")
	require.NoError(t, err)

	n, err := overlay.PageCount("backing-cards.pdf")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestAllCommand(t *testing.T) {
	dir := workdir(t)
	writeBackingTemplates(t, dir)

	stdout, err := execute(t, "all", "inventory.csv", "--parallelism", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "price-tags.pdf")
	assert.Contains(t, stdout, "backing-cards.pdf")
	assert.FileExists(t, "price-tags.pdf")
	assert.FileExists(t, "backing-cards.pdf")
}

func TestLayoutCommand(t *testing.T) {
	workdir(t)
	layout := `{
		"name": "shelf-label",
		"cell": {"width": 60, "height": 30},
		"margin": 10,
		"elements": [
			{"type": "title", "y": 10, "font": "bold", "size": 12, "fit": true},
			{"type": "price", "side": "back", "y": 20, "size": 14}
		]
	}`
	require.NoError(t, os.WriteFile("shelf.json", []byte(layout), 0o644))

	_, err := execute(t, "layout", "shelf.json", "inventory.csv")
	require.NoError(t, err)
	assert.FileExists(t, "shelf-label.pdf")
}

func TestLayoutCommandFailureLeavesNoFile(t *testing.T) {
	dir := workdir(t)
	require.NoError(t, os.WriteFile("empty.csv", []byte("sku,category,subtitle,title,price,quantity\nAC0101,c,s,t,10,0\n"), 0o644))
	require.NoError(t, os.WriteFile("shelf.json", []byte(`{"cell":{"width":60,"height":30},"elements":[]}`), 0o644))

	_, err := execute(t, "layout", "shelf.json", "empty.csv", "-o", "out.pdf")
	assert.ErrorIs(t, err, tagsheet.ErrNoItems)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, ".pdf", filepath.Ext(e.Name()), "unexpected file %s", e.Name())
	}
}

func TestFromDBRequiresURL(t *testing.T) {
	workdir(t)

	_, err := execute(t, "price-tags", "--from-db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database url is empty")
}

func TestConfigDir(t *testing.T) {
	dir := workdir(t)
	cfgDir := filepath.Join(dir, "conf")
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.MkdirAll(outDir, 0o755))
	toml := "[site]\nhost = \"shop.example\"\n\n[output]\ndir = \"" + filepath.ToSlash(outDir) + "\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "tagsheet.toml"), []byte(toml), 0o644))

	_, err := execute(t, "--config", cfgDir, "price-tags", "inventory.csv")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "price-tags.pdf"))
}

func TestInvalidConfig(t *testing.T) {
	workdir(t)
	t.Setenv("TAGSHEET_LOG_FORMAT", "xml")

	_, err := execute(t, "grid", "--cell", "30x52")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format")
}
