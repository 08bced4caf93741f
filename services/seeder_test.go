package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"recipebox/metrics"
	"recipebox/models"
	"recipebox/storage"
	"recipebox/utils"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource []models.RawRecord

func (s staticSource) Collect(context.Context) []models.RawRecord { return s }

type failingSink struct{}

func (failingSink) SaveClean(context.Context, *models.Document) error { return errors.New("disk full") }
func (failingSink) Close() error                                      { return nil }

type recordingRaw struct{ got []models.RawRecord }

func (r *recordingRaw) SaveRaw(records []models.RawRecord) error {
	r.got = records
	return errors.New("raw dump is best effort")
}

func readDoc(t *testing.T, path string) models.Document {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc models.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestSeeder_DropsIncompleteAndDuplicateTitles(t *testing.T) {
	missingInstructions := rawMeal("Beef Stew", "Beef")
	delete(missingInstructions, "strInstructions")
	first := rawMeal("Chicken Curry", "Chicken")
	second := rawMeal("chicken CURRY", "Chicken")

	logger := utils.NewNopLogger()
	path := filepath.Join(t.TempDir(), "db.json")
	m := metrics.NewCollector("test")

	seeder := NewSeeder(
		staticSource{missingInstructions, first, second},
		newTestSampler(5, 5, 1),
		[]storage.CleanStorage{storage.NewJSONWriter(path, logger)},
		logger,
		WithMetrics(m),
	)

	doc, err := seeder.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Recipes, 1)

	onDisk := readDoc(t, path)
	require.Len(t, onDisk.Recipes, 1)
	assert.Equal(t, 1, onDisk.Recipes[0].ID)
	assert.Equal(t, "Chicken Curry", onDisk.Recipes[0].Title)
	assert.Equal(t, "British • Chicken", onDisk.Recipes[0].Description)
	assert.Equal(t, []string{"Flour - 200g"}, onDisk.Recipes[0].Ingredients)
	assert.False(t, onDisk.Recipes[0].Favorite)

	report := seeder.Report()
	assert.Equal(t, 3, report.RawRecords)
	assert.Equal(t, 2, report.UsableRecipes)
	assert.Equal(t, 1, report.UniqueRecipes)
	assert.Equal(t, 1, report.Written)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecipesDropped.WithLabelValues("unusable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecipesDropped.WithLabelValues("duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecipesWritten))
}

func TestSeeder_CategoryCapThenTopUp(t *testing.T) {
	var raw staticSource
	for i := 0; i < 6; i++ {
		raw = append(raw, rawMeal("Beef dish "+string(rune('A'+i)), "Beef"))
	}
	for i := 0; i < 4; i++ {
		raw = append(raw, rawMeal("Dessert dish "+string(rune('A'+i)), "Dessert"))
	}

	logger := utils.NewNopLogger()
	path := filepath.Join(t.TempDir(), "db.json")
	seeder := NewSeeder(raw, newTestSampler(5, 2, 42), []storage.CleanStorage{storage.NewJSONWriter(path, logger)}, logger)

	doc, err := seeder.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Recipes, 5)

	for i, r := range doc.Recipes {
		assert.Equal(t, i+1, r.ID)
	}
	by := seeder.Report().ByCategory
	assert.Equal(t, 5, by["Beef"]+by["Dessert"])
	assert.GreaterOrEqual(t, by["Beef"], 2)
	assert.GreaterOrEqual(t, by["Dessert"], 2)

	// the category tags never reach the document
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Category")
	assert.NotContains(t, string(data), `"category"`)
}

func TestSeeder_SinkFailureIsFatal(t *testing.T) {
	logger := utils.NewNopLogger()
	seeder := NewSeeder(staticSource{rawMeal("Pie", "Beef")}, newTestSampler(5, 2, 1), []storage.CleanStorage{failingSink{}}, logger)

	_, err := seeder.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSeeder_FailedMirrorLeavesDocumentUntouched(t *testing.T) {
	logger := utils.NewNopLogger()
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"recipes":[{"id":1,"title":"Yesterday"}]}`), 0o644))

	seeder := NewSeeder(staticSource{rawMeal("Pie", "Beef")}, newTestSampler(5, 2, 1),
		[]storage.CleanStorage{failingSink{}, storage.NewJSONWriter(path, logger)}, logger)

	_, err := seeder.Run(context.Background())
	require.Error(t, err)

	doc := readDoc(t, path)
	require.Len(t, doc.Recipes, 1)
	assert.Equal(t, "Yesterday", doc.Recipes[0].Title)
	assert.Zero(t, seeder.Report().Written)
}

func TestSeeder_RawStorageFailureIsNotFatal(t *testing.T) {
	logger := utils.NewNopLogger()
	rawStore := &recordingRaw{}
	path := filepath.Join(t.TempDir(), "db.json")
	input := staticSource{rawMeal("Pie", "Beef")}

	seeder := NewSeeder(input, newTestSampler(5, 2, 1),
		[]storage.CleanStorage{storage.NewJSONWriter(path, logger)}, logger,
		WithRawStorage(rawStore))

	doc, err := seeder.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, doc.Recipes, 1)
	assert.Len(t, rawStore.got, 1)
}

func TestSeeder_CancelledRunWritesNothing(t *testing.T) {
	logger := utils.NewNopLogger()
	path := filepath.Join(t.TempDir(), "db.json")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	seeder := NewSeeder(staticSource{rawMeal("Pie", "Beef")}, newTestSampler(5, 2, 1),
		[]storage.CleanStorage{storage.NewJSONWriter(path, logger)}, logger)

	_, err := seeder.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPrintSeedReport(t *testing.T) {
	report := models.NewSeedReport()
	report.RawRecords = 40
	report.Written = 3
	report.Fetched[models.StrategySearch] = 40
	report.FailedBranches[models.StrategyArea] = 1
	report.ByCategory = map[string]int{"Beef": 2, "Dessert": 1}

	var buf bytes.Buffer
	PrintSeedReport(&buf, report)
	out := buf.String()

	assert.Contains(t, out, "RECIPE SEED SUMMARY")
	assert.Contains(t, out, "Raw records fetched     : 40")
	assert.Contains(t, out, "Beef:")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Beef:")), bytes.Index(buf.Bytes(), []byte("Dessert:")))
}
