package sapling

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	outlook     = feature.NewDiscreteFeature("Outlook", []string{"Sunny", "Overcast", "Rain"})
	temperature = feature.NewDiscreteFeature("Temperature", []string{"Hot", "Mild", "Cool"})
	humidity    = feature.NewDiscreteFeature("Humidity", []string{"High", "Normal"})
	wind        = feature.NewDiscreteFeature("Wind", []string{"Weak", "Strong"})
	play        = feature.NewDiscreteFeature("Play", []string{"Yes", "No"})

	weatherFeatures = []feature.Feature{outlook, temperature, humidity, wind}
)

var weatherRows = [][5]string{
	{"Sunny", "Hot", "High", "Weak", "No"},
	{"Sunny", "Hot", "High", "Strong", "No"},
	{"Overcast", "Hot", "High", "Weak", "Yes"},
	{"Rain", "Mild", "High", "Weak", "Yes"},
	{"Rain", "Cool", "Normal", "Weak", "Yes"},
	{"Rain", "Cool", "Normal", "Strong", "No"},
	{"Overcast", "Cool", "Normal", "Strong", "Yes"},
	{"Sunny", "Mild", "High", "Weak", "No"},
	{"Sunny", "Cool", "Normal", "Weak", "Yes"},
	{"Rain", "Mild", "Normal", "Weak", "Yes"},
	{"Sunny", "Mild", "Normal", "Strong", "Yes"},
	{"Overcast", "Mild", "High", "Strong", "Yes"},
	{"Overcast", "Hot", "Normal", "Weak", "Yes"},
	{"Rain", "Mild", "High", "Strong", "No"},
}

func weatherSamples() []dataset.Sample {
	samples := make([]dataset.Sample, 0, len(weatherRows))
	for _, r := range weatherRows {
		samples = append(samples, dataset.NewSample(map[string]interface{}{
			"Outlook": r[0], "Temperature": r[1], "Humidity": r[2], "Wind": r[3], "Play": r[4],
		}))
	}
	return samples
}

func weather() dataset.Dataset {
	return dataset.NewMemoryIntensive(weatherSamples())
}

func labeled(labels ...string) dataset.Dataset {
	samples := make([]dataset.Sample, 0, len(labels))
	for _, l := range labels {
		samples = append(samples, dataset.NewSample(map[string]interface{}{"Outlook": "Sunny", "Play": l}))
	}
	return dataset.NewMemoryIntensive(samples)
}

func leaf(label string, weight int) *tree.Leaf {
	return &tree.Leaf{Label: label, Weight: weight}
}

func split(f string, branches ...tree.Branch) *tree.Internal {
	return &tree.Internal{Feature: f, Branches: branches}
}

func branch(value string, n tree.Node) tree.Branch {
	return tree.Branch{Value: value, Node: n}
}

func id3WeatherTree() tree.Node {
	return split("Outlook",
		branch("Overcast", leaf("Yes", 4)),
		branch("Rain", split("Wind",
			branch("Strong", leaf("No", 2)),
			branch("Weak", leaf("Yes", 3)))),
		branch("Sunny", split("Humidity",
			branch("High", leaf("No", 3)),
			branch("Normal", leaf("Yes", 2)))))
}

// TestInformationGainWeather verifies the gains of the classic weather data.
func TestInformationGainWeather(t *testing.T) {
	ctx := context.Background()
	expected := map[feature.Feature]float64{
		outlook:     0.2467,
		humidity:    0.1518,
		wind:        0.0481,
		temperature: 0.0292,
	}
	for f, gain := range expected {
		ig, err := InformationGain(ctx, weather(), f, play)
		require.NoError(t, err)
		assert.InDelta(t, gain, ig, 1e-4, f.Name())
	}
}

// TestInformationGainNeverNegative checks every feature on every subset.
func TestInformationGainNeverNegative(t *testing.T) {
	ctx := context.Background()
	for _, sf := range weatherFeatures {
		p, err := NewPartition(ctx, weather(), sf)
		require.NoError(t, err)
		for _, ss := range p.Subsets {
			for _, f := range weatherFeatures {
				ig, err := InformationGain(ctx, ss, f, play)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, ig, 0.0)
			}
		}
	}
}

// TestGainRatio verifies the normalization by split information.
func TestGainRatio(t *testing.T) {
	ctx := context.Background()
	gr, err := GainRatio(ctx, weather(), outlook, play)
	require.NoError(t, err)
	assert.InDelta(t, 0.1564, gr, 1e-4)

	gr, err = GainRatio(ctx, labeled("Yes", "No", "No"), outlook, play)
	require.NoError(t, err)
	assert.Equal(t, 0.0, gr)
}

// TestGiniSplitScore verifies only the first two sorted values are scored.
func TestGiniSplitScore(t *testing.T) {
	ctx := context.Background()
	g, err := GiniSplitScore(ctx, weather(), outlook, play)
	require.NoError(t, err)
	assert.InDelta(t, 0.48, g, 1e-9)

	g, err = GiniSplitScore(ctx, weather(), humidity, play)
	require.NoError(t, err)
	assert.InDelta(t, 36.0/49.0, g, 1e-9)

	_, err = GiniSplitScore(ctx, labeled("Yes", "No"), outlook, play)
	assert.ErrorIs(t, err, ErrDegenerateFeature)
}

// TestCriterionNamed verifies lookups by name.
func TestCriterionNamed(t *testing.T) {
	for name, expected := range map[string]string{"id3": "id3", "C45": "c45", "c4.5": "c45", "CART": "cart"} {
		c, err := CriterionNamed(name)
		require.NoError(t, err)
		assert.Equal(t, expected, c.Name())
	}
	_, err := CriterionNamed("chaid")
	assert.ErrorIs(t, err, ErrUnknownCriterion)
}

// TestCARTExcludesDegenerateFeatures verifies they are not candidates.
func TestCARTExcludesDegenerateFeatures(t *testing.T) {
	_, ok, err := CART().Score(context.Background(), labeled("Yes", "No"), outlook, play)
	require.NoError(t, err)
	assert.False(t, ok)

	tr, err := Grow(context.Background(), labeled("Yes", "No", "No"), play, []feature.Feature{outlook}, CART())
	require.NoError(t, err)
	assert.Equal(t, leaf("No", 3), tr.Root)
}

// TestGrowID3Weather verifies the textbook tree for the weather data.
func TestGrowID3Weather(t *testing.T) {
	tr, err := Grow(context.Background(), weather(), play, weatherFeatures, ID3())
	require.NoError(t, err)
	assert.Equal(t, "Play", tr.Label)
	assert.Equal(t, "id3", tr.Criterion)
	assert.True(t, tree.Equal(id3WeatherTree(), tr.Root), tr.String())
}

// TestGrowC45Weather verifies gain ratio picks the same splits on the weather data.
func TestGrowC45Weather(t *testing.T) {
	tr, err := Grow(context.Background(), weather(), play, weatherFeatures, C45())
	require.NoError(t, err)
	assert.True(t, tree.Equal(id3WeatherTree(), tr.Root), tr.String())
}

// TestGrowCARTWeather verifies the binary simplification and the caller
// order tie-break: under Sunny, Temperature scores 0 on Cool and Hot and
// is listed before Humidity.
func TestGrowCARTWeather(t *testing.T) {
	tr, err := Grow(context.Background(), weather(), play, weatherFeatures, CART())
	require.NoError(t, err)
	expected := split("Outlook",
		branch("Overcast", leaf("Yes", 4)),
		branch("Rain", split("Wind",
			branch("Strong", leaf("No", 2)),
			branch("Weak", leaf("Yes", 3)))),
		branch("Sunny", split("Temperature",
			branch("Cool", leaf("Yes", 1)),
			branch("Hot", leaf("No", 2)),
			branch("Mild", split("Humidity",
				branch("High", leaf("No", 1)),
				branch("Normal", leaf("Yes", 1)))))))
	assert.True(t, tree.Equal(expected, tr.Root), tr.String())
}

// TestGrowIsIdempotent verifies repeated builds and both dataset
// implementations give the same tree.
func TestGrowIsIdempotent(t *testing.T) {
	ctx := context.Background()
	for _, c := range []Criterion{ID3(), C45(), CART()} {
		pot := New(weatherFeatures, play, c)
		first, err := pot.Grow(ctx, weather())
		require.NoError(t, err)
		second, err := pot.Grow(ctx, weather())
		require.NoError(t, err)
		cpu, err := pot.Grow(ctx, dataset.NewCPUIntensive(weatherSamples()))
		require.NoError(t, err)
		assert.True(t, tree.Equal(first.Root, second.Root), c.Name())
		assert.True(t, tree.Equal(first.Root, cpu.Root), c.Name())
	}
}

// TestLeavesMatchTrainingSamples verifies every leaf label and weight agree
// with the training samples that reach it.
func TestLeavesMatchTrainingSamples(t *testing.T) {
	ctx := context.Background()
	for _, c := range []Criterion{ID3(), C45(), CART()} {
		tr, err := Grow(ctx, weather(), play, weatherFeatures, c)
		require.NoError(t, err)
		err = tr.Traverse(ctx, false, func(ctx context.Context, path []tree.Step, n tree.Node) error {
			l, ok := n.(*tree.Leaf)
			if !ok {
				return nil
			}
			var reached dataset.Dataset = weather()
			var err error
			for _, step := range path {
				reached, err = reached.SubsetWith(ctx, feature.NewCriterion(feature.Find(weatherFeatures, step.Feature), step.Value))
				require.NoError(t, err)
			}
			counts, err := reached.CountFeatureValues(ctx, play)
			require.NoError(t, err)
			assert.Positive(t, counts[l.Label], "%s %v", c.Name(), path)
			count, err := reached.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, count, l.Weight, "%s %v", c.Name(), path)
			return nil
		})
		require.NoError(t, err)
	}
}

// TestGrowWithoutFeatures verifies a majority leaf with ascending tie-break.
func TestGrowWithoutFeatures(t *testing.T) {
	ctx := context.Background()
	tr, err := Grow(ctx, labeled("Yes", "No", "Yes"), play, nil, ID3())
	require.NoError(t, err)
	assert.Equal(t, leaf("Yes", 3), tr.Root)

	tr, err = Grow(ctx, labeled("Yes", "No", "Yes", "No"), play, nil, C45())
	require.NoError(t, err)
	assert.Equal(t, leaf("No", 4), tr.Root)
}

// TestGrowSingleLabel verifies a pure dataset becomes a single leaf.
func TestGrowSingleLabel(t *testing.T) {
	tr, err := Grow(context.Background(), labeled("Yes", "Yes"), play, []feature.Feature{outlook}, ID3())
	require.NoError(t, err)
	assert.Equal(t, leaf("Yes", 2), tr.Root)
}

// TestGrowUnobservedValuesHaveNoBranch verifies only observed values branch.
func TestGrowUnobservedValuesHaveNoBranch(t *testing.T) {
	ds := dataset.NewMemoryIntensive([]dataset.Sample{
		dataset.NewSample(map[string]interface{}{"Outlook": "Sunny", "Play": "No"}),
		dataset.NewSample(map[string]interface{}{"Outlook": "Rain", "Play": "Yes"}),
	})
	tr, err := Grow(context.Background(), ds, play, []feature.Feature{outlook}, ID3())
	require.NoError(t, err)
	root := tr.Root.(*tree.Internal)
	require.Len(t, root.Branches, 2)
	assert.Nil(t, root.Child("Overcast"))
	assert.Equal(t, leaf("Yes", 1), root.Child("Rain"))
}

// TestGrowPreconditions verifies invalid inputs abort the build.
func TestGrowPreconditions(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name     string
		ds       dataset.Dataset
		label    feature.Feature
		features []feature.Feature
		err      error
	}{
		{"empty dataset", dataset.NewMemoryIntensive(nil), play, weatherFeatures, ErrEmptyDataset},
		{"no label", weather(), nil, weatherFeatures, ErrInvalidFeatures},
		{"label as feature", weather(), play, []feature.Feature{outlook, play}, ErrInvalidFeatures},
		{"repeated feature", weather(), play, []feature.Feature{outlook, outlook}, ErrInvalidFeatures},
		{"missing value", labeled("Yes"), play, []feature.Feature{wind}, ErrInvalidSample},
		{"undeclared label", labeled("Maybe"), play, []feature.Feature{outlook}, ErrInvalidSample},
		{"non categorical", dataset.NewMemoryIntensive([]dataset.Sample{
			dataset.NewSample(map[string]interface{}{"Outlook": 3, "Play": "Yes"}),
		}), play, []feature.Feature{outlook}, ErrInvalidSample},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tr, err := Grow(ctx, c.ds, c.label, c.features, ID3())
			assert.ErrorIs(t, err, c.err)
			assert.Nil(t, tr)
		})
	}

	_, err := Grow(ctx, weather(), play, weatherFeatures, nil)
	assert.ErrorIs(t, err, ErrUnknownCriterion)
}

// TestGrowCancelledContext verifies a done context aborts the build.
func TestGrowCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tr, err := Grow(ctx, weather(), play, weatherFeatures, ID3())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, tr)
}

// TestGrowLogsSplits verifies split decisions are logged at debug level.
func TestGrowLogsSplits(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := New(weatherFeatures, play, ID3(), WithLogger(logger)).Grow(context.Background(), weather())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "msg=splitting")
	assert.Contains(t, buf.String(), "feature=Outlook")
}
