package catalog

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"weblarek/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const yamlList = `
- id: a1
  title: HTML pill
  category: soft-skill
  image: /pill.svg
  price: 750
- id: b2
  title: Mighty bot
  category: other
  image: /bot.svg
  price: null
`

const jsonDocument = `{"total": 1, "items": [{"id": "c3", "title": "Frame", "price": 2500}]}`

// writeFile creates a seed file in a temp dir, gzipping names ending in .gz.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)

	var data []byte
	if strings.HasSuffix(name, ".gz") {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_, err := gz.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, gz.Close())
		data = buf.Bytes()
	} else {
		data = []byte(content)
	}

	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantIDs []string
	}{
		{name: "yaml list", file: "catalog.yaml", content: yamlList, wantIDs: []string{"a1", "b2"}},
		{name: "json object with items", file: "catalog.json", content: jsonDocument, wantIDs: []string{"c3"}},
		{name: "yaml object with items", file: "catalog.yml", content: "items:\n  - id: d4\n    price: 1\n", wantIDs: []string{"d4"}},
		{name: "empty document", file: "empty.yaml", content: "", wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := Decode(strings.NewReader(tt.content), tt.file)
			require.NoError(t, err)

			ids := make([]string, 0, len(products))
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestDecode_Prices(t *testing.T) {
	products, err := Decode(strings.NewReader(yamlList), "catalog.yaml")
	require.NoError(t, err)
	require.Len(t, products, 2)

	require.NotNil(t, products[0].Price)
	assert.Equal(t, 750.0, *products[0].Price)
	assert.Equal(t, "/pill.svg", products[0].Image)
	assert.True(t, products[1].Priceless())
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode(strings.NewReader("items: [ {id: "), "broken.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")

	_, err = Decode(strings.NewReader("not gzip"), "catalog.yaml.gz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip")
}

func TestFileLoader_Load(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	t.Run("gzipped json", func(t *testing.T) {
		path := writeFile(t, "catalog.json.gz", jsonDocument)

		products, err := loader.Load(context.Background(), path)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Frame", products[0].Title)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open catalogue file")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := loader.Load(ctx, writeFile(t, "catalog.yaml", yamlList))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// mockLoader is a function-backed Loader.
type mockLoader struct {
	loadFunc func(ctx context.Context, path string) ([]model.Product, error)
}

func (m *mockLoader) Load(ctx context.Context, path string) ([]model.Product, error) {
	return m.loadFunc(ctx, path)
}

func TestFallbackLoader(t *testing.T) {
	ctx := context.Background()
	s3Products := []model.Product{{ID: "s3"}}
	localProducts := []model.Product{{ID: "local"}}

	t.Run("S3 success", func(t *testing.T) {
		s3 := &mockLoader{loadFunc: func(_ context.Context, path string) ([]model.Product, error) {
			assert.Equal(t, "catalog/seed.yaml", path)
			return s3Products, nil
		}}
		local := &mockLoader{loadFunc: func(context.Context, string) ([]model.Product, error) {
			t.Error("file loader should not be called when S3 succeeds")
			return nil, nil
		}}

		products, err := NewFallbackLoader(s3, local, "catalog/", true, zerolog.Nop()).Load(ctx, "seed.yaml")
		require.NoError(t, err)
		assert.Equal(t, s3Products, products)
	})

	t.Run("S3 failure falls back to local", func(t *testing.T) {
		s3 := &mockLoader{loadFunc: func(context.Context, string) ([]model.Product, error) {
			return nil, errors.New("S3 connection failed")
		}}
		local := &mockLoader{loadFunc: func(_ context.Context, path string) ([]model.Product, error) {
			assert.Equal(t, "seed.yaml", path)
			return localProducts, nil
		}}

		products, err := NewFallbackLoader(s3, local, "catalog/", true, zerolog.Nop()).Load(ctx, "seed.yaml")
		require.NoError(t, err)
		assert.Equal(t, localProducts, products)
	})

	t.Run("S3 disabled", func(t *testing.T) {
		local := &mockLoader{loadFunc: func(context.Context, string) ([]model.Product, error) {
			return localProducts, nil
		}}

		products, err := NewFallbackLoader(nil, local, "catalog/", true, zerolog.Nop()).Load(ctx, "seed.yaml")
		require.NoError(t, err)
		assert.Equal(t, localProducts, products)
	})
}

// mockS3 is a testify mock of the S3 object API.
type mockS3 struct {
	mock.Mock
}

func (m *mockS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func TestS3Loader_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("reads object", func(t *testing.T) {
		client := new(mockS3)
		client.On("GetObject", ctx, &s3.GetObjectInput{
			Bucket: aws.String("seed-bucket"),
			Key:    aws.String("catalog/seed.yaml"),
		}).Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(yamlList))}, nil)

		products, err := NewS3LoaderWithClient(client, "seed-bucket", zerolog.Nop()).Load(ctx, "catalog/seed.yaml")
		require.NoError(t, err)
		assert.Len(t, products, 2)
		client.AssertExpectations(t)
	})

	t.Run("object error", func(t *testing.T) {
		client := new(mockS3)
		client.On("GetObject", ctx, mock.Anything).Return(nil, errors.New("NoSuchKey"))

		_, err := NewS3LoaderWithClient(client, "seed-bucket", zerolog.Nop()).Load(ctx, "missing.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket=seed-bucket")
	})
}

func TestLoadAll(t *testing.T) {
	ctx := context.Background()
	files := map[string][]model.Product{
		"one.yaml": {{ID: "a", Title: "first a"}, {ID: ""}, {ID: "b"}},
		"two.yaml": {{ID: "a", Title: "second a"}, {ID: "c"}},
	}
	loader := &mockLoader{loadFunc: func(_ context.Context, path string) ([]model.Product, error) {
		products, ok := files[path]
		if !ok {
			return nil, errors.New("not found")
		}
		return products, nil
	}}

	t.Run("merges in file order", func(t *testing.T) {
		products, err := LoadAll(ctx, loader, []string{"one.yaml", "two.yaml"}, zerolog.Nop())
		require.NoError(t, err)

		require.Len(t, products, 3)
		assert.Equal(t, "a", products[0].ID)
		assert.Equal(t, "first a", products[0].Title)
		assert.Equal(t, "b", products[1].ID)
		assert.Equal(t, "c", products[2].ID)
	})

	t.Run("any failure fails the load", func(t *testing.T) {
		_, err := LoadAll(ctx, loader, []string{"one.yaml", "missing.yaml"}, zerolog.Nop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing.yaml")
	})

	t.Run("no files", func(t *testing.T) {
		products, err := LoadAll(ctx, loader, nil, zerolog.Nop())
		require.NoError(t, err)
		assert.Empty(t, products)
	})
}
