package services

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
	"github.com/kamal-hamza/lx-assets/internal/core/ports/mocks"
)

func TestPublishService_Execute(t *testing.T) {
	ctx := context.Background()
	reg, ws, repo := newTestRegistrar(t)

	fig, err := reg.SaveFigure(ctx, domain.Figure{PNG: pngBytes(t)}, SaveRequest{Section: "forecasting", Name: "loss"})
	require.NoError(t, err)
	_, err = reg.SaveSummary(ctx, domain.Summary{Text: "x"}, SaveRequest{Section: "general", Name: "notes"})
	require.NoError(t, err)

	t.Run("filtered with manifest", func(t *testing.T) {
		pub := mocks.NewMockPublisher()
		svc := NewPublishService(ws, NewListService(repo), pub, nil)

		resp, err := svc.Execute(ctx, PublishRequest{
			Filter:          ListRequest{Category: domain.CategoryFigure},
			IncludeManifest: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "mock://bucket", resp.Location)
		assert.Equal(t, []string{
			"figures/forecasting__loss__v1.0.png",
			"manifests/asset_manifest.json",
			"manifests/asset_manifest.csv",
		}, resp.Keys)
		assert.Equal(t, 3, pub.Len())

		body, ctype, ok := pub.Object("figures/forecasting__loss__v1.0.png")
		require.True(t, ok)
		assert.Equal(t, "image/png", ctype)
		onDisk, err := os.ReadFile(fig.Path)
		require.NoError(t, err)
		assert.Equal(t, onDisk, body)

		_, ctype, _ = pub.Object("manifests/asset_manifest.csv")
		assert.Equal(t, "text/csv", ctype)
	})

	t.Run("dry run uploads nothing", func(t *testing.T) {
		pub := mocks.NewMockPublisher()
		svc := NewPublishService(ws, NewListService(repo), pub, nil)

		resp, err := svc.Execute(ctx, PublishRequest{DryRun: true})
		require.NoError(t, err)
		assert.Len(t, resp.Keys, 2)
		assert.Equal(t, 0, pub.Len())
	})

	t.Run("publisher failure", func(t *testing.T) {
		pub := mocks.NewMockPublisher()
		pub.SetShouldFail(true)
		svc := NewPublishService(ws, NewListService(repo), pub, nil)

		_, err := svc.Execute(ctx, PublishRequest{})
		assert.Error(t, err)
	})

	t.Run("missing artifact", func(t *testing.T) {
		require.NoError(t, os.Remove(fig.Path))
		svc := NewPublishService(ws, NewListService(repo), mocks.NewMockPublisher(), nil)

		_, err := svc.Execute(ctx, PublishRequest{Filter: ListRequest{Category: domain.CategoryFigure}})
		assert.Error(t, err)
	})
}
