package services

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/pkg/http"
	"github.com/shashiranjanraj/estoque/pkg/storage"
	"github.com/shashiranjanraj/estoque/pkg/testkit"
)

func TestSlotStoresJSONByteArray(t *testing.T) {
	ctx := context.Background()
	disk := storage.NewLocalDisk(t.TempDir())
	slot := NewSlot(disk, "estoque_sqlite_db")

	require.NoError(t, slot.Save(ctx, []byte("SQL")))
	raw, err := disk.Get(ctx, "estoque_sqlite_db")
	require.NoError(t, err)
	assert.Equal(t, "[83,81,76]", string(raw))

	got, found, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("SQL"), got)
}

func TestSlotEmptyAndClear(t *testing.T) {
	ctx := context.Background()
	slot := NewSlot(storage.NewLocalDisk(t.TempDir()), "estoque_sqlite_db")

	_, found, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, slot.Save(ctx, []byte{0, 255}))
	require.NoError(t, slot.Clear(ctx))
	_, found, err = slot.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSlotRejectsMalformedValues(t *testing.T) {
	for name, raw := range map[string]string{
		"base64":       `"U1FM"`,
		"out of range": `[1,256]`,
		"negative":     `[-1]`,
		"not json":     `[1,2`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := decodeByteArray([]byte(raw))
			assert.Error(t, err)
		})
	}

	got, err := decodeByteArray([]byte(" [] "))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewSeedSource(t *testing.T) {
	src := NewSeedSource("https://appassets.androidplatform.net/assets", "dados_apresentacao.sqlite", 0)
	require.IsType(t, &HTTPSeed{}, src)
	assert.Equal(t, "https://appassets.androidplatform.net/assets/dados_apresentacao.sqlite", src.Location())

	src = NewSeedSource("./", "dados_apresentacao.sqlite", 0)
	require.IsType(t, &DiskSeed{}, src)
	assert.Equal(t, "./dados_apresentacao.sqlite", src.Location())
}

func TestOpenFromHTTPSeed(t *testing.T) {
	image := buildImage(t, models.ProductFields{Name: "Caderno", UnitPrice: 18.5, Quantity: 40, Category: "Papelaria"})

	mt := testkit.NewMockTransport(&testkit.Scenario{
		IsMockRequired: true,
		NetUtilMockStep: []testkit.MockStep{{
			Method:   "httprequest",
			IsMock:   true,
			MatchURL: "https://appassets.androidplatform.net/assets/dados_apresentacao.sqlite",
			ReturnData: testkit.MockReturnData{
				ContentType: "application/x-sqlite3",
				Body:        base64.StdEncoding.EncodeToString(image),
			},
		}},
	})
	http.DefaultClient.Transport = mt
	defer http.ResetTransport()

	svc := openService(t, Options{
		Seed: NewSeedSource("https://appassets.androidplatform.net/assets/", "dados_apresentacao.sqlite", 1<<20),
	})
	assert.Empty(t, mt.AssertAllCalled())

	snap := svc.List(context.Background(), "")
	require.Len(t, snap.Products, 1)
	assert.Equal(t, "Caderno", snap.Products[0].Name)
}

func TestHTTPSeedFailures(t *testing.T) {
	mt := testkit.NewMockTransport(&testkit.Scenario{
		NetUtilMockStep: []testkit.MockStep{{
			Method:     "httprequest",
			IsMock:     true,
			MatchURL:   "https://seed.example.com/missing",
			ReturnData: testkit.MockReturnData{StatusCode: 404},
		}},
	})
	http.DefaultClient.Transport = mt
	defer http.ResetTransport()

	_, err := (&HTTPSeed{URL: "https://seed.example.com/missing"}).Fetch(context.Background())
	assert.ErrorIs(t, err, models.ErrSeedLoad)

	// an unusable seed body falls back to an empty store
	svc := openService(t, Options{Seed: &HTTPSeed{URL: "https://seed.example.com/missing"}})
	assert.Empty(t, svc.List(context.Background(), "").Products)
	assert.NoError(t, svc.Ready())
}

func TestHTTPSeedUnreachableHostIsTriedOnce(t *testing.T) {
	mt := testkit.NewMockTransport(&testkit.Scenario{
		IsMockRequired: true,
		NetUtilMockStep: []testkit.MockStep{{
			Method:     "httprequest",
			IsMock:     true,
			MatchURL:   "https://seed.example.com/",
			ReturnData: testkit.MockReturnData{Fail: "dial tcp: connection refused"},
		}},
	})
	http.DefaultClient.Transport = mt
	defer http.ResetTransport()

	svc := openService(t, Options{Seed: &HTTPSeed{URL: "https://seed.example.com/dados_apresentacao.sqlite"}})
	assert.Empty(t, svc.List(context.Background(), "").Products)
	assert.Equal(t, []string{"GET https://seed.example.com/dados_apresentacao.sqlite"}, mt.Calls())
}
