package preview

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shruggr/go-txpreview/internal/cache"
	"github.com/shruggr/go-txpreview/internal/noves"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const txHash = "0xe2b05d52bece20f940e9e85549663abd7daf7010a004d568dfac4095d871594f"

// mockTranslator serves canned Translate responses keyed by chain
type mockTranslator struct {
	txs       map[string]*noves.Transaction
	descs     map[string]*noves.Description
	chains    []noves.Chain
	chainsErr error
	txCalls   atomic.Int32
}

func (m *mockTranslator) Chains(ctx context.Context) ([]noves.Chain, error) {
	return m.chains, m.chainsErr
}

func (m *mockTranslator) Transaction(ctx context.Context, chain, hash string) (*noves.Transaction, error) {
	m.txCalls.Add(1)
	if tx, ok := m.txs[chain]; ok {
		return tx, nil
	}
	return nil, &noves.APIError{Status: 404, Body: "not found"}
}

func (m *mockTranslator) Describe(ctx context.Context, chain, hash string) (*noves.Description, error) {
	if d, ok := m.descs[chain]; ok {
		return d, nil
	}
	return nil, errors.New("describe unavailable")
}

type mockLogos struct {
	img image.Image
}

func (m *mockLogos) Exists(ctx context.Context, chain string) bool {
	return m.img != nil && chain == "eth"
}

func (m *mockLogos) Fetch(ctx context.Context, chain string) (image.Image, error) {
	return m.img, nil
}

func newTranslator() *mockTranslator {
	return &mockTranslator{
		txs: map[string]*noves.Transaction{
			"polygon": {
				ClassificationData: &noves.ClassificationData{Type: "addLiquidity", Description: "Added liquidity to a pool."},
				RawTransactionData: &noves.RawTransactionData{
					FromAddress: "0x1111111111111111111111111111111111111111",
					ToAddress:   "0x2222222222222222222222222222222222222222",
				},
			},
			"eth": {
				ClassificationData: &noves.ClassificationData{},
			},
		},
		descs: map[string]*noves.Description{
			"eth": {Description: "Swapped 1 ETH for 3,000 USDC.", Type: "swap"},
		},
	}
}

func setupService(t *testing.T, tr *mockTranslator, logos *mockLogos) *Service {
	mr := miniredis.RunT(t)
	redisCache := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	return New(tr, logos, redisCache, time.Minute, nil)
}

func TestSummaryFromClassification(t *testing.T) {
	tr := newTranslator()
	svc := setupService(t, tr, &mockLogos{})
	ctx := context.Background()

	summary, ok := svc.Summary(ctx, Reference{Chain: "polygon", TxHash: txHash})
	require.True(t, ok)
	assert.Equal(t, "Add Liquidity", summary.Type)
	assert.Equal(t, "Added liquidity to a pool.", summary.Description)
	assert.Equal(t, "0x1111...1111", summary.From)
	assert.Equal(t, "0x2222...2222", summary.To)

	again, ok := svc.Summary(ctx, Reference{Chain: "polygon", TxHash: txHash})
	require.True(t, ok)
	assert.Equal(t, summary, again)
	assert.Equal(t, int32(1), tr.txCalls.Load(), "second summary should come from cache")
}

func TestSummaryFallsBackToDescribe(t *testing.T) {
	svc := setupService(t, newTranslator(), &mockLogos{})

	summary, ok := svc.Summary(context.Background(), Reference{Chain: "eth", TxHash: txHash})
	require.True(t, ok)
	assert.Equal(t, "Swap", summary.Type)
	assert.Equal(t, "Swapped 1 ETH for 3,000 USDC.", summary.Description)
	assert.Empty(t, summary.From)
}

func TestSummaryDescribeFailureIsNotCached(t *testing.T) {
	tr := newTranslator()
	described := tr.descs["eth"]
	delete(tr.descs, "eth")
	svc := setupService(t, tr, &mockLogos{})
	ref := Reference{Chain: "eth", TxHash: txHash}

	summary, ok := svc.Summary(context.Background(), ref)
	assert.False(t, ok)
	assert.Equal(t, DefaultDescription, summary.Description)

	tr.descs["eth"] = described
	summary, ok = svc.Summary(context.Background(), ref)
	assert.True(t, ok)
	assert.Equal(t, "Swapped 1 ETH for 3,000 USDC.", summary.Description)
	assert.Equal(t, int32(2), tr.txCalls.Load())
}

func TestSummaryDefaultsOnFailure(t *testing.T) {
	svc := setupService(t, newTranslator(), &mockLogos{})

	summary, ok := svc.Summary(context.Background(), Reference{Chain: "bsc", TxHash: txHash})
	assert.False(t, ok)
	assert.Equal(t, DefaultSummary(), summary)

	summary, ok = svc.Summary(context.Background(), Reference{Chain: "polygon"})
	assert.False(t, ok)
	assert.Equal(t, DefaultSummary(), summary)
}

func TestSummaryRejectsInvalidChain(t *testing.T) {
	tr := newTranslator()
	svc := setupService(t, tr, &mockLogos{})

	summary, ok := svc.Summary(context.Background(), Reference{Chain: "poly/gon", TxHash: txHash})
	assert.False(t, ok)
	assert.Equal(t, DefaultSummary(), summary)
	assert.Zero(t, tr.txCalls.Load())
}

func TestChains(t *testing.T) {
	tr := newTranslator()
	tr.chains = []noves.Chain{{Name: "base", Ecosystem: "evm"}}
	svc := setupService(t, tr, &mockLogos{})

	assert.Equal(t, tr.chains, svc.Chains(context.Background()))

	tr.chains = nil
	tr.chainsErr = errors.New("upstream down")
	assert.Equal(t, "base", svc.Chains(context.Background())[0].Name, "cached list should be served")
}

func TestChainsFallback(t *testing.T) {
	tr := newTranslator()
	tr.chainsErr = errors.New("upstream down")
	svc := New(tr, &mockLogos{}, nil, time.Minute, nil)

	chains := svc.Chains(context.Background())
	assert.Equal(t, FallbackChains, chains)

	chains[0].Name = "mutated"
	assert.Equal(t, "eth", FallbackChains[0].Name)
}

func TestCard(t *testing.T) {
	logo := image.NewRGBA(image.Rect(0, 0, 2, 2))
	svc := setupService(t, newTranslator(), &mockLogos{img: logo})

	card, ok := svc.Card(context.Background(), Reference{Chain: "eth", TxHash: txHash})
	assert.True(t, ok)
	assert.Equal(t, "Eth", card.ChainName)
	assert.Equal(t, "eth", card.ChainID)
	assert.Equal(t, "Swap", card.Title)
	assert.Same(t, logo, card.Icon)

	card, ok = svc.Card(context.Background(), Reference{Chain: "bsc", TxHash: txHash})
	assert.False(t, ok)
	assert.Nil(t, card.Icon)
	assert.Equal(t, DefaultType, card.Title)
	assert.Equal(t, DefaultDescription, card.Description)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Eth", Capitalize("ETH"))
	assert.Equal(t, "Polygon", Capitalize("polygon"))
	assert.Equal(t, "", Capitalize(""))
}

func TestValidChain(t *testing.T) {
	assert.True(t, ValidChain("arbitrum-nova"))
	assert.True(t, ValidChain("zksync_era"))
	assert.False(t, ValidChain(""))
	assert.False(t, ValidChain("../etc"))
	assert.False(t, ValidChain("eth/tx"))
}

func TestLoadBackground(t *testing.T) {
	assert.Nil(t, LoadBackground(""))
	assert.Nil(t, LoadBackground(filepath.Join(t.TempDir(), "missing.png")))

	path := filepath.Join(t.TempDir(), "bg.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.White)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	bg := LoadBackground(path)
	require.NotNil(t, bg)
	assert.Equal(t, 3, bg.Bounds().Dx())
}
