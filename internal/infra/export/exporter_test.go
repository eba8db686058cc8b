package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/LouYuanbo1/seatcrawler/internal/domain/entity"
	"github.com/LouYuanbo1/seatcrawler/internal/domain/model"
	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/typedapi/types"
	"github.com/stretchr/testify/require"
)

func sp(s string) *string { return &s }

func sampleSections() []entity.Section {
	return []entity.Section{
		{
			SectionName: sp("Block A"),
			SectionID:   sp("B1"),
			Rows: []entity.Row{
				{RowName: "Row 1", Seats: []entity.Seat{
					{SeatID: sp("S1"), Cx: sp("10"), Cy: sp("20"), R: sp("5")},
				}},
			},
		},
	}
}

const sampleJSON = `[
  {
    "section_name": "Block A",
    "section_id": "B1",
    "rows": [
      {
        "row_name": "Row 1",
        "seats": [
          {
            "seat_id": "S1",
            "seat_name": null,
            "type": null,
            "cx": "10",
            "cy": "20",
            "r": "5"
          }
        ]
      }
    ]
  }
]
`

func TestJsonFileExporter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "ticketmaster_seats.json")
	exporter := InitJsonFileExporter(path)

	require.NoError(t, exporter.Export(context.Background(), "https://example.com", sampleSections()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, sampleJSON, string(data))

	// 再次导出会覆盖旧文件
	require.NoError(t, exporter.Export(context.Background(), "https://example.com", nil))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[]\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "临时文件应该被清理")
}

func TestJsonFileExporterCanceled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seats.json")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := InitJsonFileExporter(path).Export(ctx, "", sampleSections())
	require.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(path)
	require.ErrorIs(t, statErr, os.ErrNotExist)
}

type recordingExporter struct {
	mu     sync.Mutex
	calls  int
	err    error
	urls   []string
	counts []int
}

func (r *recordingExporter) Export(ctx context.Context, eventUrl string, sections []entity.Section) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.urls = append(r.urls, eventUrl)
	r.counts = append(r.counts, len(sections))
	return r.err
}

func TestMultiExporter(t *testing.T) {
	a := &recordingExporter{}
	b := &recordingExporter{}
	require.NoError(t, InitMultiExporter(a, b).Export(context.Background(), "u", sampleSections()))
	require.Equal(t, 1, a.calls)
	require.Equal(t, 1, b.calls)
	require.Equal(t, []string{"u"}, b.urls)
	require.Equal(t, []int{1}, b.counts)

	boom := errors.New("disk full")
	c := &recordingExporter{err: boom}
	err := InitMultiExporter(a, c).Export(context.Background(), "u", sampleSections())
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, a.calls)
	require.Equal(t, 1, c.calls)

	require.Same(t, a, InitMultiExporter(a))
}

func TestMultiExporterNoPartialJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seats.json")
	boom := errors.New("es unavailable")
	failing := &recordingExporter{err: boom}

	err := InitMultiExporter(InitJsonFileExporter(path), failing).Export(context.Background(), "u", sampleSections())
	require.ErrorIs(t, err, boom)
	require.NoFileExists(t, path)

	ok := &recordingExporter{}
	require.NoError(t, InitMultiExporter(InitJsonFileExporter(path), ok).Export(context.Background(), "u", sampleSections()))
	require.FileExists(t, path)
	require.Equal(t, 1, ok.calls)
}

type fakeEsClient struct {
	created int
	docs    []*model.SeatDoc
	bulkErr error
	query   *types.Query
}

func (f *fakeEsClient) GetClient() *elasticsearch.TypedClient { return nil }
func (f *fakeEsClient) Index() string                         { return "seatmap_seats" }
func (f *fakeEsClient) CreateIndexWithMapping(ctx context.Context) error {
	f.created++
	return nil
}
func (f *fakeEsClient) BulkIndexDocsWithID(ctx context.Context, docs []*model.SeatDoc) error {
	f.docs = append(f.docs, docs...)
	return f.bulkErr
}
func (f *fakeEsClient) CountDocs(ctx context.Context, query *types.Query) (int64, error) {
	f.query = query
	return int64(len(f.docs)), nil
}

func TestEsExporter(t *testing.T) {
	client := &fakeEsClient{}
	at := time.Date(2026, 6, 27, 18, 0, 0, 0, time.UTC)
	exporter := &esExporter{client: client, now: func() time.Time { return at }}

	require.NoError(t, exporter.Export(context.Background(), "https://example.com/e", sampleSections()))
	require.Equal(t, 1, client.created)
	require.Len(t, client.docs, 1)

	doc := client.docs[0]
	require.Equal(t, "https://example.com/e", doc.EventUrl)
	require.Equal(t, "B1", *doc.SectionID)
	require.Equal(t, "Row 1", doc.RowName)
	require.Equal(t, "S1", *doc.SeatID)
	require.Equal(t, at, doc.ScrapedAt)
	require.NotEmpty(t, doc.ID)

	require.NotNil(t, client.query)
	require.Equal(t, "https://example.com/e", client.query.Term["event_url"].Value)
}

func TestEsExporterNoSeats(t *testing.T) {
	client := &fakeEsClient{}
	require.NoError(t, InitEsExporter(client).Export(context.Background(), "u", nil))
	require.Equal(t, 1, client.created)
	require.Empty(t, client.docs)
	require.Nil(t, client.query)
}

func TestEsExporterBulkError(t *testing.T) {
	boom := errors.New("cluster red")
	client := &fakeEsClient{bulkErr: boom}
	err := InitEsExporter(client).Export(context.Background(), "u", sampleSections())
	require.ErrorIs(t, err, boom)
}
